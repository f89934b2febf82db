package fcm

// Message is the FCM HTTP v1 message envelope.
type Message struct {
	Topic        string            `json:"topic,omitempty"`
	Token        string            `json:"token,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// Notification is the user-visible part of a push message.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type sendRequest struct {
	Message Message `json:"message"`
}

// SendResponse is returned by FCM on a successful send.
type SendResponse struct {
	Name string `json:"name"`
}

// ErrorResponse is the FCM error envelope.
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
