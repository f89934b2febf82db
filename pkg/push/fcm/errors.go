package fcm

import "errors"

var (
	// ErrNetworkError indicates the FCM endpoint could not be reached
	ErrNetworkError = errors.New("fcm: network error")

	// ErrUnauthorized indicates the access token was rejected
	ErrUnauthorized = errors.New("fcm: unauthorized")

	// ErrInvalidRequest indicates FCM rejected the message payload
	ErrInvalidRequest = errors.New("fcm: invalid request")

	// ErrSendFailed indicates FCM returned an unexpected error
	ErrSendFailed = errors.New("fcm: send failed")
)
