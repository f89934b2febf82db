package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents an FCM HTTP v1 API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new FCM client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SendToTopic publishes a notification to every device subscribed to the topic.
func (c *Client) SendToTopic(ctx context.Context, topic, title, body string) error {
	msg := Message{
		Topic: topic,
		Notification: &Notification{
			Title: title,
			Body:  body,
		},
	}
	return c.send(ctx, msg)
}

// SendToToken delivers a notification to a single device token.
func (c *Client) SendToToken(ctx context.Context, token, title, body string) error {
	msg := Message{
		Token: token,
		Notification: &Notification{
			Title: title,
			Body:  body,
		},
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg Message) error {
	reqBody, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/projects/%s/messages:send", c.config.BaseURL, c.config.ProjectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}

		errorMsg := fmt.Sprintf("FCM error - Status: %d, Code: %d, Message: %s",
			resp.StatusCode, errResp.Error.Code, errResp.Error.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return fmt.Errorf("%w: %s", ErrSendFailed, errorMsg)
		}
	}

	return nil
}
