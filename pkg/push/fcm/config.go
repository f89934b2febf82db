package fcm

import (
	"errors"
)

// Config holds the FCM HTTP v1 API settings.
type Config struct {
	ProjectID   string
	AccessToken string
	BaseURL     string
}

func (c Config) Validate() error {
	if c.ProjectID == "" {
		return errors.New("fcm: project ID is required")
	}
	if c.AccessToken == "" {
		return errors.New("fcm: access token is required")
	}
	if c.BaseURL == "" {
		return errors.New("fcm: base URL is required")
	}
	return nil
}
