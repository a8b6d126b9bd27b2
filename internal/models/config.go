package models

import "time"

// ClientConfig contains runtime options for the API transport.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Proxies   []string
}
