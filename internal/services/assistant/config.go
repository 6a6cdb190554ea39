// File: internal/services/assistant/config.go
package assistant

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// BaseURL of the remote assistant backend, e.g. http://localhost:5001
	BaseURL string

	// Performance Configuration
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("ASSISTANT_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:5001",
		Timeout:    2 * time.Minute,
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}
