// File: internal/services/session/config.go
package session

import "fmt"

type Config struct {
	// Conversation framing
	HistoryWindow     int // trailing messages sent as chat context
	TitleMessageLimit int // leading messages sent to the titling endpoint

	// Title Configuration
	FallbackTitleMaxLen int // fallback label truncation, in runes
	TitleMaxLen         int // cleaned remote title truncation, in runes
}

func (c *Config) Validate() error {
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("history_window must be positive")
	}
	if c.TitleMessageLimit <= 0 {
		return fmt.Errorf("title_message_limit must be positive")
	}
	if c.FallbackTitleMaxLen <= 0 {
		return fmt.Errorf("fallback_title_max_len must be positive")
	}
	if c.TitleMaxLen <= 0 {
		return fmt.Errorf("title_max_len must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryWindow:       50,
		TitleMessageLimit:   10,
		FallbackTitleMaxLen: 42,
		TitleMaxLen:         60,
	}
}
