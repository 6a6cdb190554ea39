// File: internal/services/session/title.go
package session

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services/assistant"
)

const fallbackLabel = "New chat"

// Titler derives display labels for saved sessions. The remote titling
// endpoint is best effort; every failure path lands on the deterministic
// local fallback.
type Titler struct {
	config    *Config
	assistant assistant.Service
	logger    Logger
}

func NewTitler(config *Config, svc assistant.Service, logger Logger) *Titler {
	return &Titler{config: config, assistant: svc, logger: logger}
}

// Generate asks the backend for a short label based on the first few
// messages. On any failure, or when the cleaned title comes back empty, the
// local fallback is used instead.
func (t *Titler) Generate(ctx context.Context, messages []domain.Message) string {
	limit := t.config.TitleMessageLimit
	if len(messages) < limit {
		limit = len(messages)
	}

	payload := make([]assistant.TitleMessage, 0, limit)
	for _, msg := range messages[:limit] {
		payload = append(payload, assistant.TitleMessage{
			Sender: string(msg.Sender),
			Text:   msg.Text,
		})
	}

	title, err := t.assistant.ChatTitle(ctx, payload)
	if err != nil {
		t.logger.Debug("remote title failed, using fallback", "error", err)
		return t.Fallback(messages)
	}

	cleaned := cleanTitle(title)
	if cleaned == "" {
		return t.Fallback(messages)
	}
	return truncateWithEllipsis(cleaned, t.config.TitleMaxLen)
}

// Fallback builds a label from the first user message with non-empty text,
// truncated to the configured length. With no such message the literal
// "New chat" label is returned.
func (t *Titler) Fallback(messages []domain.Message) string {
	for _, msg := range messages {
		if msg.Sender != domain.SenderUser {
			continue
		}
		if trimmed := strings.TrimSpace(msg.Text); trimmed != "" {
			return truncateWithEllipsis(trimmed, t.config.FallbackTitleMaxLen)
		}
	}
	return fallbackLabel
}

// cleanTitle strips quote and period characters and trims whitespace.
func cleanTitle(title string) string {
	cleaned := strings.ReplaceAll(title, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	return strings.TrimSpace(cleaned)
}

// truncateWithEllipsis safely truncates a UTF-8 string to maxLen runes,
// appending an ellipsis marker when anything was cut.
func truncateWithEllipsis(input string, maxLen int) string {
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	b.WriteRune('…')
	return b.String()
}
