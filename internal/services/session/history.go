// File: internal/services/session/history.go
package session

import (
	"fmt"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services/assistant"
)

// BuildHistoryFrame maps the trailing window of a message list into the
// shape the chat endpoint expects. Bot messages become role "model"; an
// attachment name is appended to the text as a parenthetical note.
func BuildHistoryFrame(messages []domain.Message, window int) []assistant.HistoryEntry {
	if len(messages) > window {
		messages = messages[len(messages)-window:]
	}

	frame := make([]assistant.HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		role := "model"
		if msg.Sender == domain.SenderUser {
			role = "user"
		}
		text := msg.Text
		if msg.Attachment != nil && msg.Attachment.Name != "" {
			text = fmt.Sprintf("%s (Attachment: %s)", text, msg.Attachment.Name)
		}
		frame = append(frame, assistant.HistoryEntry{Role: role, Text: text})
	}
	return frame
}
