// File: internal/domain/message.go
package domain

import (
	"strings"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single turn within a conversation. Messages are
// immutable once appended; ordering is append order.
type Message struct {
	ID         string      `json:"id"`
	Sender     Sender      `json:"sender"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Attachment carries client-side file metadata for a message. PreviewID
// references an in-process preview resource; it is never persisted and never
// sent to the backend — only the metadata fields are.
type Attachment struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	PreviewID string `json:"preview_id,omitempty"`
}

// IsImage reports whether the attachment is an image by MIME type.
func (a *Attachment) IsImage() bool {
	return a != nil && strings.HasPrefix(a.MimeType, "image/")
}
