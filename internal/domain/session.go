// File: internal/domain/session.go
package domain

// Session is one saved conversation: an id, a display label and the message
// sequence that was active when the conversation was put aside.
type Session struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	CreatedDate   string    `json:"date"`
	SavedMessages []Message `json:"saved_messages"`
}
