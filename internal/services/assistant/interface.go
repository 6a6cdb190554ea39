// File: internal/services/assistant/interface.go
package assistant

import "context"

// HistoryEntry is one prior turn of the conversation as the backend expects
// it: role is "user" or "model", text may carry an attachment note.
type HistoryEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// TitleMessage is the trimmed message shape sent to the titling endpoint.
type TitleMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatRequest is the payload for the /chat endpoint.
type ChatRequest struct {
	Message             string            `json:"message"`
	History             []HistoryEntry    `json:"history"`
	Profile             map[string]string `json:"profile"`
	ConversationStarted bool              `json:"conversation_started"`
	Tool                string            `json:"tool,omitempty"`
}

// Prediction is the symptom checker result.
type Prediction struct {
	Prediction string `json:"prediction"`
	Reasoning  string `json:"reasoning"`
}

// Service is the remote assistant backend. Every call either succeeds with a
// payload or fails with an *Error carrying a displayable message.
type Service interface {
	// Chat sends a message plus conversation context and returns the reply.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// Predict runs the structured symptom checker.
	Predict(ctx context.Context, symptoms []string, profile map[string]string) (Prediction, error)
	// AnalyzeImage submits a file as multipart form data and returns the
	// analysis text.
	AnalyzeImage(ctx context.Context, filename string, data []byte) (string, error)
	// ChatTitle derives a short label for a conversation. Failures are
	// returned as-is; callers fall back to a local title.
	ChatTitle(ctx context.Context, messages []TitleMessage) (string, error)
}
