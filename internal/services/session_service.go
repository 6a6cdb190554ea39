// File: internal/services/session_service.go
package services

import (
	"context"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services/assistant"
	sessionservice "github.com/curalytica/assistant/internal/services/session"
)

// SessionService is the high-level conversation API used by the handlers.
// It binds the session manager to the patient profile so every outgoing
// turn carries the trimmed profile payload.
type SessionService struct {
	manager  *sessionservice.Manager
	profiles *ProfileService
	logger   Logger
}

func NewSessionService(
	backend assistant.Service,
	profiles *ProfileService,
	historyWindow int,
	logger Logger,
) (*SessionService, error) {
	if backend == nil {
		return nil, sessionservice.NewValidationError("constructor", "assistant service is required")
	}
	if profiles == nil {
		return nil, sessionservice.NewValidationError("constructor", "profile service is required")
	}

	config := sessionservice.DefaultConfig()
	if historyWindow > 0 {
		config.HistoryWindow = historyWindow
	}

	manager, err := sessionservice.NewManager(config, backend, logger)
	if err != nil {
		return nil, err
	}

	return &SessionService{manager: manager, profiles: profiles, logger: logger}, nil
}

// State returns a copy of the conversation state for rendering.
func (s *SessionService) State() sessionservice.State {
	return s.manager.State()
}

// StartNewSession archives the active conversation and opens a blank one.
func (s *SessionService) StartNewSession() {
	s.manager.StartNewSession()
}

// LoadSession restores a saved conversation.
func (s *SessionService) LoadSession(id string) error {
	return s.manager.LoadSession(id)
}

// DeleteSession drops a saved conversation.
func (s *SessionService) DeleteSession(id string) {
	s.manager.DeleteSession(id)
}

// SetActiveTool switches the send protocol.
func (s *SessionService) SetActiveTool(tool domain.ToolMode) {
	s.manager.SetActiveTool(tool)
}

// AttachFile selects a file for the next send.
func (s *SessionService) AttachFile(name, mimeType string, data []byte) error {
	return s.manager.AttachFile(name, mimeType, data)
}

// ClearAttachment discards the selected file.
func (s *SessionService) ClearAttachment() {
	s.manager.ClearAttachment()
}

// Send runs one conversational turn with the current profile attached.
func (s *SessionService) Send(ctx context.Context, text string, tool domain.ToolMode) error {
	return s.manager.Send(ctx, sessionservice.SendInput{
		Text:    text,
		Tool:    tool,
		Profile: s.profiles.Payload(),
	})
}

// Preview returns the bytes of a committed image preview.
func (s *SessionService) Preview(id string) ([]byte, string, bool) {
	return s.manager.Previews().Get(id)
}

// Wait blocks until background work (title upgrades) has settled. Used on
// shutdown and in tests.
func (s *SessionService) Wait() {
	s.manager.Wait()
}
