// File: internal/services/session/manager.go
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services/assistant"
)

const sessionDateLayout = "1/2/2006"

// pendingFile is the selected-but-unsent attachment, bytes included. The
// bytes only ever travel to the analyze-image endpoint.
type pendingFile struct {
	name      string
	mimeType  string
	data      []byte
	previewID string // set for image files only
}

// SendInput is one send action as resolved by the caller.
type SendInput struct {
	Text    string
	Tool    domain.ToolMode   // empty means the currently active tool
	Profile map[string]string // trimmed profile payload
}

// State is a point-in-time copy of the manager state for rendering.
type State struct {
	Messages   []domain.Message
	History    []domain.Session
	CurrentID  string
	ActiveTool domain.ToolMode
	ToolError  string
	Sending    bool
	Pending    *domain.Attachment
}

// Manager owns the active conversation, the rolling session history and the
// three send protocols against the assistant backend. All mutation goes
// through the mutex; network calls run outside it, serialized by the
// sending flag.
type Manager struct {
	config    *Config
	assistant assistant.Service
	previews  *PreviewStore
	titler    *Titler
	logger    Logger

	mu        sync.Mutex
	messages  []domain.Message
	history   []domain.Session
	currentID string
	sending   bool
	pending   *pendingFile
	tool      domain.ToolMode
	toolError string

	background *conc.WaitGroup
}

func NewManager(config *Config, svc assistant.Service, logger Logger) (*Manager, error) {
	if svc == nil {
		return nil, NewValidationError("constructor", "assistant service is required")
	}
	if logger == nil {
		return nil, NewValidationError("constructor", "logger is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &SessionError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}

	return &Manager{
		config:     config,
		assistant:  svc,
		previews:   NewPreviewStore(),
		titler:     NewTitler(config, svc, logger),
		logger:     logger,
		currentID:  uuid.NewString(),
		tool:       domain.ToolChat,
		background: conc.NewWaitGroup(),
	}, nil
}

// Previews exposes the preview store for serving committed image previews.
func (m *Manager) Previews() *PreviewStore { return m.previews }

// State returns a copy of the current manager state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := State{
		Messages:   append([]domain.Message(nil), m.messages...),
		History:    append([]domain.Session(nil), m.history...),
		CurrentID:  m.currentID,
		ActiveTool: m.tool,
		ToolError:  m.toolError,
		Sending:    m.sending,
	}
	if m.pending != nil {
		state.Pending = &domain.Attachment{
			Name:      m.pending.name,
			MimeType:  m.pending.mimeType,
			SizeBytes: int64(len(m.pending.data)),
			PreviewID: m.pending.previewID,
		}
	}
	return state
}

// StartNewSession snapshots the active conversation and resets to a blank
// slate with a fresh id. A non-empty snapshot is committed to history
// immediately under its fallback title; the remote title upgrade runs in the
// background and can never lose the snapshot.
func (m *Manager) StartNewSession() {
	m.mu.Lock()
	snapshot := m.messages
	snapshotID := m.currentID

	m.messages = nil
	m.currentID = uuid.NewString()
	m.toolError = ""
	m.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	entry := domain.Session{
		ID:            snapshotID,
		Label:         m.titler.Fallback(snapshot),
		CreatedDate:   time.Now().Format(sessionDateLayout),
		SavedMessages: snapshot,
	}

	m.mu.Lock()
	m.upsertHistory(entry)
	m.mu.Unlock()

	m.background.Go(func() {
		label := m.titler.Generate(context.Background(), snapshot)

		m.mu.Lock()
		defer m.mu.Unlock()
		// The session may have been deleted while the title resolved; an
		// upgrade must not resurrect it.
		for i := range m.history {
			if m.history[i].ID == snapshotID {
				m.history[i].Label = label
				return
			}
		}
	})
}

// upsertHistory inserts a new entry at the front, or replaces an existing
// entry with the same id in place, keeping its original rank. Callers hold
// the mutex.
func (m *Manager) upsertHistory(entry domain.Session) {
	for i := range m.history {
		if m.history[i].ID == entry.ID {
			m.history[i] = entry
			return
		}
	}
	m.history = append([]domain.Session{entry}, m.history...)
}

// LoadSession replaces the active conversation with a stored one. The
// history entry itself is left untouched.
func (m *Manager) LoadSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.history {
		if entry.ID == id {
			m.messages = append([]domain.Message(nil), entry.SavedMessages...)
			m.currentID = entry.ID
			m.toolError = ""
			return nil
		}
	}
	return NewNotFoundError("load_session", id)
}

// DeleteSession removes an entry from history and releases the previews its
// messages owned. Deleting the active session also resets to a blank slate;
// the discarded conversation is not re-saved.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()

	released := make(map[string]struct{})
	kept := m.history[:0]
	for _, entry := range m.history {
		if entry.ID != id {
			kept = append(kept, entry)
			continue
		}
		for _, msg := range entry.SavedMessages {
			if msg.Attachment != nil && msg.Attachment.PreviewID != "" {
				released[msg.Attachment.PreviewID] = struct{}{}
			}
		}
	}
	m.history = kept

	if id == m.currentID {
		for _, msg := range m.messages {
			if msg.Attachment != nil && msg.Attachment.PreviewID != "" {
				released[msg.Attachment.PreviewID] = struct{}{}
			}
		}
		m.messages = nil
		m.currentID = uuid.NewString()
	}
	m.mu.Unlock()

	for previewID := range released {
		m.previews.Release(previewID)
	}
}

// SetActiveTool switches the request protocol for the next send.
func (m *Manager) SetActiveTool(tool domain.ToolMode) {
	m.mu.Lock()
	m.tool = tool
	m.toolError = ""
	m.mu.Unlock()
}

// AttachFile stores a selected file in the pending slot, superseding (and
// releasing the preview of) any previous selection.
func (m *Manager) AttachFile(name, mimeType string, data []byte) error {
	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return NewBusyError("attach_file")
	}

	var superseded string
	if m.pending != nil {
		superseded = m.pending.previewID
	}

	next := &pendingFile{name: name, mimeType: mimeType, data: data}
	if strings.HasPrefix(mimeType, "image/") {
		next.previewID = m.previews.Put(data, mimeType)
	}
	m.pending = next
	m.toolError = ""
	m.mu.Unlock()

	m.previews.Release(superseded)
	return nil
}

// ClearAttachment empties the pending slot and releases its preview.
func (m *Manager) ClearAttachment() {
	m.mu.Lock()
	var released string
	if m.pending != nil {
		released = m.pending.previewID
		m.pending = nil
	}
	m.mu.Unlock()

	m.previews.Release(released)
}

// Send runs one conversational turn in the effective tool mode. Validation
// failures reject the action without touching the conversation; transport
// and backend failures surface as a bot-authored message, so the
// conversation itself is the error channel and Send returns nil for them.
func (m *Manager) Send(ctx context.Context, input SendInput) error {
	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return NewBusyError("send")
	}

	tool := input.Tool
	if tool == "" {
		tool = m.tool
	}
	file := m.pending
	text := strings.TrimSpace(input.Text)

	if text == "" && file == nil {
		m.mu.Unlock()
		return NewValidationError("send", "Type a message or attach a file.")
	}

	m.toolError = ""
	historyFrame := BuildHistoryFrame(m.messages, m.config.HistoryWindow)

	if text == "" && file != nil {
		if strings.HasPrefix(file.mimeType, "image/") {
			text = "Please analyze the attached image."
		} else {
			text = fmt.Sprintf("Please review the attached file (%s).", file.name)
		}
	}

	var symptoms []string
	switch tool {
	case domain.ToolSymptom:
		symptoms = ParseSymptoms(text)
		if len(symptoms) == 0 {
			m.toolError = "Add at least one symptom to run the checker."
			err := NewValidationError("send", m.toolError)
			m.mu.Unlock()
			return err
		}
	case domain.ToolImaging:
		if file == nil {
			m.toolError = "Attach an image to run analysis."
			err := NewValidationError("send", m.toolError)
			m.mu.Unlock()
			return err
		}
	}

	// Commit the user turn optimistically before any network call.
	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if tool != domain.ToolSymptom && file != nil {
		// Preview ownership transfers from the pending slot to this message;
		// the slot is cleared without releasing the handle.
		userMsg.Attachment = &domain.Attachment{
			Name:      file.name,
			MimeType:  file.mimeType,
			SizeBytes: int64(len(file.data)),
			PreviewID: file.previewID,
		}
		m.pending = nil
	}
	m.messages = append(m.messages, userMsg)
	m.sending = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.sending = false
		m.mu.Unlock()
	}()

	var reply string
	var err error
	switch tool {
	case domain.ToolSymptom:
		reply, err = m.runSymptomTurn(ctx, symptoms, input.Profile, historyFrame)
	case domain.ToolImaging:
		reply, err = m.runImagingTurn(ctx, file, input.Profile, historyFrame)
	default:
		reply, err = m.runChatTurn(ctx, text, file, input.Profile, historyFrame)
	}

	if err != nil {
		m.logger.Error("send turn failed", "tool", string(tool), "error", err)
		reply = assistant.UserMessage(err)
	}
	m.appendBot(reply)
	return nil
}

// runSymptomTurn calls the prediction endpoint, then asks the chat endpoint
// to summarize the result and pose follow-up questions.
func (m *Manager) runSymptomTurn(ctx context.Context, symptoms []string, profile map[string]string, history []assistant.HistoryEntry) (string, error) {
	result, err := m.assistant.Predict(ctx, symptoms, profile)
	if err != nil {
		return "", err
	}

	prediction := result.Prediction
	if prediction == "" {
		prediction = "No prediction returned."
	}
	reasoning := result.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning returned."
	}

	followup := strings.Join([]string{
		fmt.Sprintf("Patient symptoms: %s.", strings.Join(symptoms, ", ")),
		fmt.Sprintf("Symptom checker result: %s.", prediction),
		fmt.Sprintf("Reasoning: %s.", reasoning),
		"Please respond to the patient with a concise summary and 1-3 follow-up questions.",
	}, "\n")

	return m.assistant.Chat(ctx, assistant.ChatRequest{
		Message:             followup,
		History:             history,
		Profile:             profile,
		ConversationStarted: len(history) > 0,
		Tool:                string(domain.ToolSymptom),
	})
}

// runImagingTurn submits the attached file for analysis, then asks the chat
// endpoint to explain the result in plain language.
func (m *Manager) runImagingTurn(ctx context.Context, file *pendingFile, profile map[string]string, history []assistant.HistoryEntry) (string, error) {
	analysis, err := m.assistant.AnalyzeImage(ctx, file.name, file.data)
	if err != nil {
		return "", err
	}
	if analysis == "" {
		analysis = "No analysis returned."
	}

	interpret := strings.Join([]string{
		fmt.Sprintf("The patient uploaded %s.", fileLabel(file)),
		fmt.Sprintf("Image analysis result: %s.", analysis),
		"Please explain the result in plain language, keep it concise, and ask 1-2 follow-up questions.",
	}, "\n")

	return m.assistant.Chat(ctx, assistant.ChatRequest{
		Message:             interpret,
		History:             history,
		Profile:             profile,
		ConversationStarted: len(history) > 0,
		Tool:                string(domain.ToolImaging),
	})
}

// runChatTurn sends plain chat. An attached file is first analyzed silently
// to enrich context; analysis failure is non-fatal to the turn.
func (m *Manager) runChatTurn(ctx context.Context, text string, file *pendingFile, profile map[string]string, history []assistant.HistoryEntry) (string, error) {
	if file != nil {
		text += m.analysisContext(ctx, file)
	}

	return m.assistant.Chat(ctx, assistant.ChatRequest{
		Message:             text,
		History:             history,
		Profile:             profile,
		ConversationStarted: len(history) > 0,
		Tool:                string(domain.ToolChat),
	})
}

// analysisContext runs the silent pre-analysis for chat mode and renders it
// as a bracketed system-context suffix, whatever the outcome.
func (m *Manager) analysisContext(ctx context.Context, file *pendingFile) string {
	label := fileLabel(file)

	analysis, err := m.assistant.AnalyzeImage(ctx, file.name, file.data)
	if err == nil {
		return fmt.Sprintf("\n\n[SYSTEM: The user uploaded %s. Analysis: %s]", label, analysis)
	}

	m.logger.Warn("silent image analysis failed", "file", file.name, "error", err)
	if isBackendError(err) {
		return fmt.Sprintf("\n\n[SYSTEM: The user tried to upload %s but analysis failed. %s]", label, assistant.UserMessage(err))
	}
	return fmt.Sprintf("\n\n[SYSTEM: Image upload failed for %s.]", label)
}

func (m *Manager) appendBot(text string) {
	m.mu.Lock()
	m.messages = append(m.messages, domain.Message{
		ID:        uuid.NewString(),
		Sender:    domain.SenderBot,
		Text:      text,
		CreatedAt: time.Now(),
	})
	m.mu.Unlock()
}

// Wait blocks until background title upgrades have settled.
func (m *Manager) Wait() {
	m.background.Wait()
}

func fileLabel(file *pendingFile) string {
	if file.name != "" {
		return file.name
	}
	return "a medical image"
}

func isBackendError(err error) bool {
	ae, ok := err.(*assistant.Error)
	return ok && ae.Type == assistant.ErrTypeBackend
}
