// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services"
	sessionservice "github.com/curalytica/assistant/internal/services/session"
)

type ChatHandler struct {
	Sessions *services.SessionService
}

func NewChatHandler(sessions *services.SessionService) (*ChatHandler, error) {
	if sessions == nil {
		return nil, errors.New("session service is required")
	}
	return &ChatHandler{Sessions: sessions}, nil
}

// GetState returns the full conversation state for rendering.
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.Sessions.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages":    state.Messages,
		"history":     state.History,
		"current_id":  state.CurrentID,
		"active_tool": state.ActiveTool,
		"tool_error":  state.ToolError,
		"sending":     state.Sending,
		"pending":     state.Pending,
	})
}

// HandleSend runs one conversational turn. The form carries the message
// text and an optional tool override.
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	text, tool, err := parseSendRequest(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Sessions.Send(r.Context(), text, tool); err != nil {
		var sessErr *sessionservice.SessionError
		if errors.As(err, &sessErr) {
			switch sessErr.Type {
			case sessionservice.ErrTypeBusy:
				finish(w, r, http.StatusConflict, map[string]string{"error": sessErr.Message})
			case sessionservice.ErrTypeValidation:
				finish(w, r, http.StatusUnprocessableEntity, map[string]string{"error": sessErr.Message})
			default:
				writeError(w, "Error processing message: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeError(w, "Error processing message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	finish(w, r, http.StatusOK, map[string]string{"status": "sent"})
}

// HandleNewChat archives the active conversation and opens a blank one.
func (h *ChatHandler) HandleNewChat(w http.ResponseWriter, r *http.Request) {
	h.Sessions.StartNewSession()
	finish(w, r, http.StatusOK, map[string]string{"status": "new"})
}

// HandleLoadChat restores a saved conversation.
func (h *ChatHandler) HandleLoadChat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Sessions.LoadSession(id); err != nil {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	finish(w, r, http.StatusOK, map[string]string{"status": "loaded"})
}

// HandleDeleteChat removes a saved conversation.
func (h *ChatHandler) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	h.Sessions.DeleteSession(mux.Vars(r)["id"])
	finish(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleSetTool switches the active tool mode.
func (h *ChatHandler) HandleSetTool(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("tool")
	if raw == "" && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Tool string `json:"tool"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			raw = req.Tool
		}
	}

	tool, err := domain.ParseToolMode(raw)
	if err != nil {
		writeError(w, "Invalid tool mode", http.StatusBadRequest)
		return
	}
	h.Sessions.SetActiveTool(tool)
	finish(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// parseSendRequest accepts both form posts from the chat page and JSON
// bodies. The tool override is optional.
func parseSendRequest(r *http.Request) (string, domain.ToolMode, error) {
	var text, rawTool string

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Message string `json:"message"`
			Tool    string `json:"tool"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", errors.New("bad request body")
		}
		text, rawTool = req.Message, req.Tool
	} else {
		if err := r.ParseForm(); err != nil {
			return "", "", errors.New("bad request body")
		}
		text, rawTool = r.FormValue("message"), r.FormValue("tool")
	}

	if rawTool == "" {
		return text, "", nil
	}
	tool, err := domain.ParseToolMode(rawTool)
	if err != nil {
		return "", "", errors.New("invalid tool mode")
	}
	return text, tool, nil
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// finish ends a state-changing request: browsers posting forms get sent
// back to the chat page, API callers get JSON.
func finish(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, status, data)
}
