// File: internal/handlers/attachment_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/curalytica/assistant/internal/services"
	sessionservice "github.com/curalytica/assistant/internal/services/session"
)

// maxAttachmentBytes bounds uploads; medical scans are small, DICOM series
// are not supported.
const maxAttachmentBytes = 20 << 20

type AttachmentHandler struct {
	Sessions *services.SessionService
}

func NewAttachmentHandler(sessions *services.SessionService) (*AttachmentHandler, error) {
	if sessions == nil {
		return nil, errors.New("session service is required")
	}
	return &AttachmentHandler{Sessions: sessions}, nil
}

// HandleUpload places a file in the pending attachment slot, superseding
// any previous selection. Image MIME types and .dcm files are accepted.
func (h *AttachmentHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		writeError(w, "File too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !acceptableAttachment(header.Filename, mimeType) {
		writeError(w, "Only images and .dcm files are supported", http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Could not read upload", http.StatusBadRequest)
		return
	}

	if err := h.Sessions.AttachFile(header.Filename, mimeType, data); err != nil {
		var sessErr *sessionservice.SessionError
		if errors.As(err, &sessErr) && sessErr.Type == sessionservice.ErrTypeBusy {
			finish(w, r, http.StatusConflict, map[string]string{"error": sessErr.Message})
			return
		}
		writeError(w, "Could not attach file", http.StatusInternalServerError)
		return
	}

	finish(w, r, http.StatusOK, map[string]string{"status": "attached"})
}

// HandleClear empties the pending attachment slot.
func (h *AttachmentHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearAttachment()
	finish(w, r, http.StatusOK, map[string]string{"status": "cleared"})
}

// ServePreview streams a committed image preview.
func (h *AttachmentHandler) ServePreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, mimeType, ok := h.Sessions.Preview(id)
	if !ok {
		writeError(w, "Preview not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func acceptableAttachment(filename, mimeType string) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".dcm")
}
