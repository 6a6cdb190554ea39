// File: internal/services/session/preview.go
package session

import (
	"sync"

	"github.com/google/uuid"
)

// preview is one in-process preview resource.
type preview struct {
	data     []byte
	mimeType string
}

// PreviewStore holds image preview bytes for pending and committed
// attachments. Each preview is owned by exactly one of the pending slot or a
// specific committed message; ownership transfer is just handing the id
// over. Release is idempotent and deterministic — previews die with their
// owner, never on a render callback.
type PreviewStore struct {
	mu       sync.RWMutex
	previews map[string]preview
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{previews: make(map[string]preview)}
}

// Put stores preview bytes and returns the new handle.
func (s *PreviewStore) Put(data []byte, mimeType string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.previews[id] = preview{data: data, mimeType: mimeType}
	s.mu.Unlock()
	return id
}

// Get returns the preview bytes and MIME type for a handle.
func (s *PreviewStore) Get(id string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.previews[id]
	return p.data, p.mimeType, ok
}

// Release frees a preview. Releasing an unknown or already-released handle
// is a no-op.
func (s *PreviewStore) Release(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	delete(s.previews, id)
	s.mu.Unlock()
}

// Len reports how many previews are currently held.
func (s *PreviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}
