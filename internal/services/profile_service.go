// File: internal/services/profile_service.go
package services

import (
	"sync"

	"github.com/curalytica/assistant/internal/domain"
)

// ProfileService holds the patient profile for the lifetime of the process.
// The profile is deliberately not persisted; it is re-entered per run, like
// the rest of the conversation state.
type ProfileService struct {
	mu      sync.RWMutex
	profile domain.Profile
}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// Profile returns the current patient profile.
func (s *ProfileService) Profile() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Update replaces the patient profile.
func (s *ProfileService) Update(profile domain.Profile) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
}

// Payload returns the transmit form of the profile: only fields with
// non-empty trimmed values.
func (s *ProfileService) Payload() map[string]string {
	return s.Profile().Payload()
}
