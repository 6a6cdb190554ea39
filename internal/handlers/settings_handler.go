// File: internal/handlers/settings_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/services"
)

type SettingsHandler struct {
	Profiles    *services.ProfileService
	Preferences *services.PreferenceService
}

func NewSettingsHandler(profiles *services.ProfileService, prefs *services.PreferenceService) (*SettingsHandler, error) {
	if profiles == nil || prefs == nil {
		return nil, errors.New("profile and preference services are required")
	}
	return &SettingsHandler{Profiles: profiles, Preferences: prefs}, nil
}

// HandleUpdateProfile replaces the patient profile from the settings form.
func (h *SettingsHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.Profiles.Update(domain.Profile{
		Age:         r.FormValue("age"),
		Sex:         r.FormValue("sex"),
		Height:      r.FormValue("height"),
		Weight:      r.FormValue("weight"),
		Location:    r.FormValue("location"),
		Conditions:  r.FormValue("conditions"),
		Medications: r.FormValue("medications"),
		Allergies:   r.FormValue("allergies"),
	})
	finish(w, r, http.StatusOK, map[string]string{"status": "saved"})
}

// HandleToggleTheme flips between light and dark mode.
func (h *SettingsHandler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Preferences.ToggleTheme(r.Context())
	if err != nil {
		writeError(w, "Could not save theme", http.StatusInternalServerError)
		return
	}
	finish(w, r, http.StatusOK, map[string]string{"theme": theme})
}

// HandleToggleSidebar flips the persisted sidebar flag.
func (h *SettingsHandler) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	collapsed := !h.Preferences.SidebarCollapsed(r.Context())
	if err := h.Preferences.SetSidebarCollapsed(r.Context(), collapsed); err != nil {
		writeError(w, "Could not save sidebar state", http.StatusInternalServerError)
		return
	}
	finish(w, r, http.StatusOK, map[string]bool{"collapsed": collapsed})
}
