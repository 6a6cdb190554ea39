// File: internal/handlers/page_handlers.go
package handlers

import (
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/curalytica/assistant/internal/domain"
	"github.com/curalytica/assistant/internal/render"
	"github.com/curalytica/assistant/internal/services"
)

// Template cache to avoid parsing templates on every request
var (
	templateCache     map[string]*template.Template
	templateCacheOnce sync.Once
)

// loadTemplateCache creates separate template sets for each page
func loadTemplateCache() {
	templateCache = make(map[string]*template.Template)

	templates := []string{"chat.html", "error.html"}

	for _, tmpl := range templates {
		ts := template.New(tmpl)

		ts, err := ts.ParseFiles("web/templates/layout.html")
		if err != nil {
			log.Fatalf("Error parsing layout for %s: %v", tmpl, err)
		}

		ts, err = ts.ParseFiles("web/templates/" + tmpl)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", tmpl, err)
		}

		templateCache[tmpl] = ts
	}
}

// renderTemplate uses the template cache and injects security headers
func renderTemplate(w http.ResponseWriter, tmpl string, data map[string]interface{}) {
	templateCacheOnce.Do(loadTemplateCache)
	addSecurityHeaders(w)

	if data == nil {
		data = make(map[string]interface{})
	}

	t, ok := templateCache[tmpl]
	if !ok {
		log.Printf("Template %s not found in cache", tmpl)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("Template render error for %s: %v", tmpl, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

// MessageView is one message prepared for the chat template.
type MessageView struct {
	domain.Message
	HTML      template.HTML
	SizeLabel string
}

// SuggestionChip is one empty-state prompt card.
type SuggestionChip struct {
	Label  string
	Prompt string
}

var suggestionChips = []SuggestionChip{
	{Label: "Analyze Symptoms", Prompt: "I'm feeling feverish and have a headache. Can you check my symptoms?"},
	{Label: "Read Medical Report", Prompt: "I want to upload a blood test report. What should I look for?"},
	{Label: "Check Vitals", Prompt: "What is a normal resting heart rate for a 30 year old?"},
	{Label: "Dietary Advice", Prompt: "Suggest a diet plan for lowering cholesterol."},
}

type PageHandler struct {
	Sessions    *services.SessionService
	Profiles    *services.ProfileService
	Preferences *services.PreferenceService
	markdown    *render.Markdown
}

func NewPageHandler(sessions *services.SessionService, profiles *services.ProfileService, prefs *services.PreferenceService) *PageHandler {
	return &PageHandler{
		Sessions:    sessions,
		Profiles:    profiles,
		Preferences: prefs,
		markdown:    render.NewMarkdown(),
	}
}

// ShowChatPage renders the whole client: sidebar, conversation, composer
// and settings form.
func (h *PageHandler) ShowChatPage(w http.ResponseWriter, r *http.Request) {
	state := h.Sessions.State()
	profile := h.Profiles.Profile()

	messages := make([]MessageView, 0, len(state.Messages))
	for _, msg := range state.Messages {
		view := MessageView{Message: msg}
		if msg.Sender == domain.SenderBot {
			view.HTML = h.markdown.Render(msg.Text)
		}
		if msg.Attachment != nil {
			view.SizeLabel = FormatFileSize(msg.Attachment.SizeBytes)
		}
		messages = append(messages, view)
	}

	var pendingSize string
	if state.Pending != nil {
		pendingSize = FormatFileSize(state.Pending.SizeBytes)
	}

	renderTemplate(w, "chat.html", map[string]interface{}{
		"Theme":            h.Preferences.Theme(r.Context()),
		"SidebarCollapsed": h.Preferences.SidebarCollapsed(r.Context()),
		"Messages":         messages,
		"History":          state.History,
		"CurrentID":        state.CurrentID,
		"ActiveTool":       state.ActiveTool,
		"ToolError":        state.ToolError,
		"Sending":          state.Sending,
		"Pending":          state.Pending,
		"PendingSize":      pendingSize,
		"ToolModes":        domain.ToolModes,
		"Profile":          profile,
		"ProfileSummary":   profile.Summary(),
		"Suggestions":      suggestionChips,
	})
}

// ShowErrorPage renders a custom error page
func (h *PageHandler) ShowErrorPage(w http.ResponseWriter, code, title, message string) {
	renderTemplate(w, "error.html", map[string]interface{}{
		"Code":    code,
		"Title":   title,
		"Message": message,
	})
}

// FormatFileSize renders a byte count the way the attachment cards show it,
// e.g. "0 B", "1.5 KB", "12 MB".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	order := int(math.Log(float64(size)) / math.Log(1024))
	if order >= len(units) {
		order = len(units) - 1
	}

	value := float64(size) / math.Pow(1024, float64(order))
	if value >= 10 || order == 0 {
		return fmt.Sprintf("%.0f %s", value, units[order])
	}
	return fmt.Sprintf("%.1f %s", value, units[order])
}
