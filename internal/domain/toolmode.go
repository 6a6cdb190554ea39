// File: internal/domain/toolmode.go
package domain

import "fmt"

// ToolMode selects which request protocol a send action uses. Exactly one
// mode is active at a time.
type ToolMode string

const (
	ToolChat    ToolMode = "chat"
	ToolSymptom ToolMode = "symptom"
	ToolImaging ToolMode = "imaging"
)

// ParseToolMode validates a tool mode received from the UI.
func ParseToolMode(raw string) (ToolMode, error) {
	switch ToolMode(raw) {
	case ToolChat, ToolSymptom, ToolImaging:
		return ToolMode(raw), nil
	}
	return "", fmt.Errorf("unknown tool mode %q", raw)
}

// ToolModeInfo describes a selectable tool in the composer menu.
type ToolModeInfo struct {
	Mode        ToolMode
	Label       string
	Description string
	Placeholder string
}

// ToolModes lists the selectable tools in display order.
var ToolModes = []ToolModeInfo{
	{
		Mode:        ToolChat,
		Label:       "Chat",
		Description: "General medical guidance and follow-up questions.",
		Placeholder: "Ask CuraLytica anything...",
	},
	{
		Mode:        ToolSymptom,
		Label:       "Symptom check",
		Description: "Enter symptoms to run the structured symptom checker (attachments are ignored).",
		Placeholder: "Describe your symptoms...",
	},
	{
		Mode:        ToolImaging,
		Label:       "Image analysis",
		Description: "Attach a medical image before sending for analysis and explanation.",
		Placeholder: "Explain what this image shows...",
	},
}
