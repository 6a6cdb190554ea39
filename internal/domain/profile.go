// File: internal/domain/profile.go
package domain

import (
	"fmt"
	"strings"
)

// Profile is the flat patient record attached to chat and predict requests.
// Every field is optional free text.
type Profile struct {
	Age         string `json:"age"`
	Sex         string `json:"sex"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Location    string `json:"location"`
	Conditions  string `json:"conditions"`
	Medications string `json:"medications"`
	Allergies   string `json:"allergies"`
}

// Payload serializes the profile for transmission. Fields that are empty or
// whitespace-only are excluded, so the backend only ever sees filled-in values.
func (p Profile) Payload() map[string]string {
	payload := make(map[string]string)
	fields := map[string]string{
		"age":         p.Age,
		"sex":         p.Sex,
		"height":      p.Height,
		"weight":      p.Weight,
		"location":    p.Location,
		"conditions":  p.Conditions,
		"medications": p.Medications,
		"allergies":   p.Allergies,
	}
	for key, value := range fields {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			payload[key] = trimmed
		}
	}
	return payload
}

// Summary builds the short one-line profile badge shown above the composer,
// e.g. "Age 34 • female • Berlin • 70 kg • 178 cm".
func (p Profile) Summary() string {
	var parts []string
	if p.Age != "" {
		parts = append(parts, fmt.Sprintf("Age %s", p.Age))
	}
	if p.Sex != "" {
		parts = append(parts, p.Sex)
	}
	if p.Location != "" {
		parts = append(parts, p.Location)
	}
	if p.Weight != "" {
		parts = append(parts, fmt.Sprintf("%s kg", p.Weight))
	}
	if p.Height != "" {
		parts = append(parts, fmt.Sprintf("%s cm", p.Height))
	}
	return strings.Join(parts, " • ")
}
