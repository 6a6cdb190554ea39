// File: internal/services/session/symptoms.go
package session

import "strings"

// ParseSymptoms splits free text into symptom tokens. Tokens are separated
// by commas or newlines, trimmed, and empty entries are dropped; relative
// order is preserved.
func ParseSymptoms(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	symptoms := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			symptoms = append(symptoms, trimmed)
		}
	}
	return symptoms
}
