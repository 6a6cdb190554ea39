// File: internal/domain/toolmode_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolMode(t *testing.T) {
	for _, raw := range []string{"chat", "symptom", "imaging"} {
		mode, err := ParseToolMode(raw)
		require.NoError(t, err)
		assert.Equal(t, ToolMode(raw), mode)
	}

	_, err := ParseToolMode("surgery")
	assert.Error(t, err)
	_, err = ParseToolMode("")
	assert.Error(t, err)
}

func TestAttachmentIsImage(t *testing.T) {
	assert.True(t, (&Attachment{MimeType: "image/png"}).IsImage())
	assert.False(t, (&Attachment{MimeType: "application/pdf"}).IsImage())
	var missing *Attachment
	assert.False(t, missing.IsImage())
}
