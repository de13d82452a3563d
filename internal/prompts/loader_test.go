package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMatchScorePrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("scoring.json", "match-score")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.JobTitle}}")
	assert.Contains(t, prompt, "{{.CandidateName}}")
}

func TestGetUnknownKey(t *testing.T) {
	_, err := Get("scoring.json", "no-such-prompt")
	assert.Error(t, err)
}

func TestGetUnknownFile(t *testing.T) {
	_, err := Get("missing.json", "match-score")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Title: {{.JobTitle}}, Name: {{.Name}}", map[string]string{
		"JobTitle": "Engineer",
		"Name":     "Ada",
	})
	assert.Equal(t, "Title: Engineer, Name: Ada", out)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	out := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "yes"})
	assert.Equal(t, "yes {{.Unknown}}", out)
}
