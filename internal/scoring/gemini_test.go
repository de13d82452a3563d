package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortlisthq/shortlist/internal/ingestion"
)

func TestParseMatchJSON(t *testing.T) {
	result, err := parseMatchJSON(`{"score": 72.6, "reasoning": "solid overlap"}`)
	require.NoError(t, err)
	assert.Equal(t, 73, result.Score)
	assert.Equal(t, "solid overlap", result.Reasoning)
	assert.Equal(t, SourceLLM, result.Source)
}

func TestParseMatchJSONClampsOutOfRange(t *testing.T) {
	result, err := parseMatchJSON(`{"score": 140, "reasoning": "overshoot"}`)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestParseMatchJSONRejectsMissingFields(t *testing.T) {
	_, err := parseMatchJSON(`{"score": 80}`)
	assert.Error(t, err)

	_, err = parseMatchJSON(`{"reasoning": "no score"}`)
	assert.Error(t, err)

	_, err = parseMatchJSON(`not json at all`)
	assert.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n{\"score\": 80}\n```", `{"score": 80}`},
		{"```\n{\"score\": 80}\n```", `{"score": 80}`},
		{`{"score": 80}`, `{"score": 80}`},
		{"  \n{\"score\": 80}\n  ", `{"score": 80}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSONBlock(tt.input))
	}
}

func TestBuildMatchPrompt(t *testing.T) {
	req := MatchRequest{
		JobTitle:       "Backend Engineer",
		JobDescription: strings.Repeat("x", descriptionLimit+100),
		SeniorityLevel: "Senior",
		KeySkills:      []string{"Go", "PostgreSQL"},
		Candidate: ingestion.Profile{
			FirstName:  "Alex",
			LastName:   "Kim",
			ProfileURL: "https://linkedin.com/in/alexkim",
			Headline:   strPtr("Staff Engineer"),
			Skills:     []string{"Go", "Kubernetes"},
			Experience: []ingestion.Experience{
				{Title: "Engineer", Company: "Example"},
			},
		},
	}

	prompt := buildMatchPrompt(req)

	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Alex Kim")
	assert.Contains(t, prompt, "Staff Engineer")
	assert.Contains(t, prompt, "Go, PostgreSQL")
	assert.Contains(t, prompt, "- Engineer at Example")
	// Unknown location falls back to the prompt-level placeholder.
	assert.Contains(t, prompt, "N/A")
	// The description is truncated before it reaches the model.
	assert.NotContains(t, prompt, strings.Repeat("x", descriptionLimit+1))
	// Every placeholder was substituted.
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildMatchPromptLimitsSections(t *testing.T) {
	var experience []ingestion.Experience
	for i := 0; i < 6; i++ {
		experience = append(experience, ingestion.Experience{Title: "Role", Company: "Employer"})
	}
	skills := make([]string, 15)
	for i := range skills {
		skills[i] = "zqx-skill"
	}

	prompt := buildMatchPrompt(MatchRequest{
		JobTitle: "Engineer",
		Candidate: ingestion.Profile{
			Experience: experience,
			Skills:     skills,
		},
	})

	assert.Equal(t, 3, strings.Count(prompt, "- Role at Employer"))
	assert.Equal(t, 10, strings.Count(prompt, "zqx-skill"))
}
