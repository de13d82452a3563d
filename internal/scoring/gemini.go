package scoring

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/shortlisthq/shortlist/internal/prompts"
	"github.com/shortlisthq/shortlist/internal/schemas"
)

//go:embed match_score.schema.json
var matchScoreSchema string

// DefaultModel is the Gemini model used for match scoring.
const DefaultModel = "gemini-2.5-flash"

// descriptionLimit caps how much of the job description goes into the prompt.
const descriptionLimit = 500

// GeminiScorer asks Gemini for a structured match score.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer creates a Gemini-backed scorer.
func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiScorer{client: client, model: model}, nil
}

// Score builds the match prompt, requests JSON output, and validates the
// response against the embedded schema before trusting it.
func (g *GeminiScorer) Score(ctx context.Context, req MatchRequest) (MatchResult, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // Low temperature for consistent scoring
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildMatchPrompt(req)))
	if err != nil {
		return MatchResult{}, fmt.Errorf("failed to generate match score: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return MatchResult{}, err
	}

	return parseMatchJSON(cleanJSONBlock(text))
}

// Close releases resources held by the client.
func (g *GeminiScorer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// parseMatchJSON validates and decodes the model's JSON answer.
func parseMatchJSON(text string) (MatchResult, error) {
	if err := schemas.ValidateJSONString(matchScoreSchema, text); err != nil {
		return MatchResult{}, fmt.Errorf("match score response rejected: %w", err)
	}

	var parsed struct {
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return MatchResult{}, fmt.Errorf("failed to parse match score response: %w (content: %s)", err, text)
	}

	return MatchResult{
		Score:     clampScore(int(math.Round(parsed.Score))),
		Reasoning: parsed.Reasoning,
		Source:    SourceLLM,
	}, nil
}

// buildMatchPrompt renders the scoring prompt from the embedded template.
func buildMatchPrompt(req MatchRequest) string {
	c := req.Candidate

	headline := "N/A"
	if c.Headline != nil {
		headline = *c.Headline
	}
	location := "N/A"
	if c.Location != nil {
		location = *c.Location
	}

	experience := "No experience data available"
	if len(c.Experience) > 0 {
		var lines []string
		for i, exp := range c.Experience {
			if i == 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s at %s", exp.Title, exp.Company))
		}
		experience = strings.Join(lines, "\n")
	}

	skills := "No skills data available"
	if len(c.Skills) > 0 {
		limit := len(c.Skills)
		if limit > 10 {
			limit = 10
		}
		skills = strings.Join(c.Skills[:limit], ", ")
	}

	education := "No education data available"
	if len(c.Education) > 0 {
		var lines []string
		for i, edu := range c.Education {
			if i == 2 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s from %s", edu.Degree, edu.School))
		}
		education = strings.Join(lines, "\n")
	}

	description := req.JobDescription
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit] + "..."
	}

	template := prompts.MustGet("scoring.json", "match-score")
	return prompts.Format(template, map[string]string{
		"JobTitle":       req.JobTitle,
		"SeniorityLevel": req.SeniorityLevel,
		"KeySkills":      strings.Join(req.KeySkills, ", "),
		"JobDescription": description,
		"CandidateName":  strings.TrimSpace(c.FirstName + " " + c.LastName),
		"Headline":       headline,
		"Location":       location,
		"Experience":     experience,
		"Skills":         skills,
		"Education":      education,
	})
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
