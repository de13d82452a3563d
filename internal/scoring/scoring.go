// Package scoring decides how well a candidate profile matches a job.
// The primary scorer asks an LLM for a 0-100 match score with reasoning; a
// local keyword heuristic stands in when the remote call fails, so the
// acceptance threshold logic stays uniform either way.
package scoring

import (
	"context"

	"github.com/shortlisthq/shortlist/internal/ingestion"
)

// AcceptanceThreshold is the score at or above which a candidate is accepted.
const AcceptanceThreshold = 60

// Source identifies which tier produced a score. Recorded in every result so
// callers and tests can tell a low remote score from a fallback score.
type Source string

// Score sources.
const (
	SourceLLM       Source = "llm"
	SourceHeuristic Source = "heuristic"
)

// MatchRequest carries the job context and the candidate under evaluation.
// Key skills are the job's selling points, standing in for a skill list.
type MatchRequest struct {
	JobTitle       string
	JobDescription string
	SeniorityLevel string
	KeySkills      []string
	Candidate      ingestion.Profile
}

// MatchResult is a scored evaluation.
type MatchResult struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
	Source    Source `json:"source"`
}

// Accepted reports whether the score clears the acceptance threshold.
func (r MatchResult) Accepted() bool {
	return r.Score >= AcceptanceThreshold
}

// Scorer evaluates one candidate against one job.
type Scorer interface {
	Score(ctx context.Context, req MatchRequest) (MatchResult, error)
}

// clampScore forces a score into [0, 100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
