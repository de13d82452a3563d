package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/shortlisthq/shortlist/internal/ingestion"
)

// heuristicBaseScore starts slightly below the acceptance threshold so a
// candidate with no detectable overlap is rejected by default.
const heuristicBaseScore = 45

// Heuristic scores by keyword overlap on title, skills, and experience. It is
// deliberately conservative: without the remote scorer's judgment, only clear
// signal pushes a candidate over the threshold.
type Heuristic struct{}

// NewHeuristic returns the local fallback scorer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Score never fails; it always produces a numeric result.
func (h *Heuristic) Score(_ context.Context, req MatchRequest) (MatchResult, error) {
	score := heuristicBaseScore
	var reasons []string

	if req.Candidate.Headline != nil {
		if wordsOverlap(req.JobTitle, *req.Candidate.Headline) {
			score += 15
			reasons = append(reasons, "Similar job title/role")
		}
	}

	if len(req.Candidate.Skills) > 0 && len(req.KeySkills) > 0 {
		matches := 0
		for _, want := range req.KeySkills {
			for _, have := range req.Candidate.Skills {
				if containsEitherWay(want, have) {
					matches++
					break
				}
			}
		}
		if matches > 0 {
			bonus := matches * 25 / len(req.KeySkills)
			if bonus > 25 {
				bonus = 25
			}
			score += bonus
			reasons = append(reasons, fmt.Sprintf("%d matching skills", matches))
		}
	}

	if hasRelevantExperience(req.JobTitle, req.Candidate.Experience) {
		score += 10
		reasons = append(reasons, "Relevant work experience")
	}

	reasoning := "Limited profile match - candidate may not meet job requirements"
	if len(reasons) > 0 {
		reasoning = "Match based on: " + strings.Join(reasons, ", ")
	}

	return MatchResult{
		Score:     clampScore(score),
		Reasoning: reasoning,
		Source:    SourceHeuristic,
	}, nil
}

// wordsOverlap reports whether any word of a appears within any word of b or
// vice versa, case-insensitively.
func wordsOverlap(a, b string) bool {
	aWords := strings.Fields(strings.ToLower(a))
	bWords := strings.Fields(strings.ToLower(b))
	for _, aw := range aWords {
		for _, bw := range bWords {
			if strings.Contains(aw, bw) || strings.Contains(bw, aw) {
				return true
			}
		}
	}
	return false
}

// containsEitherWay is a case-insensitive substring match in either direction.
func containsEitherWay(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// hasRelevantExperience checks whether any job-title word shows up in a past
// role's title or company.
func hasRelevantExperience(jobTitle string, experience []ingestion.Experience) bool {
	titleWords := strings.Fields(strings.ToLower(jobTitle))
	for _, exp := range experience {
		expText := strings.ToLower(exp.Title + " " + exp.Company)
		for _, w := range titleWords {
			if strings.Contains(expText, w) {
				return true
			}
		}
	}
	return false
}
