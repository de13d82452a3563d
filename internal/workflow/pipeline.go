package workflow

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/ingestion"
	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/store"
)

// MaxBatchSize caps one candidate submission.
const MaxBatchSize = 50

// RejectedCandidate records one non-accepted profile for the report.
type RejectedCandidate struct {
	Name      string         `json:"name"`
	Score     int            `json:"score"`
	Reasoning string         `json:"reasoning"`
	Source    scoring.Source `json:"source"`
}

// SubmissionResult summarizes one run of the acceptance pipeline.
type SubmissionResult struct {
	JobID         uuid.UUID           `json:"job_id"`
	AcceptedCount int                 `json:"accepted_count"`
	RejectedCount int                 `json:"rejected_count"` // rejections + duplicates
	Duplicates    []string            `json:"duplicates,omitempty"`
	Rejected      []RejectedCandidate `json:"rejected,omitempty"`
	TotalAccepted int                 `json:"total_accepted"`
	Requested     int                 `json:"requested"`
	Complete      bool                `json:"complete"`
	Progress      int                 `json:"progress"` // percent of requested
	StillNeeded   int                 `json:"still_needed"`
	Report        string              `json:"report"`
}

// SubmitCandidates runs the acceptance pipeline for one batch of profile URLs:
//
//  1. Reject the whole batch, before any external call, when it exceeds the
//     cap or the owning client's credit balance cannot cover it.
//  2. Set aside URLs already in the system (case-insensitive, trimmed).
//  3. Ingest the novel URLs; an ingestion failure aborts with nothing mutated.
//  4. Score each profile sequentially against the job. Score >= threshold
//     accepts; a scoring failure is a fail-safe reject with score 0.
//  5. Persist all accepted candidates as one batch, deduct credits by the
//     accepted count only, and complete the job once the cumulative accepted
//     count reaches the requested count.
func (s *Service) SubmitCandidates(ctx context.Context, jobID uuid.UUID, urls []string) (*SubmissionResult, error) {
	if len(urls) == 0 {
		return nil, &ErrValidation{Field: "URLs", Message: "at least one profile URL is required"}
	}
	if len(urls) > MaxBatchSize {
		return nil, &ErrBatchTooLarge{Size: len(urls), Max: MaxBatchSize}
	}

	job, ok := s.store.JobByID(jobID)
	if !ok {
		return nil, &ErrJobNotFound{JobID: jobID}
	}
	client, ok := s.store.ClientByID(job.ClientID)
	if !ok {
		return nil, &ErrClientNotFound{ClientID: job.ClientID}
	}

	// Conservative pre-check: the whole batch could be accepted, so the
	// balance must cover it before any external spend.
	if client.AvailableCredits < len(urls) {
		return nil, &ErrInsufficientCredits{Available: client.AvailableCredits, Required: len(urls)}
	}

	alreadyAccepted := len(s.store.CandidatesByJob(jobID))

	existing := s.store.CandidateURLs()
	var duplicates, novel []string
	seen := make(map[string]struct{})
	for _, url := range urls {
		normalized := store.NormalizeProfileURL(url)
		if _, dup := existing[normalized]; dup {
			duplicates = append(duplicates, url)
			continue
		}
		if _, dup := seen[normalized]; dup {
			duplicates = append(duplicates, url)
			continue
		}
		seen[normalized] = struct{}{}
		novel = append(novel, url)
	}

	var accepted []store.Candidate
	var rejected []RejectedCandidate

	if len(novel) > 0 {
		profiles, err := s.fetcher.FetchProfiles(ctx, novel)
		if err != nil {
			return nil, &ErrIngestionFailed{Cause: err}
		}

		for _, profile := range profiles {
			req := scoring.MatchRequest{
				JobTitle:       job.Title,
				JobDescription: job.Description,
				SeniorityLevel: string(job.SeniorityLevel),
				KeySkills:      job.KeySellingPoints,
				Candidate:      profile,
			}

			name := displayName(profile.FirstName, profile.LastName)

			result, err := s.scorer.Score(ctx, req)
			if err != nil {
				// Fail-safe: an unscoreable candidate is never accepted.
				s.log.Warn("scoring failed, rejecting candidate",
					zap.String("candidate", name), zap.Error(err))
				rejected = append(rejected, RejectedCandidate{
					Name:      name,
					Score:     0,
					Reasoning: "Unable to calculate match score",
				})
				continue
			}

			if !result.Accepted() {
				rejected = append(rejected, RejectedCandidate{
					Name:      name,
					Score:     result.Score,
					Reasoning: result.Reasoning,
					Source:    result.Source,
				})
				continue
			}

			accepted = append(accepted, store.Candidate{
				ID:          uuid.New(),
				JobID:       jobID,
				FirstName:   profile.FirstName,
				LastName:    profile.LastName,
				ProfileURL:  profile.ProfileURL,
				Headline:    profile.Headline,
				Location:    profile.Location,
				Summary:     profile.Summary,
				Experience:  toStoreExperience(profile.Experience),
				Education:   toStoreEducation(profile.Education),
				Skills:      profile.Skills,
				SubmittedAt: time.Now().UTC(),
			})
		}
	}

	if len(accepted) > 0 {
		s.store.CreateCandidates(ctx, accepted)

		// Duplicates and rejections never consume credits.
		client.AvailableCredits -= len(accepted)
		s.store.UpdateClient(ctx, client)
	}

	totalAccepted := alreadyAccepted + len(accepted)
	complete := totalAccepted >= job.CandidatesRequested

	if complete && job.Status != store.StatusCompleted {
		s.completeJob(ctx, &job, "")
		s.log.Info("job completed by pipeline", zap.String("job_id", jobID.String()))
	}

	stillNeeded := job.CandidatesRequested - totalAccepted
	if stillNeeded < 0 {
		stillNeeded = 0
	}

	res := &SubmissionResult{
		JobID:         jobID,
		AcceptedCount: len(accepted),
		RejectedCount: len(rejected) + len(duplicates),
		Duplicates:    duplicates,
		Rejected:      rejected,
		TotalAccepted: totalAccepted,
		Requested:     job.CandidatesRequested,
		Complete:      complete,
		Progress:      int(math.Round(float64(totalAccepted) / float64(job.CandidatesRequested) * 100)),
		StillNeeded:   stillNeeded,
	}
	res.Report = buildReport(res)

	s.log.Info("candidate batch processed",
		zap.String("job_id", jobID.String()),
		zap.Int("accepted", res.AcceptedCount),
		zap.Int("rejected", len(rejected)),
		zap.Int("duplicates", len(duplicates)),
		zap.Int("progress_pct", res.Progress))
	return res, nil
}

// displayName joins name parts, falling back to a placeholder only for the
// report text; stored candidates keep the raw parts.
func displayName(first, last string) string {
	switch {
	case first == "" && last == "":
		return "(unknown)"
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func toStoreExperience(in []ingestion.Experience) []store.Experience {
	out := make([]store.Experience, 0, len(in))
	for _, e := range in {
		out = append(out, store.Experience{Title: e.Title, Company: e.Company, Duration: e.Duration})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toStoreEducation(in []ingestion.Education) []store.Education {
	out := make([]store.Education, 0, len(in))
	for _, e := range in {
		out = append(out, store.Education{School: e.School, Degree: e.Degree})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
