package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/store"
)

func setupPipelineJob(t *testing.T, requested int) (*Service, *fakeScorer, *fakeFetcher, store.Job) {
	t.Helper()
	svc, scorer, fetcher := newTestService(t)
	client := registerTestClient(t, svc, "dana@acme.example")
	job := submitTestJob(t, svc, client.ID, requested)
	_, err := svc.ClaimJob(context.Background(), job.ID, "Sam Sourcer")
	require.NoError(t, err)
	return svc, scorer, fetcher, job
}

func clientOf(t *testing.T, svc *Service, job store.Job) store.Client {
	t.Helper()
	client, ok := svc.Store().ClientByID(job.ClientID)
	require.True(t, ok)
	return client
}

func TestSubmitCandidatesAcceptsAboveThreshold(t *testing.T) {
	svc, scorer, _, job := setupPipelineJob(t, 10)
	ctx := context.Background()

	urls := []string{
		"https://linkedin.com/in/alpha",
		"https://linkedin.com/in/bravo",
		"https://linkedin.com/in/charlie",
	}
	scorer.scores[urls[0]] = 75
	scorer.scores[urls[1]] = 40
	scorer.scores[urls[2]] = 65

	res, err := svc.SubmitCandidates(ctx, job.ID, urls)
	require.NoError(t, err)

	assert.Equal(t, 2, res.AcceptedCount)
	assert.Equal(t, 1, res.RejectedCount)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 40, res.Rejected[0].Score)
	assert.False(t, res.Complete)
	assert.Equal(t, 8, res.StillNeeded)
	assert.Equal(t, 20, res.Progress)

	// Credits drop only by the accepted count: 20 - 2.
	assert.Equal(t, 18, clientOf(t, svc, job).AvailableCredits)
	assert.Len(t, svc.Store().CandidatesByJob(job.ID), 2)
}

func TestSubmitCandidatesBoundaryScoreAccepts(t *testing.T) {
	svc, scorer, _, job := setupPipelineJob(t, 10)

	scorer.scores["https://linkedin.com/in/exactly60"] = scoring.AcceptanceThreshold
	scorer.scores["https://linkedin.com/in/just59"] = scoring.AcceptanceThreshold - 1

	res, err := svc.SubmitCandidates(context.Background(), job.ID, []string{
		"https://linkedin.com/in/exactly60",
		"https://linkedin.com/in/just59",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.AcceptedCount)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 59, res.Rejected[0].Score)
}

func TestSubmitCandidatesCreditPreCheck(t *testing.T) {
	svc, _, fetcher, job := setupPipelineJob(t, 10)
	ctx := context.Background()

	// Drain the balance to a single credit.
	client := clientOf(t, svc, job)
	client.AvailableCredits = 1
	svc.Store().UpdateClient(ctx, client)

	_, err := svc.SubmitCandidates(ctx, job.ID, []string{
		"https://linkedin.com/in/alpha",
		"https://linkedin.com/in/bravo",
	})
	var credits *ErrInsufficientCredits
	require.ErrorAs(t, err, &credits)
	assert.Equal(t, 1, credits.Available)
	assert.Equal(t, 2, credits.Required)

	// Rejected before any external call.
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 1, clientOf(t, svc, job).AvailableCredits)
}

func TestSubmitCandidatesBatchCap(t *testing.T) {
	svc, _, fetcher, job := setupPipelineJob(t, 10)

	urls := make([]string, MaxBatchSize+1)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://linkedin.com/in/profile-%d", i)
	}

	_, err := svc.SubmitCandidates(context.Background(), job.ID, urls)
	var tooLarge *ErrBatchTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, MaxBatchSize+1, tooLarge.Size)
	assert.Empty(t, fetcher.calls)
}

func TestSubmitCandidatesEmptyBatch(t *testing.T) {
	svc, _, _, job := setupPipelineJob(t, 10)

	_, err := svc.SubmitCandidates(context.Background(), job.ID, nil)
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestSubmitCandidatesUnknownJob(t *testing.T) {
	svc, _, _, _ := setupPipelineJob(t, 10)

	_, err := svc.SubmitCandidates(context.Background(), uuid.New(), []string{"https://linkedin.com/in/alpha"})
	var notFound *ErrJobNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSubmitCandidatesDeduplicatesSystemWide(t *testing.T) {
	svc, _, fetcher, job := setupPipelineJob(t, 10)
	ctx := context.Background()

	res, err := svc.SubmitCandidates(ctx, job.ID, []string{"https://linkedin.com/in/alpha"})
	require.NoError(t, err)
	require.Equal(t, 1, res.AcceptedCount)
	creditsAfterFirst := clientOf(t, svc, job).AvailableCredits

	// Same URL with different case and padding is a duplicate; no fetch, no
	// credit movement.
	res, err = svc.SubmitCandidates(ctx, job.ID, []string{"  HTTPS://LinkedIn.com/in/Alpha "})
	require.NoError(t, err)
	assert.Equal(t, 0, res.AcceptedCount)
	assert.Equal(t, 1, res.RejectedCount)
	assert.Len(t, res.Duplicates, 1)
	assert.Equal(t, creditsAfterFirst, clientOf(t, svc, job).AvailableCredits)
	assert.Len(t, fetcher.calls, 1)
}

func TestSubmitCandidatesDeduplicatesWithinBatch(t *testing.T) {
	svc, _, fetcher, job := setupPipelineJob(t, 10)

	res, err := svc.SubmitCandidates(context.Background(), job.ID, []string{
		"https://linkedin.com/in/alpha",
		"https://linkedin.com/in/ALPHA",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AcceptedCount)
	assert.Len(t, res.Duplicates, 1)
	require.Len(t, fetcher.calls, 1)
	assert.Len(t, fetcher.calls[0], 1)
}

func TestSubmitCandidatesIngestionFailureAborts(t *testing.T) {
	svc, _, fetcher, job := setupPipelineJob(t, 10)
	fetcher.err = fmt.Errorf("actor timed out")

	_, err := svc.SubmitCandidates(context.Background(), job.ID, []string{"https://linkedin.com/in/alpha"})
	var ingestionErr *ErrIngestionFailed
	require.ErrorAs(t, err, &ingestionErr)

	// Nothing mutated: no candidates, full balance.
	assert.Empty(t, svc.Store().CandidatesByJob(job.ID))
	assert.Equal(t, 20, clientOf(t, svc, job).AvailableCredits)
}

func TestSubmitCandidatesScoringFailureRejectsSafely(t *testing.T) {
	svc, scorer, _, job := setupPipelineJob(t, 10)
	scorer.failURLs["https://linkedin.com/in/broken"] = true
	scorer.scores["https://linkedin.com/in/alpha"] = 80

	res, err := svc.SubmitCandidates(context.Background(), job.ID, []string{
		"https://linkedin.com/in/broken",
		"https://linkedin.com/in/alpha",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.AcceptedCount)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 0, res.Rejected[0].Score)
	assert.Equal(t, "Unable to calculate match score", res.Rejected[0].Reasoning)
}

func TestSubmitCandidatesAutoCompletes(t *testing.T) {
	svc, _, _, job := setupPipelineJob(t, 5)
	ctx := context.Background()

	first, err := svc.SubmitCandidates(ctx, job.ID, []string{
		"https://linkedin.com/in/one",
		"https://linkedin.com/in/two",
		"https://linkedin.com/in/three",
		"https://linkedin.com/in/four",
	})
	require.NoError(t, err)
	require.Equal(t, 4, first.AcceptedCount)
	assert.False(t, first.Complete)

	// Two more accepted pushes the total past the requested five; the job
	// completes and the surplus candidate is still delivered.
	second, err := svc.SubmitCandidates(ctx, job.ID, []string{
		"https://linkedin.com/in/five",
		"https://linkedin.com/in/six",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AcceptedCount)
	assert.True(t, second.Complete)
	assert.Equal(t, 6, second.TotalAccepted)
	assert.Equal(t, 0, second.StillNeeded)
	assert.Equal(t, 120, second.Progress)

	stored, _ := svc.Store().JobByID(job.ID)
	assert.Equal(t, store.StatusCompleted, stored.Status)
	assert.Len(t, svc.Store().CandidatesByJob(job.ID), 6)

	// The owning free-tier client has consumed its shortlist.
	assert.True(t, clientOf(t, svc, job).HasReceivedFreeShortlist)
}

func TestSubmitCandidatesReport(t *testing.T) {
	svc, scorer, _, job := setupPipelineJob(t, 3)
	scorer.scores["https://linkedin.com/in/good"] = 85
	scorer.scores["https://linkedin.com/in/weak"] = 30

	res, err := svc.SubmitCandidates(context.Background(), job.ID, []string{
		"https://linkedin.com/in/good",
		"https://linkedin.com/in/weak",
	})
	require.NoError(t, err)

	assert.Contains(t, res.Report, "1 candidate accepted.")
	assert.Contains(t, res.Report, "1 candidate(s) rejected:")
	assert.Contains(t, res.Report, "(score 30)")
	assert.Contains(t, res.Report, "JOB PROGRESS: 1/3 (33% complete)")
	assert.Contains(t, res.Report, "Submit 2 more accepted candidate(s) to complete this job.")
	assert.False(t, strings.Contains(res.Report, "now complete"))
}

func TestSubmitCandidatesReportOnCompletion(t *testing.T) {
	svc, _, _, job := setupPipelineJob(t, 1)

	res, err := svc.SubmitCandidates(context.Background(), job.ID, []string{"https://linkedin.com/in/only"})
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Contains(t, res.Report, "JOB PROGRESS: 1/1 (100% complete)")
	assert.Contains(t, res.Report, "This job is now complete.")
}

func TestStatsAndTopSourcers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	client := registerTestClient(t, svc, "dana@acme.example")

	// Give the client room for several jobs.
	tierThree, ok := svc.Store().TierByName(store.TierThree)
	require.True(t, ok)
	_, err := svc.UpgradeTier(ctx, client.ID, tierThree.ID)
	require.NoError(t, err)

	jobA := submitTestJob(t, svc, client.ID, 1)
	jobB := submitTestJob(t, svc, client.ID, 1)
	jobC := submitTestJob(t, svc, client.ID, 1)

	_, err = svc.ClaimJob(ctx, jobA.ID, "Sam Sourcer")
	require.NoError(t, err)
	_, err = svc.CompleteJob(ctx, jobA.ID, "")
	require.NoError(t, err)
	_, err = svc.ClaimJob(ctx, jobB.ID, "Riley Sourcer")
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 3, stats.TotalJobs)
	assert.Equal(t, 1, stats.CompletedJobs)
	assert.Equal(t, 1, stats.ClaimedJobs)
	assert.Equal(t, 1, stats.UnclaimedJobs)
	assert.Equal(t, 2, stats.ActiveSourcers)
	_ = jobC

	sourcers := svc.TopSourcers(0)
	require.Len(t, sourcers, 2)
	assert.Equal(t, "Sam Sourcer", sourcers[0].Name)
	assert.Equal(t, 1, sourcers[0].CompletedJobs)
	assert.Equal(t, "Riley Sourcer", sourcers[1].Name)
	assert.Equal(t, 1, sourcers[1].ClaimedJobs)
}

func TestJobsByDateRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	client := registerTestClient(t, svc, "dana@acme.example")
	job := submitTestJob(t, svc, client.ID, 1)

	now := time.Now()

	jobs := svc.JobsByDateRange(now.Add(-time.Hour), now.Add(time.Hour))
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	// The range is half-open, so a window ending before creation excludes it.
	assert.Empty(t, svc.JobsByDateRange(now.Add(-2*time.Hour), now.Add(-time.Hour)))
	assert.Empty(t, svc.JobsByDateRange(now.Add(time.Hour), now.Add(2*time.Hour)))
}
