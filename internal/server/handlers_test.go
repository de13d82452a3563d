package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/ingestion"
	"github.com/shortlisthq/shortlist/internal/kv"
	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/store"
	"github.com/shortlisthq/shortlist/internal/workflow"
)

type fixedScorer struct {
	scores map[string]int
}

func (f *fixedScorer) Score(_ context.Context, req scoring.MatchRequest) (scoring.MatchResult, error) {
	score, ok := f.scores[req.Candidate.ProfileURL]
	if !ok {
		score = 80
	}
	return scoring.MatchResult{Score: score, Reasoning: "test score", Source: scoring.SourceLLM}, nil
}

type fixedFetcher struct{}

func (fixedFetcher) FetchProfiles(_ context.Context, urls []string) ([]ingestion.Profile, error) {
	profiles := make([]ingestion.Profile, 0, len(urls))
	for i, url := range urls {
		profiles = append(profiles, ingestion.Profile{
			FirstName:  "Profile",
			LastName:   fmt.Sprintf("%d", i+1),
			ProfileURL: url,
		})
	}
	return profiles, nil
}

func newTestServer(t *testing.T) (*Server, *fixedScorer) {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	backend, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	st, err := store.New(context.Background(), backend, zap.NewNop())
	require.NoError(t, err)

	scorer := &fixedScorer{scores: map[string]int{}}
	svc := workflow.New(st, scorer, fixedFetcher{}, zap.NewNop())
	return New(Config{Port: 0}, svc, zap.NewNop()), scorer
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func registerClientViaAPI(t *testing.T, srv *Server) store.Client {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/clients", map[string]string{
		"company_name": "Acme Corp",
		"contact_name": "Dana Smith",
		"email":        "dana@acme.example",
		"phone":        "+1 555 0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var client store.Client
	decodeBody(t, rec, &client)
	return client
}

func submitJobViaAPI(t *testing.T, srv *Server, clientID uuid.UUID, requested int) store.Job {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/clients/"+clientID.String()+"/jobs", map[string]any{
		"title":                "Backend Engineer",
		"description":          "Build and operate Go services.",
		"seniority_level":      "Senior",
		"work_arrangement":     "Remote",
		"location":             "Berlin",
		"salary_range_min":     90000,
		"salary_range_max":     120000,
		"key_selling_points":   []string{"Go", "PostgreSQL"},
		"candidates_requested": requested,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var job store.Job
	decodeBody(t, rec, &job)
	return job
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTiers(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/tiers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tiers []store.Tier `json:"tiers"`
		Count int          `json:"count"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 4, resp.Count)
}

func TestRegisterClientEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	client := registerClientViaAPI(t, srv)
	assert.Equal(t, 20, client.AvailableCredits)
	assert.Equal(t, 1, client.JobsRemaining)

	rec := doJSON(t, srv, http.MethodGet, "/clients/"+client.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterClientBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterClientValidationMapsTo400(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/clients", map[string]string{
		"company_name": "Acme Corp",
		"contact_name": "Dana Smith",
		"email":        "not-an-email",
		"phone":        "+1 555 0100",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 3)

	// The board lists it as unclaimed.
	rec := doJSON(t, srv, http.MethodGet, "/jobs?status=Unclaimed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var board struct {
		Jobs  []store.Job `json:"jobs"`
		Count int         `json:"count"`
	}
	decodeBody(t, rec, &board)
	assert.Equal(t, 1, board.Count)

	rec = doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/claim", map[string]string{"sourcer_name": "Sam Sourcer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Claiming again conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/claim", map[string]string{"sourcer_name": "Riley"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/complete", map[string]string{"note": "wrapped early"})
	require.Equal(t, http.StatusOK, rec.Code)
	var completed store.Job
	decodeBody(t, rec, &completed)
	assert.Equal(t, store.StatusCompleted, completed.Status)
}

func TestSubmitJobWithoutQuotaMapsTo409(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	submitJobViaAPI(t, srv, client.ID, 3)

	rec := doJSON(t, srv, http.MethodPost, "/clients/"+client.ID.String()+"/jobs", map[string]any{
		"title":                "Second Job",
		"description":          "No quota left.",
		"seniority_level":      "Mid",
		"work_arrangement":     "Hybrid",
		"location":             "Berlin",
		"salary_range_min":     50000,
		"salary_range_max":     70000,
		"key_selling_points":   []string{"Go"},
		"candidates_requested": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitCandidatesEndpoint(t *testing.T) {
	srv, scorer := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 5)

	doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/claim", map[string]string{"sourcer_name": "Sam Sourcer"})

	scorer.scores["https://linkedin.com/in/strong"] = 90
	scorer.scores["https://linkedin.com/in/weak"] = 20

	rec := doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/candidates", map[string]any{
		"urls": []string{"https://linkedin.com/in/strong", "https://linkedin.com/in/weak"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result workflow.SubmissionResult
	decodeBody(t, rec, &result)
	assert.Equal(t, 1, result.AcceptedCount)
	assert.Equal(t, 1, result.RejectedCount)
	assert.Contains(t, result.Report, "JOB PROGRESS: 1/5")

	rec = doJSON(t, srv, http.MethodGet, "/jobs/"+job.ID.String()+"/candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &listing)
	assert.Equal(t, 1, listing.Count)
}

func TestSubmitCandidatesInsufficientCreditsMapsTo402(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 5)

	urls := make([]string, 21) // free tier holds 20 credits
	for i := range urls {
		urls[i] = fmt.Sprintf("https://linkedin.com/in/profile-%d", i)
	}
	rec := doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/candidates", map[string]any{"urls": urls})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestSubmitCandidatesUnknownJobMapsTo404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/jobs/"+uuid.NewString()+"/candidates", map[string]any{
		"urls": []string{"https://linkedin.com/in/anyone"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpgradeAndCreditsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/tiers", nil)
	var tiersResp struct {
		Tiers []store.Tier `json:"tiers"`
	}
	decodeBody(t, rec, &tiersResp)

	var tierTwo store.Tier
	for _, tier := range tiersResp.Tiers {
		if tier.Name == store.TierTwo {
			tierTwo = tier
		}
	}
	require.NotEqual(t, uuid.Nil, tierTwo.ID)

	rec = doJSON(t, srv, http.MethodPost, "/clients/"+client.ID.String()+"/upgrade", map[string]any{"tier_id": tierTwo.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var upgraded store.Client
	decodeBody(t, rec, &upgraded)
	assert.Equal(t, 150, upgraded.AvailableCredits)
	assert.Equal(t, 3, upgraded.JobsRemaining)

	rec = doJSON(t, srv, http.MethodPost, "/clients/"+client.ID.String()+"/credits", map[string]int{"amount": 25})
	require.Equal(t, http.StatusOK, rec.Code)
	var topped store.Client
	decodeBody(t, rec, &topped)
	assert.Equal(t, 175, topped.AvailableCredits)

	rec = doJSON(t, srv, http.MethodPost, "/clients/"+client.ID.String()+"/credits", map[string]int{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 3)
	doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/claim", map[string]string{"sourcer_name": "Sam Sourcer"})
	doJSON(t, srv, http.MethodPost, "/jobs/"+job.ID.String()+"/complete", nil)

	rec := doJSON(t, srv, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats workflow.SystemStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 1, stats.CompletedJobs)

	rec = doJSON(t, srv, http.MethodGet, "/stats/sourcers?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var leaderboard struct {
		Sourcers []workflow.SourcerStats `json:"sourcers"`
		Count    int                     `json:"count"`
	}
	decodeBody(t, rec, &leaderboard)
	require.Equal(t, 1, leaderboard.Count)
	assert.Equal(t, "Sam Sourcer", leaderboard.Sourcers[0].Name)
	assert.Equal(t, 1, leaderboard.Sourcers[0].CompletedJobs)
}

func TestDeleteEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 3)

	rec := doJSON(t, srv, http.MethodDelete, "/jobs/"+job.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/jobs/"+job.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/clients/"+client.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListJobsDateRangeFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	client := registerClientViaAPI(t, srv)
	job := submitJobViaAPI(t, srv, client.ID, 3)

	from := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	to := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

	rec := doJSON(t, srv, http.MethodGet, "/jobs?from="+from+"&to="+to, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Jobs  []store.Job `json:"jobs"`
		Count int         `json:"count"`
	}
	decodeBody(t, rec, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, job.ID, listing.Jobs[0].ID)

	past := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	rec = doJSON(t, srv, http.MethodGet, "/jobs?from="+past+"&to="+from, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listing)
	assert.Equal(t, 0, listing.Count)

	rec = doJSON(t, srv, http.MethodGet, "/jobs?from=yesterday&to="+to, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
