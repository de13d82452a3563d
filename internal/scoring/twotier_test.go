package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/ingestion"
)

type stubScorer struct {
	result MatchResult
	err    error
	delay  time.Duration
}

func (s *stubScorer) Score(ctx context.Context, _ MatchRequest) (MatchResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return MatchResult{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func TestTwoTierUsesRemoteWhenHealthy(t *testing.T) {
	remote := &stubScorer{result: MatchResult{Score: 88, Reasoning: "strong match", Source: SourceLLM}}
	tt := NewTwoTier(remote, zap.NewNop())

	result, err := tt.Score(context.Background(), MatchRequest{JobTitle: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, 88, result.Score)
	assert.Equal(t, SourceLLM, result.Source)
}

func TestTwoTierFallsBackOnRemoteError(t *testing.T) {
	remote := &stubScorer{err: fmt.Errorf("quota exceeded")}
	tt := NewTwoTier(remote, zap.NewNop())

	result, err := tt.Score(context.Background(), MatchRequest{
		JobTitle:  "Backend Engineer",
		Candidate: ingestion.Profile{Headline: strPtr("Backend Engineer")},
	})
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.Source)
	assert.Equal(t, heuristicBaseScore+15, result.Score)
}

func TestTwoTierFallsBackOnTimeout(t *testing.T) {
	remote := &stubScorer{
		result: MatchResult{Score: 99, Source: SourceLLM},
		delay:  200 * time.Millisecond,
	}
	tt := NewTwoTier(remote, zap.NewNop())
	tt.timeout = 10 * time.Millisecond

	result, err := tt.Score(context.Background(), MatchRequest{JobTitle: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.Source)
}

func TestTwoTierNilRemoteUsesHeuristic(t *testing.T) {
	tt := NewTwoTier(nil, zap.NewNop())

	result, err := tt.Score(context.Background(), MatchRequest{JobTitle: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.Source)
}

func TestAcceptanceBoundary(t *testing.T) {
	assert.True(t, MatchResult{Score: AcceptanceThreshold}.Accepted())
	assert.True(t, MatchResult{Score: 100}.Accepted())
	assert.False(t, MatchResult{Score: AcceptanceThreshold - 1}.Accepted())
	assert.False(t, MatchResult{Score: 0}.Accepted())
}
