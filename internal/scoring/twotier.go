package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultRemoteTimeout bounds a single remote scoring call. A hung remote
// scorer must not block the rest of the batch; the timeout converts a hang
// into a fallback to the heuristic tier.
const DefaultRemoteTimeout = 30 * time.Second

// TwoTier tries the remote scorer first and degrades to the local heuristic
// when the remote call fails or times out. The tier that produced the result
// is recorded in MatchResult.Source.
type TwoTier struct {
	remote   Scorer
	fallback *Heuristic
	timeout  time.Duration
	log      *zap.Logger
}

// NewTwoTier builds the degrading scorer. remote may be nil, in which case
// every call uses the heuristic directly.
func NewTwoTier(remote Scorer, log *zap.Logger) *TwoTier {
	return &TwoTier{
		remote:   remote,
		fallback: NewHeuristic(),
		timeout:  DefaultRemoteTimeout,
		log:      log,
	}
}

// Score never returns an error: the heuristic tier always produces a result.
func (t *TwoTier) Score(ctx context.Context, req MatchRequest) (MatchResult, error) {
	if t.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, t.timeout)
		result, err := t.remote.Score(remoteCtx, req)
		cancel()
		if err == nil {
			return result, nil
		}
		t.log.Warn("remote scoring failed, falling back to heuristic",
			zap.String("job_title", req.JobTitle),
			zap.Error(err))
	}

	return t.fallback.Score(ctx, req)
}
