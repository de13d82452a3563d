// Package ingestion retrieves structured candidate profiles from source URLs.
// The primary path calls a remote scraping actor's run-sync API; when no actor
// token is configured, a lower-fidelity direct-fetch path extracts what it can
// from the public page itself.
package ingestion

import (
	"context"
	"fmt"
)

// MaxURLsPerRequest is the largest URL batch a single ingestion call accepts,
// matching the per-submission cap of the acceptance pipeline.
const MaxURLsPerRequest = 50

// Experience is one entry of a profile's work history.
type Experience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Education is one entry of a profile's education history.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
}

// Profile is a normalized candidate profile. Optional attributes are nil when
// the source had nothing for them.
type Profile struct {
	FirstName  string
	LastName   string
	ProfileURL string
	Headline   *string
	Location   *string
	Summary    *string
	Experience []Experience
	Education  []Education
	Skills     []string
}

// Fetcher retrieves profiles for a batch of source URLs. Implementations must
// be idempotent: fetching the same URL twice yields equivalent data and has no
// side effects.
type Fetcher interface {
	FetchProfiles(ctx context.Context, urls []string) ([]Profile, error)
}

// Error represents an ingestion failure. The pipeline treats any ingestion
// error as fatal for the whole batch.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
