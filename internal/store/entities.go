// Package store holds the four entity collections (tiers, clients, jobs,
// candidates) behind a single in-memory snapshot that is mirrored to a
// key-value backend on every committed mutation.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeniorityLevel is the required experience level for a job.
type SeniorityLevel string

// Seniority levels in ascending order.
const (
	SeniorityJunior    SeniorityLevel = "Junior"
	SeniorityMid       SeniorityLevel = "Mid"
	SenioritySenior    SeniorityLevel = "Senior"
	SeniorityExecutive SeniorityLevel = "Executive"
)

// ParseSeniorityLevel converts a raw string to a SeniorityLevel.
func ParseSeniorityLevel(s string) (SeniorityLevel, error) {
	lvl := SeniorityLevel(s)
	switch lvl {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityExecutive:
		return lvl, nil
	}
	return "", fmt.Errorf("unknown seniority level %q", s)
}

// WorkArrangement is where the work happens.
type WorkArrangement string

// Work arrangements.
const (
	ArrangementRemote WorkArrangement = "Remote"
	ArrangementOnSite WorkArrangement = "On-site"
	ArrangementHybrid WorkArrangement = "Hybrid"
)

// ParseWorkArrangement converts a raw string to a WorkArrangement.
func ParseWorkArrangement(s string) (WorkArrangement, error) {
	w := WorkArrangement(s)
	switch w {
	case ArrangementRemote, ArrangementOnSite, ArrangementHybrid:
		return w, nil
	}
	return "", fmt.Errorf("unknown work arrangement %q", s)
}

// JobStatus is the job lifecycle state.
//
// Valid status graph:
//
//	Unclaimed ──► Claimed ──► Completed
//	     ▲           │
//	     └───────────┘  (admin reassign only)
//
// Completed is terminal; admin force-complete may jump there from any state.
type JobStatus string

// Job statuses.
const (
	StatusUnclaimed JobStatus = "Unclaimed"
	StatusClaimed   JobStatus = "Claimed"
	StatusCompleted JobStatus = "Completed"
)

// validTransitions lists every allowed (from → to) pair in the normal flow.
// The admin reassign override (Claimed → Unclaimed) is included because it is
// the one sanctioned backward edge.
var validTransitions = map[JobStatus][]JobStatus{
	StatusUnclaimed: {StatusClaimed},
	StatusClaimed:   {StatusCompleted, StatusUnclaimed},
	// Completed is terminal, no outgoing transitions.
}

// ParseJobStatus converts a raw string to a JobStatus.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case StatusUnclaimed, StatusClaimed, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to JobStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Tier is an immutable plan definition. Tiers are created at initialization
// and referenced by clients; they are never mutated.
type Tier struct {
	ID                        uuid.UUID `json:"id"`
	Name                      string    `json:"name"`
	MonthlyJobAllotment       int       `json:"monthly_job_allotment"`
	MonthlyCandidateAllotment int       `json:"monthly_candidate_allotment"`
	IncludesCompanyEmails     bool      `json:"includes_company_emails"`
	CreatedAt                 time.Time `json:"created_at"`
}

// Client is a hiring organization's account.
type Client struct {
	ID                       uuid.UUID `json:"id"`
	CompanyName              string    `json:"company_name"`
	ContactName              string    `json:"contact_name"`
	Email                    string    `json:"email"`
	Phone                    string    `json:"phone"`
	TierID                   uuid.UUID `json:"tier_id"`
	AvailableCredits         int       `json:"available_credits"`
	JobsRemaining            int       `json:"jobs_remaining"`
	CreditsResetDate         time.Time `json:"credits_reset_date"`
	HasReceivedFreeShortlist bool      `json:"has_received_free_shortlist"`
	CreatedAt                time.Time `json:"created_at"`
}

// Job is a hiring request owned by a client.
type Job struct {
	ID                  uuid.UUID       `json:"id"`
	ClientID            uuid.UUID       `json:"client_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	SeniorityLevel      SeniorityLevel  `json:"seniority_level"`
	WorkArrangement     WorkArrangement `json:"work_arrangement"`
	Location            string          `json:"location"`
	SalaryRangeMin      int             `json:"salary_range_min"`
	SalaryRangeMax      int             `json:"salary_range_max"`
	KeySellingPoints    []string        `json:"key_selling_points"`
	Status              JobStatus       `json:"status"`
	SourcerName         *string         `json:"sourcer_name,omitempty"`
	CompletionNote      *string         `json:"completion_note,omitempty"`
	CandidatesRequested int             `json:"candidates_requested"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Experience is one entry of a candidate's work history.
type Experience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Education is one entry of a candidate's education history.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
}

// Candidate is an accepted profile associated with exactly one job.
// Candidates are created only by the acceptance pipeline and are immutable
// once created. Optional attributes are nil when unknown, never sentinel
// strings; display fallbacks belong to the presentation boundary.
type Candidate struct {
	ID          uuid.UUID    `json:"id"`
	JobID       uuid.UUID    `json:"job_id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	ProfileURL  string       `json:"profile_url"`
	Headline    *string      `json:"headline,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Summary     *string      `json:"summary,omitempty"`
	Experience  []Experience `json:"experience,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// NormalizeProfileURL canonicalizes a profile URL for duplicate detection.
// The URL is the candidate's natural key, matched case-insensitively after
// trimming whitespace.
func NormalizeProfileURL(url string) string {
	return strings.ToLower(strings.TrimSpace(url))
}
