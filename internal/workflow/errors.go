package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrJobNotFound indicates the job id is unknown.
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// ErrClientNotFound indicates the client id is unknown.
type ErrClientNotFound struct {
	ClientID uuid.UUID
}

func (e *ErrClientNotFound) Error() string {
	return fmt.Sprintf("client not found: %s", e.ClientID)
}

// ErrTierNotFound indicates the tier id is unknown.
type ErrTierNotFound struct {
	TierID uuid.UUID
}

func (e *ErrTierNotFound) Error() string {
	return fmt.Sprintf("tier not found: %s", e.TierID)
}

// ErrBatchTooLarge indicates a candidate submission exceeded the per-batch cap.
type ErrBatchTooLarge struct {
	Size int
	Max  int
}

func (e *ErrBatchTooLarge) Error() string {
	return fmt.Sprintf("cannot submit more than %d candidates per submission (got %d)", e.Max, e.Size)
}

// ErrInsufficientCredits indicates the client's credit balance cannot cover
// the batch. Checked conservatively before any external call is made.
type ErrInsufficientCredits struct {
	Available int
	Required  int
}

func (e *ErrInsufficientCredits) Error() string {
	return fmt.Sprintf("insufficient credits: available %d, required %d", e.Available, e.Required)
}

// ErrInsufficientQuota indicates the client has no job submissions remaining.
type ErrInsufficientQuota struct{}

func (e *ErrInsufficientQuota) Error() string {
	return "no job submissions remaining for this billing period"
}

// ErrIngestionFailed wraps a profile-ingestion failure. The whole batch is
// aborted with no state mutated.
type ErrIngestionFailed struct {
	Cause error
}

func (e *ErrIngestionFailed) Error() string {
	return fmt.Sprintf("profile ingestion failed: %v", e.Cause)
}

func (e *ErrIngestionFailed) Unwrap() error {
	return e.Cause
}

// ErrInvalidTransition indicates a disallowed job status change.
type ErrInvalidTransition struct {
	From, To string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid job status transition: %s -> %s", e.From, e.To)
}

// ErrValidation indicates malformed input. Nothing is mutated.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrDuplicateEmail indicates this email already consumed its one-time free
// shortlist and cannot register again on the free tier.
type ErrDuplicateEmail struct {
	Email string
}

func (e *ErrDuplicateEmail) Error() string {
	return fmt.Sprintf("email has already received a free shortlist: %s", e.Email)
}
