// Package workflow orchestrates the job lifecycle, the client credit/quota
// ledger, and the candidate-acceptance pipeline. It is the only component
// with business-rule authority; the HTTP layer and the CLI both call into it.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/ingestion"
	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/store"
)

// creditsResetInterval is how far a tier change pushes the reset date out.
const creditsResetInterval = 30 * 24 * time.Hour

// Service wires the entity store to the two external collaborators.
type Service struct {
	store   *store.Store
	scorer  scoring.Scorer
	fetcher ingestion.Fetcher
	log     *zap.Logger
}

// New builds the workflow service. The scorer and fetcher are injected so
// tests can substitute deterministic fakes.
func New(st *store.Store, scorer scoring.Scorer, fetcher ingestion.Fetcher, log *zap.Logger) *Service {
	return &Service{
		store:   st,
		scorer:  scorer,
		fetcher: fetcher,
		log:     log,
	}
}

// Store exposes the underlying entity store for read-only surfaces.
func (s *Service) Store() *store.Store {
	return s.store
}

// RegisterClient creates a client account on the free tier. An email that has
// already consumed its one-time free shortlist is rejected here, inside the
// workflow, so no caller can bypass the gate.
func (s *Service) RegisterClient(ctx context.Context, req RegisterClientRequest) (store.Client, error) {
	if err := req.Validate(); err != nil {
		return store.Client{}, err
	}

	if s.store.HasFreeShortlistEmail(req.Email) {
		return store.Client{}, &ErrDuplicateEmail{Email: req.Email}
	}

	freeTier, ok := s.store.TierByName(store.TierFree)
	if !ok {
		return store.Client{}, &ErrTierNotFound{}
	}

	now := time.Now().UTC()
	client := store.Client{
		ID:               uuid.New(),
		CompanyName:      req.CompanyName,
		ContactName:      req.ContactName,
		Email:            req.Email,
		Phone:            req.Phone,
		TierID:           freeTier.ID,
		AvailableCredits: freeTier.MonthlyCandidateAllotment,
		JobsRemaining:    freeTier.MonthlyJobAllotment,
		CreditsResetDate: now.Add(creditsResetInterval),
		CreatedAt:        now,
	}
	s.store.CreateClient(ctx, client)

	s.log.Info("client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("company", client.CompanyName))
	return client, nil
}

// SubmitJob creates a hiring request for a client. The job quota is consumed
// here, at creation, and nowhere else: a job slot is spent the moment the
// request enters the system, not again when a sourcer claims it.
func (s *Service) SubmitJob(ctx context.Context, clientID uuid.UUID, req SubmitJobRequest) (store.Job, error) {
	if err := req.Validate(); err != nil {
		return store.Job{}, err
	}

	seniority, err := store.ParseSeniorityLevel(req.SeniorityLevel)
	if err != nil {
		return store.Job{}, &ErrValidation{Field: "SeniorityLevel", Message: err.Error()}
	}
	arrangement, err := store.ParseWorkArrangement(req.WorkArrangement)
	if err != nil {
		return store.Job{}, &ErrValidation{Field: "WorkArrangement", Message: err.Error()}
	}

	client, ok := s.store.ClientByID(clientID)
	if !ok {
		return store.Job{}, &ErrClientNotFound{ClientID: clientID}
	}
	if client.JobsRemaining <= 0 {
		return store.Job{}, &ErrInsufficientQuota{}
	}

	now := time.Now().UTC()
	job := store.Job{
		ID:                  uuid.New(),
		ClientID:            clientID,
		Title:               req.Title,
		Description:         req.Description,
		SeniorityLevel:      seniority,
		WorkArrangement:     arrangement,
		Location:            req.Location,
		SalaryRangeMin:      req.SalaryRangeMin,
		SalaryRangeMax:      req.SalaryRangeMax,
		KeySellingPoints:    req.KeySellingPoints,
		Status:              store.StatusUnclaimed,
		CandidatesRequested: req.CandidatesRequested,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	client.JobsRemaining--
	s.store.UpdateClient(ctx, client)
	s.store.CreateJob(ctx, job)

	s.log.Info("job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("jobs_remaining", client.JobsRemaining))
	return job, nil
}

// ClaimJob transitions an unclaimed job to Claimed and records the sourcer.
// Claiming has no quota side effect.
func (s *Service) ClaimJob(ctx context.Context, jobID uuid.UUID, sourcerName string) (store.Job, error) {
	if sourcerName == "" {
		return store.Job{}, &ErrValidation{Field: "SourcerName", Message: "sourcer name is required"}
	}

	job, ok := s.store.JobByID(jobID)
	if !ok {
		return store.Job{}, &ErrJobNotFound{JobID: jobID}
	}
	if !store.IsTransitionAllowed(job.Status, store.StatusClaimed) {
		return store.Job{}, &ErrInvalidTransition{From: string(job.Status), To: string(store.StatusClaimed)}
	}

	job.Status = store.StatusClaimed
	job.SourcerName = &sourcerName
	job.UpdatedAt = time.Now().UTC()
	s.store.UpdateJob(ctx, job)

	s.log.Info("job claimed",
		zap.String("job_id", jobID.String()),
		zap.String("sourcer", sourcerName))
	return job, nil
}

// CompleteJob transitions a claimed job to Completed with an optional note.
func (s *Service) CompleteJob(ctx context.Context, jobID uuid.UUID, note string) (store.Job, error) {
	job, ok := s.store.JobByID(jobID)
	if !ok {
		return store.Job{}, &ErrJobNotFound{JobID: jobID}
	}
	if !store.IsTransitionAllowed(job.Status, store.StatusCompleted) {
		return store.Job{}, &ErrInvalidTransition{From: string(job.Status), To: string(store.StatusCompleted)}
	}

	s.completeJob(ctx, &job, note)
	return job, nil
}

// ForceCompleteJob is the admin override: it completes a job from any
// non-completed state, bypassing the transition table.
func (s *Service) ForceCompleteJob(ctx context.Context, jobID uuid.UUID) (store.Job, error) {
	job, ok := s.store.JobByID(jobID)
	if !ok {
		return store.Job{}, &ErrJobNotFound{JobID: jobID}
	}
	if job.Status == store.StatusCompleted {
		return job, nil
	}

	s.completeJob(ctx, &job, "")
	s.log.Info("job force-completed", zap.String("job_id", jobID.String()))
	return job, nil
}

// completeJob applies the completion mutation and marks the owning client's
// free shortlist as consumed when it is on the free tier.
func (s *Service) completeJob(ctx context.Context, job *store.Job, note string) {
	job.Status = store.StatusCompleted
	if note != "" {
		job.CompletionNote = &note
	}
	job.UpdatedAt = time.Now().UTC()
	s.store.UpdateJob(ctx, *job)

	client, ok := s.store.ClientByID(job.ClientID)
	if !ok {
		return
	}
	if tier, ok := s.store.TierByID(client.TierID); ok && tier.Name == store.TierFree && !client.HasReceivedFreeShortlist {
		client.HasReceivedFreeShortlist = true
		s.store.UpdateClient(ctx, client)
	}
}

// ReassignJob is the admin override resetting a claimed job back to Unclaimed
// so another sourcer can pick it up. The quota is untouched.
func (s *Service) ReassignJob(ctx context.Context, jobID uuid.UUID) (store.Job, error) {
	job, ok := s.store.JobByID(jobID)
	if !ok {
		return store.Job{}, &ErrJobNotFound{JobID: jobID}
	}
	if !store.IsTransitionAllowed(job.Status, store.StatusUnclaimed) {
		return store.Job{}, &ErrInvalidTransition{From: string(job.Status), To: string(store.StatusUnclaimed)}
	}

	job.Status = store.StatusUnclaimed
	job.SourcerName = nil
	job.UpdatedAt = time.Now().UTC()
	s.store.UpdateJob(ctx, job)

	s.log.Info("job reassigned", zap.String("job_id", jobID.String()))
	return job, nil
}

// UpgradeTier moves a client to a new tier. Credits and quota are hard-reset
// to the new tier's allotments (never added), and the reset date moves to 30
// days from now. Calling it twice with the same tier is idempotent.
func (s *Service) UpgradeTier(ctx context.Context, clientID, tierID uuid.UUID) (store.Client, error) {
	client, ok := s.store.ClientByID(clientID)
	if !ok {
		return store.Client{}, &ErrClientNotFound{ClientID: clientID}
	}
	tier, ok := s.store.TierByID(tierID)
	if !ok {
		return store.Client{}, &ErrTierNotFound{TierID: tierID}
	}

	client.TierID = tier.ID
	client.AvailableCredits = tier.MonthlyCandidateAllotment
	client.JobsRemaining = tier.MonthlyJobAllotment
	client.CreditsResetDate = time.Now().UTC().Add(creditsResetInterval)
	s.store.UpdateClient(ctx, client)

	s.log.Info("client upgraded",
		zap.String("client_id", clientID.String()),
		zap.String("tier", tier.Name))
	return client, nil
}

// GrantCredits is the admin action adding credits to a client's balance.
// Quota and the reset date are untouched.
func (s *Service) GrantCredits(ctx context.Context, clientID uuid.UUID, amount int) (store.Client, error) {
	if amount <= 0 {
		return store.Client{}, &ErrValidation{Field: "Amount", Message: "credit grant must be positive"}
	}

	client, ok := s.store.ClientByID(clientID)
	if !ok {
		return store.Client{}, &ErrClientNotFound{ClientID: clientID}
	}

	client.AvailableCredits += amount
	s.store.UpdateClient(ctx, client)

	s.log.Info("credits granted",
		zap.String("client_id", clientID.String()),
		zap.Int("amount", amount),
		zap.Int("balance", client.AvailableCredits))
	return client, nil
}

// UpdateClient applies an admin edit to a client's contact fields.
func (s *Service) UpdateClient(ctx context.Context, clientID uuid.UUID, update ClientUpdate) (store.Client, error) {
	client, ok := s.store.ClientByID(clientID)
	if !ok {
		return store.Client{}, &ErrClientNotFound{ClientID: clientID}
	}

	if update.CompanyName != nil {
		client.CompanyName = *update.CompanyName
	}
	if update.ContactName != nil {
		client.ContactName = *update.ContactName
	}
	if update.Email != nil {
		client.Email = *update.Email
	}
	if update.Phone != nil {
		client.Phone = *update.Phone
	}
	s.store.UpdateClient(ctx, client)
	return client, nil
}

// DeleteJob removes a job and its candidates (admin action).
func (s *Service) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	if !s.store.DeleteJob(ctx, jobID) {
		return &ErrJobNotFound{JobID: jobID}
	}
	s.log.Info("job deleted", zap.String("job_id", jobID.String()))
	return nil
}

// DeleteClient removes a client, cascading to its jobs and their candidates
// (admin action).
func (s *Service) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	if !s.store.DeleteClient(ctx, clientID) {
		return &ErrClientNotFound{ClientID: clientID}
	}
	s.log.Info("client deleted", zap.String("client_id", clientID.String()))
	return nil
}
