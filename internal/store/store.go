package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"
	"github.com/shortlisthq/shortlist/internal/kv"
)

// Snapshot keys in the key-value backend, one per entity type.
const (
	keyTiers      = "tiers"
	keyClients    = "clients"
	keyJobs       = "jobs"
	keyCandidates = "candidates"
)

// Store is the single source of truth for all four entity collections.
// Mutations update the in-memory snapshot first, then mirror it to the
// key-value backend best-effort: a persistence failure is logged and never
// rolls back memory. The backend is a cache of record, not a system of record.
type Store struct {
	mu  sync.RWMutex
	kv  kv.Store
	log *zap.Logger

	tiers      []Tier
	clients    []Client
	jobs       []Job
	candidates []Candidate
}

// New rehydrates a store from the key-value backend. Missing keys fall back
// to empty collections; an empty tier catalog is seeded with the defaults.
func New(ctx context.Context, backend kv.Store, log *zap.Logger) (*Store, error) {
	s := &Store{kv: backend, log: log}

	if err := load(ctx, backend, keyTiers, &s.tiers); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, keyClients, &s.clients); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, keyJobs, &s.jobs); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, keyCandidates, &s.candidates); err != nil {
		return nil, err
	}

	if len(s.tiers) == 0 {
		s.tiers = DefaultTiers()
		s.persist(ctx)
		log.Info("seeded default tier catalog", zap.Int("tiers", len(s.tiers)))
	}

	return s, nil
}

// load reads one snapshot key into dst. A missing key leaves dst empty.
func load[T any](ctx context.Context, backend kv.Store, key string, dst *[]T) error {
	data, err := backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s snapshot: %w", key, err)
	}
	return nil
}

// persist mirrors all four collections to the backend. Callers must hold at
// least a read lock. Failures are logged, not returned: the in-memory state
// stays authoritative and the next mutation retries the full snapshot.
func (s *Store) persist(ctx context.Context) {
	snapshots := map[string]any{
		keyTiers:      s.tiers,
		keyClients:    s.clients,
		keyJobs:       s.jobs,
		keyCandidates: s.candidates,
	}

	g, gCtx := errgroup.WithContext(ctx)
	for key, collection := range snapshots {
		data, err := json.Marshal(collection)
		if err != nil {
			s.log.Warn("failed to encode snapshot", zap.String("key", key), zap.Error(err))
			continue
		}
		g.Go(func() error {
			return s.kv.Set(gCtx, key, data)
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn("failed to persist snapshot", zap.Error(err))
	}
}

// --- Tiers ---

// Tiers returns the tier catalog.
func (s *Store) Tiers() []Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Tier(nil), s.tiers...)
}

// TierByID returns the tier with the given ID, or false.
func (s *Store) TierByID(id uuid.UUID) (Tier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// TierByName returns the tier with the given name, or false.
func (s *Store) TierByName(name string) (Tier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// --- Clients ---

// CreateClient appends a fully-populated client.
func (s *Store) CreateClient(ctx context.Context, c Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
	s.persist(ctx)
}

// UpdateClient replaces the stored client with the same ID.
func (s *Store) UpdateClient(ctx context.Context, c Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			s.clients[i] = c
			s.persist(ctx)
			return true
		}
	}
	return false
}

// ClientByID returns the client with the given ID, or false.
func (s *Store) ClientByID(id uuid.UUID) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// Clients returns all clients.
func (s *Store) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Client(nil), s.clients...)
}

// HasFreeShortlistEmail reports whether any client with this email
// (case-insensitive) has already consumed its one-time free shortlist.
func (s *Store) HasFreeShortlistEmail(email string) bool {
	needle := strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if strings.ToLower(strings.TrimSpace(c.Email)) == needle && c.HasReceivedFreeShortlist {
			return true
		}
	}
	return false
}

// DeleteClient removes a client, its jobs, and their candidates.
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	remaining := s.clients[:0]
	for _, c := range s.clients {
		if c.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return false
	}
	s.clients = remaining

	ownedJobs := make(map[uuid.UUID]bool)
	jobs := s.jobs[:0]
	for _, j := range s.jobs {
		if j.ClientID == id {
			ownedJobs[j.ID] = true
			continue
		}
		jobs = append(jobs, j)
	}
	s.jobs = jobs

	candidates := s.candidates[:0]
	for _, c := range s.candidates {
		if ownedJobs[c.JobID] {
			continue
		}
		candidates = append(candidates, c)
	}
	s.candidates = candidates

	s.persist(ctx)
	return true
}

// --- Jobs ---

// CreateJob appends a fully-populated job.
func (s *Store) CreateJob(ctx context.Context, j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	s.persist(ctx)
}

// UpdateJob replaces the stored job with the same ID.
func (s *Store) UpdateJob(ctx context.Context, j Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == j.ID {
			s.jobs[i] = j
			s.persist(ctx)
			return true
		}
	}
	return false
}

// JobByID returns the job with the given ID, or false.
func (s *Store) JobByID(id uuid.UUID) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// Jobs returns all jobs.
func (s *Store) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Job(nil), s.jobs...)
}

// JobsByStatus returns all jobs in the given status.
func (s *Store) JobsByStatus(status JobStatus) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Job
	for _, j := range s.jobs {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out
}

// JobsByClient returns all jobs owned by a client.
func (s *Store) JobsByClient(clientID uuid.UUID) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Job
	for _, j := range s.jobs {
		if j.ClientID == clientID {
			out = append(out, j)
		}
	}
	return out
}

// DeleteJob removes a job and its candidates.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	jobs := s.jobs[:0]
	for _, j := range s.jobs {
		if j.ID == id {
			found = true
			continue
		}
		jobs = append(jobs, j)
	}
	if !found {
		return false
	}
	s.jobs = jobs

	candidates := s.candidates[:0]
	for _, c := range s.candidates {
		if c.JobID == id {
			continue
		}
		candidates = append(candidates, c)
	}
	s.candidates = candidates

	s.persist(ctx)
	return true
}

// --- Candidates ---

// CreateCandidates appends an accepted batch in one committed mutation so no
// partial batch is ever observable or persisted.
func (s *Store) CreateCandidates(ctx context.Context, batch []Candidate) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, batch...)
	s.persist(ctx)
}

// CandidatesByJob returns all candidates accepted for a job.
func (s *Store) CandidatesByJob(jobID uuid.UUID) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Candidate
	for _, c := range s.candidates {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	return out
}

// CandidatesByClient returns all candidates across a client's jobs.
func (s *Store) CandidatesByClient(clientID uuid.UUID) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[uuid.UUID]bool)
	for _, j := range s.jobs {
		if j.ClientID == clientID {
			owned[j.ID] = true
		}
	}

	var out []Candidate
	for _, c := range s.candidates {
		if owned[c.JobID] {
			out = append(out, c)
		}
	}
	return out
}

// Candidates returns all candidates.
func (s *Store) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Candidate(nil), s.candidates...)
}

// CandidateURLs returns the set of normalized profile URLs already in the
// system. The pipeline uses it for system-wide duplicate detection.
func (s *Store) CandidateURLs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make(map[string]struct{}, len(s.candidates))
	for _, c := range s.candidates {
		urls[NormalizeProfileURL(c.ProfileURL)] = struct{}{}
	}
	return urls
}
