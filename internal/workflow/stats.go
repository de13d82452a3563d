package workflow

import (
	"sort"
	"time"

	"github.com/shortlisthq/shortlist/internal/store"
)

// SystemStats is a point-in-time snapshot of the marketplace.
type SystemStats struct {
	TotalClients    int `json:"total_clients"`
	TotalJobs       int `json:"total_jobs"`
	TotalCandidates int `json:"total_candidates"`
	UnclaimedJobs   int `json:"unclaimed_jobs"`
	ClaimedJobs     int `json:"claimed_jobs"`
	CompletedJobs   int `json:"completed_jobs"`
	ActiveSourcers  int `json:"active_sourcers"`
}

// SourcerStats is one sourcer's completion record.
type SourcerStats struct {
	Name          string `json:"name"`
	ClaimedJobs   int    `json:"claimed_jobs"`
	CompletedJobs int    `json:"completed_jobs"`
}

// Stats computes the system snapshot. Active sourcers are those with at least
// one job currently claimed or completed under their name.
func (s *Service) Stats() SystemStats {
	jobs := s.store.Jobs()

	stats := SystemStats{
		TotalClients:    len(s.store.Clients()),
		TotalJobs:       len(jobs),
		TotalCandidates: len(s.store.Candidates()),
	}

	sourcers := make(map[string]struct{})
	for _, job := range jobs {
		switch job.Status {
		case store.StatusUnclaimed:
			stats.UnclaimedJobs++
		case store.StatusClaimed:
			stats.ClaimedJobs++
		case store.StatusCompleted:
			stats.CompletedJobs++
		}
		if job.SourcerName != nil && *job.SourcerName != "" {
			sourcers[*job.SourcerName] = struct{}{}
		}
	}
	stats.ActiveSourcers = len(sourcers)

	return stats
}

// TopSourcers ranks sourcers by completed jobs, then claimed jobs, then name.
// limit <= 0 returns all of them.
func (s *Service) TopSourcers(limit int) []SourcerStats {
	byName := make(map[string]*SourcerStats)
	for _, job := range s.store.Jobs() {
		if job.SourcerName == nil || *job.SourcerName == "" {
			continue
		}
		entry, ok := byName[*job.SourcerName]
		if !ok {
			entry = &SourcerStats{Name: *job.SourcerName}
			byName[*job.SourcerName] = entry
		}
		switch job.Status {
		case store.StatusClaimed:
			entry.ClaimedJobs++
		case store.StatusCompleted:
			entry.CompletedJobs++
		}
	}

	ranked := make([]SourcerStats, 0, len(byName))
	for _, entry := range byName {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CompletedJobs != ranked[j].CompletedJobs {
			return ranked[i].CompletedJobs > ranked[j].CompletedJobs
		}
		if ranked[i].ClaimedJobs != ranked[j].ClaimedJobs {
			return ranked[i].ClaimedJobs > ranked[j].ClaimedJobs
		}
		return ranked[i].Name < ranked[j].Name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// JobsByDateRange returns jobs created inside [from, to), newest first.
func (s *Service) JobsByDateRange(from, to time.Time) []store.Job {
	var out []store.Job
	for _, job := range s.store.Jobs() {
		if job.CreatedAt.Before(from) || !job.CreatedAt.Before(to) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
