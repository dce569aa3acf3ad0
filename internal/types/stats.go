package types

import "sync/atomic"

// RunStats tracks counters for one scraping cycle. A single orchestrator
// invocation owns one instance; the fetcher receives it by handle for the
// duration of the cycle. All counters are atomic so sources may be processed
// in parallel.
type RunStats struct {
	TotalRequests     atomic.Int64
	SuccessfulFetches atomic.Int64
	FailedFetches     atomic.Int64
	ArticlesProcessed atomic.Int64
	DuplicatesFound   atomic.Int64
	BlockedSites      atomic.Int64
}

// Reset zeroes all counters at the start of a cycle.
func (s *RunStats) Reset() {
	s.TotalRequests.Store(0)
	s.SuccessfulFetches.Store(0)
	s.FailedFetches.Store(0)
	s.ArticlesProcessed.Store(0)
	s.DuplicatesFound.Store(0)
	s.BlockedSites.Store(0)
}

// SuccessRate returns the fetch success rate as a percentage.
func (s *RunStats) SuccessRate() float64 {
	total := s.TotalRequests.Load()
	if total < 1 {
		total = 1
	}
	return 100 * float64(s.SuccessfulFetches.Load()) / float64(total)
}

// Snapshot copies the counters into a plain value safe for reading and
// serialization after the cycle completes.
func (s *RunStats) Snapshot() RunStatsSnapshot {
	return RunStatsSnapshot{
		TotalRequests:     s.TotalRequests.Load(),
		SuccessfulFetches: s.SuccessfulFetches.Load(),
		FailedFetches:     s.FailedFetches.Load(),
		ArticlesProcessed: s.ArticlesProcessed.Load(),
		DuplicatesFound:   s.DuplicatesFound.Load(),
		BlockedSites:      s.BlockedSites.Load(),
	}
}

// RunStatsSnapshot is an immutable copy of RunStats counters.
type RunStatsSnapshot struct {
	TotalRequests     int64 `json:"total_requests"`
	SuccessfulFetches int64 `json:"successful_fetches"`
	FailedFetches     int64 `json:"failed_fetches"`
	ArticlesProcessed int64 `json:"articles_processed"`
	DuplicatesFound   int64 `json:"duplicates_found"`
	BlockedSites      int64 `json:"blocked_sites"`
}

// SuccessRate returns the fetch success rate as a percentage.
func (s RunStatsSnapshot) SuccessRate() float64 {
	total := s.TotalRequests
	if total < 1 {
		total = 1
	}
	return 100 * float64(s.SuccessfulFetches) / float64(total)
}
