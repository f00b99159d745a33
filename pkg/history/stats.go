package history

import "time"

// Summary aggregates a set of records.
type Summary struct {
	Runs      int
	Failures  int
	CacheHits int
	Total     time.Duration
}

// Summarize counts successes, failures and cache hits in records.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Runs++
		s.Total += r.Duration
		if !r.OK() {
			s.Failures++
		}
		if r.CacheHit {
			s.CacheHits++
		}
	}
	return s
}

// Durations returns run durations in seconds, oldest first, for plotting.
// records is expected newest first, as returned by [Store.List].
func Durations(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r.Duration.Seconds()
	}
	return out
}
