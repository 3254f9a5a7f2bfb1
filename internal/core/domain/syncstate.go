package domain

import "time"

// Smart sync tuning. A smart sync within the cool-down window is skipped;
// one outside it runs a full sync bounded by the short lookback.
const (
	// SmartSyncCooldown is the minimum interval between smart syncs for
	// one owner.
	SmartSyncCooldown = 5 * time.Minute

	// SmartSyncLookbackDays is the lookback window for a smart sync.
	SmartSyncLookbackDays = 7

	// DefaultLookbackDays is the lookback window for a full sync when the
	// caller supplies none.
	DefaultLookbackDays = 30
)

// SyncState records the last successful sync per owner.
type SyncState struct {
	// Owner is the account this state belongs to.
	Owner string

	// LastSync is when the last successful full or smart sync completed.
	LastSync time.Time
}

// InCooldown reports whether a smart sync at now should be skipped.
func (s *SyncState) InCooldown(now time.Time) bool {
	if s == nil || s.LastSync.IsZero() {
		return false
	}
	return now.Sub(s.LastSync) < SmartSyncCooldown
}

// SyncResult aggregates the outcome of one sync invocation. Partial provider
// failures land in Errors; the sync as a whole still succeeds.
type SyncResult struct {
	// Counts is the number of records upserted per source type.
	Counts map[SourceType]int `json:"counts"`

	// Total is the sum of Counts.
	Total int `json:"total"`

	// Errors holds per-provider and per-item error strings.
	Errors []string `json:"errors,omitempty"`
}

// NewSyncResult creates an empty result.
func NewSyncResult() *SyncResult {
	return &SyncResult{Counts: make(map[SourceType]int)}
}

// Add records n upserted records for a source type.
func (r *SyncResult) Add(source SourceType, n int) {
	r.Counts[source] += n
	r.Total += n
}

// Merge folds another result into this one.
func (r *SyncResult) Merge(other *SyncResult) {
	if other == nil {
		return
	}
	for source, n := range other.Counts {
		r.Counts[source] += n
	}
	r.Total += other.Total
	r.Errors = append(r.Errors, other.Errors...)
}

// SmartSyncResult is the outcome of a throttled sync attempt.
type SmartSyncResult struct {
	// Skipped is true when the cool-down suppressed the sync.
	Skipped bool `json:"skipped"`

	// Result is set when a sync actually ran.
	Result *SyncResult `json:"result,omitempty"`

	// LastSync is the sync state timestamp after the call.
	LastSync time.Time `json:"last_sync"`
}

// Stats summarises the stored record set for one owner.
type Stats struct {
	Total          int                `json:"total"`
	CountsBySource map[SourceType]int `json:"counts_by_source"`
	LastSync       time.Time          `json:"last_sync"`
}
