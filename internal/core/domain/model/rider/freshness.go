package rider

import "time"

// Freshness classifies how recently a rider's location was reported.
// The classification is advisory metadata for callers ranking riders; it is
// never used as a filter, so riders with stale locations stay eligible for
// matching.
type Freshness string

const (
	// FreshnessFresh means the location was reported less than 5 minutes ago.
	FreshnessFresh Freshness = "fresh"
	// FreshnessRecent means the location was reported less than 15 minutes ago.
	FreshnessRecent Freshness = "recent"
	// FreshnessStale means the location was reported less than 60 minutes ago.
	FreshnessStale Freshness = "stale"
	// FreshnessOld means the location is at least an hour old.
	FreshnessOld Freshness = "old"
	// FreshnessUnknown means the rider has never reported a location.
	FreshnessUnknown Freshness = "unknown"
)

const (
	freshThreshold  = 5 * time.Minute
	recentThreshold = 15 * time.Minute
	staleThreshold  = 60 * time.Minute
)

// ClassifyFreshness buckets the age of a location update.
func ClassifyFreshness(age time.Duration) Freshness {
	switch {
	case age < freshThreshold:
		return FreshnessFresh
	case age < recentThreshold:
		return FreshnessRecent
	case age < staleThreshold:
		return FreshnessStale
	default:
		return FreshnessOld
	}
}
