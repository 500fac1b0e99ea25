package services

import (
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// RankedRider is one entry of a matcher result: the rider together with the
// advisory metadata used for assignment decisions.
type RankedRider struct {
	Rider *rider.Rider
	// DistanceKm is the great-circle distance to the pickup location.
	// Nil when the rider has never reported a location.
	DistanceKm *float64
	// Freshness classifies the age of the rider's last location ping.
	Freshness rider.Freshness
}

// RiderMatcher is a domain service ranking candidate riders for a pickup.
//
// Ranking rules:
//   - Riders are ordered by ascending distance to the pickup location.
//   - Riders without a known location sort after all located riders and keep
//     their input order among themselves.
//   - Stale locations still rank by distance; freshness is advisory metadata
//     for the caller, never a filter.
//
// Example usage:
//
//	matcher := services.NewRiderMatcher()
//	ranked, err := matcher.RankByDistance(pickup, riders, time.Now())
//	if err != nil {
//	    // a rider or the pickup location failed validation
//	    return
//	}
//	// ranked[0] is the nearest rider
type RiderMatcher struct{}

// NewRiderMatcher creates a new RiderMatcher instance.
func NewRiderMatcher() RiderMatcher {
	return RiderMatcher{}
}

// RankByDistance orders the given riders by distance to the pickup location.
// The input slice is not modified. Every rider appears in the result exactly
// once regardless of location availability.
func (m RiderMatcher) RankByDistance(
	pickup kernel.GeoLocation,
	riders []*rider.Rider,
	now time.Time,
) ([]RankedRider, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]RankedRider, 0, len(riders))
	for _, r := range riders {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		entry := RankedRider{
			Rider:     r,
			Freshness: r.LocationFreshness(now),
		}
		if location := r.Location(); location != nil {
			distance, err := location.DistanceKmTo(pickup)
			if err != nil {
				return nil, err
			}
			entry.DistanceKm = &distance
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].DistanceKm, ranked[j].DistanceKm
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	return ranked, nil
}
