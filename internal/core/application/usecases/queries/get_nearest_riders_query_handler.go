package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetNearestRidersQueryHandler ranks assignable riders by distance to a
// pickup. Reads the rider read model with direct SQL for performance, then
// delegates the ranking to the RiderMatcher domain service so query and
// assignment agree on the ordering rules.
type GetNearestRidersQueryHandler struct {
	db      *gorm.DB
	matcher services.RiderMatcher
}

// NewGetNearestRidersQueryHandler creates a handler for nearest-rider
// queries. Requires a GORM database connection for query execution.
func NewGetNearestRidersQueryHandler(db *gorm.DB) GetNearestRidersQueryHandler {
	return GetNearestRidersQueryHandler{
		db:      db,
		matcher: services.NewRiderMatcher(),
	}
}

// Handle loads active approved riders and returns them ranked by distance
// to the pickup, nearest first, riders without a location last.
func (h GetNearestRidersQueryHandler) Handle(
	ctx context.Context,
	query GetNearestRidersQuery,
) ([]GetNearestRidersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			contact,
			latitude,
			longitude,
			location_seen_at
		FROM riders
		WHERE is_active AND verification = 'approved'
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]*rider.Rider, 0)

	for rows.Next() {
		var (
			id             uuid.UUID
			name, contact  string
			latitude       sql.NullFloat64
			longitude      sql.NullFloat64
			locationSeenAt sql.NullTime
		)

		if err = rows.Scan(&id, &name, &contact, &latitude, &longitude, &locationSeenAt); err != nil {
			return nil, err
		}

		riderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		var location *kernel.GeoLocation
		var seenAt *time.Time
		if latitude.Valid && longitude.Valid && locationSeenAt.Valid {
			loc, locErr := kernel.NewGeoLocation(latitude.Float64, longitude.Float64)
			if locErr != nil {
				return nil, locErr
			}
			location = &loc
			seenAt = &locationSeenAt.Time
		}

		candidate, restoreErr := rider.RestoreRider(
			riderID, name, contact,
			location, seenAt, true, rider.VerificationApproved, nil,
		)
		if restoreErr != nil {
			return nil, restoreErr
		}
		candidates = append(candidates, candidate)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	ranked, err := h.matcher.RankByDistance(query.Pickup(), candidates, time.Now())
	if err != nil {
		return nil, err
	}

	if limit := query.Limit(); limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	responses := make([]GetNearestRidersQueryResponse, 0, len(ranked))
	for _, entry := range ranked {
		responses = append(responses, GetNearestRidersQueryResponse{
			ID:         entry.Rider.ID(),
			Name:       entry.Rider.Name(),
			Contact:    entry.Rider.Contact(),
			DistanceKm: entry.DistanceKm,
			Freshness:  entry.Freshness,
		})
	}

	return responses, nil
}
