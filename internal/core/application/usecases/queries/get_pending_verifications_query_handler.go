package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingVerificationsQueryHandler lists verification requests awaiting
// a customer decision. Uses direct SQL for read performance.
type GetPendingVerificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingVerificationsQueryHandler creates a handler for pending
// verification queries.
func NewGetPendingVerificationsQueryHandler(db *gorm.DB) GetPendingVerificationsQueryHandler {
	return GetPendingVerificationsQueryHandler{db: db}
}

// Handle returns all pending requests ordered by creation time, oldest
// first.
func (h GetPendingVerificationsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingVerificationsQuery,
) ([]GetPendingVerificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	requests := make([]GetPendingVerificationsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			note,
			price_delta,
			created_at,
			expires_at
		FROM verification_requests
		WHERE status = 'pending'
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var request GetPendingVerificationsQueryResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&request.Note,
			&request.PriceDelta,
			&request.CreatedAt,
			&request.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}

		requestID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		request.ID = requestID

		targetOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		request.OrderID = targetOrderID

		requests = append(requests, request)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
