package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPendingVerificationsQueryIsNotConstructed = errors.New(
	"GetPendingVerificationsQuery must be created via NewGetPendingVerificationsQuery constructor",
)

// GetPendingVerificationsQuery retrieves all verification requests still
// awaiting a customer decision, oldest first.
type GetPendingVerificationsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingVerificationsQuery creates a query for open verification
// requests.
func NewGetPendingVerificationsQuery() GetPendingVerificationsQuery {
	return GetPendingVerificationsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingVerificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingVerificationsQueryIsNotConstructed)
}

// GetPendingVerificationsQueryResponse is one open request in the read
// model.
type GetPendingVerificationsQueryResponse struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Note       string
	PriceDelta float64
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
