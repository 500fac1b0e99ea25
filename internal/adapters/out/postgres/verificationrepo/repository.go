package verificationrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/verification"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVerificationRepository implements VerificationRepository using GORM.
type GormVerificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormVerificationRepository creates a new GORM verification request
// repository.
func NewGormVerificationRepository(db *gorm.DB, tracker aggregateTracker) *GormVerificationRepository {
	return &GormVerificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new verification request to the database.
func (r *GormVerificationRepository) Add(ctx context.Context, aggregate *verification.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing verification request to the database.
func (r *GormVerificationRepository) Update(ctx context.Context, aggregate *verification.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&RequestDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a verification request by ID.
func (r *GormVerificationRepository) Get(ctx context.Context, id kernel.UUID) (*verification.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByOrder retrieves the pending request for the given order.
// At most one pending request exists per order.
func (r *GormVerificationRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*verification.Request, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND status = ?", orderID.Bytes(), string(verification.StatusPending)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pending verification request", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllPendingExpiredBefore retrieves pending requests whose decision
// deadline passed before the given instant.
func (r *GormVerificationRepository) GetAllPendingExpiredBefore(ctx context.Context, deadline time.Time) ([]*verification.Request, error) {
	var dtos []RequestDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ? AND expires_at < ?", string(verification.StatusPending), deadline).Error
	if err != nil {
		return nil, err
	}

	requests := make([]*verification.Request, 0, len(dtos))
	for _, dto := range dtos {
		request, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}
