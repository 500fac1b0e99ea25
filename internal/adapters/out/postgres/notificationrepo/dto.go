// Package notificationrepo provides data transfer objects and mapping
// functions for notification persistence. Per-channel delivery outcomes live
// in a jsonb column; the read flag and creation time are indexed for the
// retention purge.
package notificationrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO represents the database structure for persisting
// notification aggregates.
type NotificationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID   uuid.UUID `gorm:"type:uuid;index"`
	RecipientKind string
	Title         string
	Message       string
	Kind          string
	Delivered     string `gorm:"type:jsonb"`
	Read          bool   `gorm:"index"`
	ReadAt        *time.Time
	CreatedAt     time.Time `gorm:"index"`
	ExpiresAt     *time.Time
}

// TableName specifies the database table name for notification entities.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// marshalDelivered serializes per-channel delivery outcomes into the jsonb
// column format.
func marshalDelivered(delivered map[notification.Channel]bool) (string, error) {
	outcomes := make(map[string]bool, len(delivered))
	for channel, ok := range delivered {
		outcomes[string(channel)] = ok
	}

	raw, err := json.Marshal(outcomes)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalDelivered reconstructs per-channel delivery outcomes from the
// jsonb column format.
func unmarshalDelivered(raw string) (map[notification.Channel]bool, error) {
	var outcomes map[string]bool
	if err := json.Unmarshal([]byte(raw), &outcomes); err != nil {
		return nil, err
	}

	delivered := make(map[notification.Channel]bool, len(outcomes))
	for channel, ok := range outcomes {
		delivered[notification.Channel(channel)] = ok
	}
	return delivered, nil
}

// fromDomain converts a notification aggregate to its database
// representation.
func fromDomain(aggregate *notification.Notification) (NotificationDTO, error) {
	delivered, err := marshalDelivered(aggregate.Delivered())
	if err != nil {
		return NotificationDTO{}, err
	}

	return NotificationDTO{
		ID:            aggregate.ID().Bytes(),
		RecipientID:   aggregate.RecipientID().Bytes(),
		RecipientKind: string(aggregate.RecipientKind()),
		Title:         aggregate.Title(),
		Message:       aggregate.Message(),
		Kind:          aggregate.Kind(),
		Delivered:     delivered,
		Read:          aggregate.IsRead(),
		ReadAt:        aggregate.ReadAt(),
		CreatedAt:     aggregate.CreatedAt(),
		ExpiresAt:     aggregate.ExpiresAt(),
	}, nil
}

// toDomain converts a database DTO to a notification aggregate using
// RestoreNotification.
func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	delivered, err := unmarshalDelivered(dto.Delivered)
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id,
		recipientID,
		notification.RecipientKind(dto.RecipientKind),
		dto.Title,
		dto.Message,
		dto.Kind,
		delivered,
		dto.Read,
		dto.ReadAt,
		dto.CreatedAt,
		dto.ExpiresAt,
	)
}
