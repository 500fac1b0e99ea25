package commands

import (
	"context"
	"time"
)

// UpdateRiderLocationCommandHandler persists rider location pings.
type UpdateRiderLocationCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewUpdateRiderLocationCommandHandler creates a handler for location pings.
func NewUpdateRiderLocationCommandHandler(uowFactory RiderUoWFactory) UpdateRiderLocationCommandHandler {
	return UpdateRiderLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the rider, records the ping, and persists the rider.
func (h UpdateRiderLocationCommandHandler) Handle(ctx context.Context, command UpdateRiderLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ridersRepo := uow.RiderRepository()

	aggregate, err := ridersRepo.Get(ctx, command.RiderID())
	if err != nil {
		return err
	}

	if err = aggregate.UpdateLocation(command.Location(), time.Now()); err != nil {
		return err
	}

	if err = ridersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
