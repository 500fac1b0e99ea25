package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/verification"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expiredRequest(t *testing.T) *verification.Request {
	t.Helper()
	aggregate := newTestOrder(t, order.PickupAssigned, nil)
	request, err := verification.NewRequest(
		kernel.NewUUID(), aggregate.ID(),
		aggregate.Items(), proposedItems(t), "",
		time.Now().Add(-verification.RequestTTL-time.Hour),
	)
	require.NoError(t, err)
	return request
}

func TestExpireVerificationsCommandHandler_Handle_ClosesExpired(t *testing.T) {
	ctx := t.Context()
	first := expiredRequest(t)
	second := expiredRequest(t)
	cmd := commands.NewExpireVerificationsCommand()

	verificationRepo := new(MockVerificationRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VerificationRepository").Return(verificationRepo).Once(),
		verificationRepo.On("GetAllPendingExpiredBefore", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*verification.Request{first, second}, nil).Once(),
		verificationRepo.On("Update", mock.Anything, first).Return(nil).Once(),
		verificationRepo.On("Update", mock.Anything, second).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishVerificationDecided", mock.Anything, mock.Anything).Return(nil).Twice(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewExpireVerificationsCommandHandler(factory, publisher, discardLogger())
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, verification.StatusRejected, first.Status())
	require.Equal(t, verification.ExpiredReason, first.Reason())
	require.Equal(t, verification.StatusRejected, second.Status())
	verificationRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestExpireVerificationsCommandHandler_Handle_NothingToExpire(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewExpireVerificationsCommand()

	verificationRepo := new(MockVerificationRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VerificationRepository").Return(verificationRepo).Once(),
		verificationRepo.On("GetAllPendingExpiredBefore", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*verification.Request{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	h := commands.NewExpireVerificationsCommandHandler(factory, publisher, discardLogger())
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "PublishVerificationDecided", mock.Anything, mock.Anything)
}
