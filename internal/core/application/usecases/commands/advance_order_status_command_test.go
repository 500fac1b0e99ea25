package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceOrderStatusCommand(t *testing.T) {
	t.Run("should normalize legacy status aliases", func(t *testing.T) {
		cases := map[string]order.Status{
			"pending":          order.Created,
			"confirmed":        order.PickupAssigned,
			"picked_up":        order.PickupCompleted,
			"in_progress":      order.ReadyForDelivery,
			"out_for_delivery": order.DeliveryAssigned,
			"delivered":        order.Completed,
			"completed":        order.Completed,
		}

		for raw, expected := range cases {
			cmd, err := commands.NewAdvanceOrderStatusCommand(kernel.NewUUID(), raw)
			require.NoError(t, err, "status %q", raw)
			assert.Equal(t, expected, cmd.Target(), "status %q", raw)
		}
	})

	t.Run("should fail with unknown status", func(t *testing.T) {
		_, err := commands.NewAdvanceOrderStatusCommand(kernel.NewUUID(), "teleported")

		require.Error(t, err)
	})

	t.Run("should fail with empty status", func(t *testing.T) {
		_, err := commands.NewAdvanceOrderStatusCommand(kernel.NewUUID(), "")

		require.Error(t, err)
	})

	t.Run("should fail with invalid order id", func(t *testing.T) {
		var orderID kernel.UUID

		_, err := commands.NewAdvanceOrderStatusCommand(orderID, "delivered")

		require.Error(t, err)
	})
}
