package verification_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, name string, quantity int, unitPrice float64) order.Item {
	t.Helper()
	item, err := order.NewItem(name, quantity, unitPrice)
	require.NoError(t, err)
	return item
}

func namesOf(items []order.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name()
	}
	return names
}

func TestDiffItems(t *testing.T) {
	t.Run("should partition added removed modified with no overlap", func(t *testing.T) {
		original := []order.Item{
			mustItem(t, "A", 1, 100),
			mustItem(t, "B", 2, 100),
		}
		proposed := []order.Item{
			mustItem(t, "B", 3, 100),
			mustItem(t, "C", 1, 100),
		}

		diff := verification.DiffItems(original, proposed)

		assert.Equal(t, []string{"C"}, namesOf(diff.Added))
		assert.Equal(t, []string{"A"}, namesOf(diff.Removed))
		require.Len(t, diff.Modified, 1)
		assert.Equal(t, "B", diff.Modified[0].Name)
		assert.Equal(t, 2, diff.Modified[0].FromQuantity)
		assert.Equal(t, 3, diff.Modified[0].ToQuantity)
		assert.Empty(t, diff.Unchanged)

		// The four buckets partition {A,B,C} exactly.
		union := make(map[string]int)
		for _, name := range namesOf(diff.Added) {
			union[name]++
		}
		for _, name := range namesOf(diff.Removed) {
			union[name]++
		}
		for _, change := range diff.Modified {
			union[change.Name]++
		}
		for _, name := range namesOf(diff.Unchanged) {
			union[name]++
		}
		assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, union)
	})

	t.Run("should detect unit price changes as modified", func(t *testing.T) {
		original := []order.Item{mustItem(t, "A", 1, 100)}
		proposed := []order.Item{mustItem(t, "A", 1, 120)}

		diff := verification.DiffItems(original, proposed)

		require.Len(t, diff.Modified, 1)
		assert.InDelta(t, 100.0, diff.Modified[0].FromPrice, 1e-9)
		assert.InDelta(t, 120.0, diff.Modified[0].ToPrice, 1e-9)
	})

	t.Run("should classify identical lists as unchanged", func(t *testing.T) {
		items := []order.Item{mustItem(t, "A", 1, 100), mustItem(t, "B", 2, 50)}

		diff := verification.DiffItems(items, items)

		assert.Empty(t, diff.Added)
		assert.Empty(t, diff.Removed)
		assert.Empty(t, diff.Modified)
		assert.ElementsMatch(t, []string{"A", "B"}, namesOf(diff.Unchanged))
	})

	t.Run("should treat empty original as all added", func(t *testing.T) {
		proposed := []order.Item{mustItem(t, "A", 1, 100)}

		diff := verification.DiffItems(nil, proposed)

		assert.Equal(t, []string{"A"}, namesOf(diff.Added))
		assert.Empty(t, diff.Removed)
	})
}

func TestComputePriceChange(t *testing.T) {
	t.Run("should compute delta and percentage", func(t *testing.T) {
		original := []order.Item{mustItem(t, "A", 5, 100)}
		proposed := []order.Item{mustItem(t, "A", 5, 130)}

		change := verification.ComputePriceChange(original, proposed)

		assert.InDelta(t, 500.0, change.OriginalTotal, 1e-9)
		assert.InDelta(t, 650.0, change.ProposedTotal, 1e-9)
		assert.InDelta(t, 150.0, change.Delta, 1e-9)
		assert.InDelta(t, 30.0, change.Percentage, 1e-9)
	})

	t.Run("should report zero percentage when original total is zero", func(t *testing.T) {
		proposed := []order.Item{mustItem(t, "A", 1, 100)}

		change := verification.ComputePriceChange(nil, proposed)

		assert.InDelta(t, 100.0, change.Delta, 1e-9)
		assert.InDelta(t, 0.0, change.Percentage, 1e-9)
	})

	t.Run("should report negative delta for cheaper proposal", func(t *testing.T) {
		original := []order.Item{mustItem(t, "A", 2, 100)}
		proposed := []order.Item{mustItem(t, "A", 1, 100)}

		change := verification.ComputePriceChange(original, proposed)

		assert.InDelta(t, -100.0, change.Delta, 1e-9)
		assert.InDelta(t, -50.0, change.Percentage, 1e-9)
	})
}
