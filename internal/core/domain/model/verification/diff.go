package verification

import (
	"dispatch/internal/core/domain/model/order"
)

// ItemChange describes one item that differs between the original and the
// proposed item lists.
type ItemChange struct {
	Name         string
	FromQuantity int
	ToQuantity   int
	FromPrice    float64
	ToPrice      float64
}

// ItemDiff partitions the union of the original and proposed item sets into
// four disjoint buckets keyed by item name. Item names are assumed unique
// per order, an invariant the order aggregate enforces.
type ItemDiff struct {
	Added     []order.Item
	Removed   []order.Item
	Modified  []ItemChange
	Unchanged []order.Item
}

// DiffItems compares the original and proposed item lists by name:
// an item present only in the proposed list is added; present only in the
// original list is removed; present in both with a changed quantity or unit
// price is modified; otherwise unchanged. The four buckets partition the
// union of both item sets with no overlap.
func DiffItems(original []order.Item, proposed []order.Item) ItemDiff {
	originalByName := make(map[string]order.Item, len(original))
	for _, item := range original {
		originalByName[item.Name()] = item
	}
	proposedByName := make(map[string]order.Item, len(proposed))
	for _, item := range proposed {
		proposedByName[item.Name()] = item
	}

	var diff ItemDiff

	for _, item := range proposed {
		before, ok := originalByName[item.Name()]
		if !ok {
			diff.Added = append(diff.Added, item)
			continue
		}
		if before.Quantity() != item.Quantity() || before.UnitPrice() != item.UnitPrice() {
			diff.Modified = append(diff.Modified, ItemChange{
				Name:         item.Name(),
				FromQuantity: before.Quantity(),
				ToQuantity:   item.Quantity(),
				FromPrice:    before.UnitPrice(),
				ToPrice:      item.UnitPrice(),
			})
			continue
		}
		diff.Unchanged = append(diff.Unchanged, item)
	}

	for _, item := range original {
		if _, ok := proposedByName[item.Name()]; !ok {
			diff.Removed = append(diff.Removed, item)
		}
	}

	return diff
}

// PriceChange captures the monetary effect of a proposed edit.
type PriceChange struct {
	// OriginalTotal is the subtotal of the original item list.
	OriginalTotal float64
	// ProposedTotal is the subtotal of the proposed item list.
	ProposedTotal float64
	// Delta is ProposedTotal minus OriginalTotal.
	Delta float64
	// Percentage is Delta relative to OriginalTotal in percent,
	// zero when the original total is zero.
	Percentage float64
}

// ComputePriceChange derives the price delta and percentage between the
// original and proposed item lists.
func ComputePriceChange(original []order.Item, proposed []order.Item) PriceChange {
	originalTotal := order.SubtotalOf(original)
	proposedTotal := order.SubtotalOf(proposed)
	delta := proposedTotal - originalTotal

	var percentage float64
	if originalTotal != 0 {
		percentage = delta / originalTotal * 100
	}

	return PriceChange{
		OriginalTotal: originalTotal,
		ProposedTotal: proposedTotal,
		Delta:         delta,
		Percentage:    percentage,
	}
}
