// Package ledger holds the authoritative per-item quantity table and the
// signed delta arithmetic every log reconciles against.
package ledger

import (
	"fmt"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Ledger indexes inventory items by id while preserving their order.
type Ledger struct {
	items []models.InventoryItem
	index map[models.ItemID]int
}

// New builds a ledger over a copy of items.
func New(items []models.InventoryItem) *Ledger {
	l := &Ledger{
		items: append([]models.InventoryItem{}, items...),
		index: make(map[models.ItemID]int, len(items)),
	}
	for i, item := range l.items {
		l.index[item.ID] = i
	}
	return l
}

// Clone returns an independent copy used as a candidate state.
func (l *Ledger) Clone() *Ledger {
	return New(l.items)
}

// Items returns a copy of the items in ledger order.
func (l *Ledger) Items() []models.InventoryItem {
	return append([]models.InventoryItem{}, l.items...)
}

// Len reports the number of items.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Lookup returns the item with id.
func (l *Ledger) Lookup(id models.ItemID) (models.InventoryItem, bool) {
	i, ok := l.index[id]
	if !ok {
		return models.InventoryItem{}, false
	}
	return l.items[i], true
}

// Has reports whether id is present.
func (l *Ledger) Has(id models.ItemID) bool {
	_, ok := l.index[id]
	return ok
}

// Quantity returns the current quantity of id; zero when absent.
func (l *Ledger) Quantity(id models.ItemID) int {
	if i, ok := l.index[id]; ok {
		return l.items[i].Quantity
	}
	return 0
}

// Adjust adds delta to the item's quantity. Non-negativity is the caller's
// concern: edits compute a candidate state first and validate it as a whole.
func (l *Ledger) Adjust(id models.ItemID, delta int) error {
	i, ok := l.index[id]
	if !ok {
		return apperror.NewItemNotFound(int64(id))
	}
	l.items[i].Quantity += delta
	return nil
}

// Apply adjusts every present item by its delta and returns the ids that
// were skipped because the item no longer exists.
func (l *Ledger) Apply(deltas Deltas) []models.ItemID {
	var skipped []models.ItemID
	for _, d := range deltas {
		if err := l.Adjust(d.ItemID, d.Qty); err != nil {
			skipped = append(skipped, d.ItemID)
		}
	}
	return skipped
}

// ValidateNonNegative gates a candidate state derived from l: it fails with
// InsufficientStock for the first listed item the candidate leaves below
// zero. Available is the item's quantity in l. Absent ids are ignored.
func (l *Ledger) ValidateNonNegative(candidate *Ledger, ids []models.ItemID) error {
	for _, id := range ids {
		after, ok := candidate.Lookup(id)
		if !ok || after.Quantity >= 0 {
			continue
		}
		available := l.Quantity(id)
		return apperror.NewInsufficientStock(int64(id), available-after.Quantity, available)
	}
	return nil
}

// ValidateCeiling fails with a validation error for the first listed item
// the candidate would raise above models.MaxQuantity. Absent ids are ignored.
func (l *Ledger) ValidateCeiling(candidate *Ledger, ids []models.ItemID) error {
	for _, id := range ids {
		after, ok := candidate.Lookup(id)
		if !ok || after.Quantity <= models.MaxQuantity {
			continue
		}
		return apperror.NewValidation(fmt.Sprintf("stock cannot exceed %d units", models.MaxQuantity)).
			WithDetail("item_id", int64(id)).
			WithDetail("available", l.Quantity(id))
	}
	return nil
}

// Add appends a new item. The id must not be present.
func (l *Ledger) Add(item models.InventoryItem) {
	l.index[item.ID] = len(l.items)
	l.items = append(l.items, item)
}

// Replace overwrites the item with the same id.
func (l *Ledger) Replace(item models.InventoryItem) error {
	i, ok := l.index[item.ID]
	if !ok {
		return apperror.NewItemNotFound(int64(item.ID))
	}
	l.items[i] = item
	return nil
}

// Remove deletes the item with id and reports whether it existed.
func (l *Ledger) Remove(id models.ItemID) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, id)
	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].ID] = j
	}
	return true
}
