package ledger

import "github.com/mamadbah2/stockbook/internal/domain/models"

// Delta is a signed quantity change for one item.
type Delta struct {
	ItemID models.ItemID
	Qty    int
}

// Deltas aggregates changes per item, keeping first-seen order so errors are
// reported deterministically.
type Deltas []Delta

// Add accumulates qty onto the entry for id.
func (d *Deltas) Add(id models.ItemID, qty int) {
	for i := range *d {
		if (*d)[i].ItemID == id {
			(*d)[i].Qty += qty
			return
		}
	}
	*d = append(*d, Delta{ItemID: id, Qty: qty})
}

// Negate returns the opposite change set.
func (d Deltas) Negate() Deltas {
	out := make(Deltas, len(d))
	for i, delta := range d {
		out[i] = Delta{ItemID: delta.ItemID, Qty: -delta.Qty}
	}
	return out
}

// IDs lists the touched items.
func (d Deltas) IDs() []models.ItemID {
	ids := make([]models.ItemID, len(d))
	for i, delta := range d {
		ids[i] = delta.ItemID
	}
	return ids
}

// Get returns the aggregated change for id.
func (d Deltas) Get(id models.ItemID) int {
	for _, delta := range d {
		if delta.ItemID == id {
			return delta.Qty
		}
	}
	return 0
}
