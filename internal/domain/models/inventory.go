package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemID references an InventoryItem. Logs hold the id only and resolve
// names through the ledger.
type ItemID int64

// NewItemID derives an id from the creation timestamp, bumping it until it
// is not taken.
func NewItemID(now time.Time, taken func(ItemID) bool) ItemID {
	id := ItemID(now.UnixMilli())
	for taken != nil && taken(id) {
		id++
	}
	return id
}

// MaxQuantity caps stock levels and every quantity a request may carry, so
// quantity arithmetic stays far from integer overflow.
const MaxQuantity = 1_000_000_000

// InventoryItem is one stock-keeping entry of the ledger.
type InventoryItem struct {
	ID        ItemID          `bson:"id" json:"id"`
	Name      string          `bson:"name" json:"name"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
}

// Value returns quantity × unit price.
func (i InventoryItem) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
