package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpoilageRecord accumulates destroyed stock of a single item.
type SpoilageRecord struct {
	ID        int64           `bson:"id" json:"id"`
	ItemID    ItemID          `bson:"itemId" json:"itemId"`
	RuinedQty int             `bson:"ruinedQty" json:"ruinedQty"`
	UnitPrice decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
	Date      time.Time       `bson:"date" json:"date"`
}
