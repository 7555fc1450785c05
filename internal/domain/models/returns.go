package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnLine is one item brought back by a customer.
type ReturnLine struct {
	ItemID      ItemID          `bson:"itemId" json:"itemId"`
	ReturnedQty int             `bson:"returnedQty" json:"returnedQty"`
	BonusQty    int             `bson:"bonusQty" json:"bonusQty"`
	UnitPrice   decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
}

// StockQty is the number of units the line puts back into stock.
func (l ReturnLine) StockQty() int {
	return l.ReturnedQty + l.BonusQty
}

// ReturnRecord records a customer return.
type ReturnRecord struct {
	ID                  int64           `bson:"id" json:"id"`
	CustomerName        string          `bson:"customerName" json:"customerName"`
	Date                time.Time       `bson:"date" json:"date"`
	Lines               []ReturnLine    `bson:"lines" json:"lines"`
	ReturnInvoiceNumber string          `bson:"returnInvoiceNumber,omitempty" json:"returnInvoiceNumber,omitempty"`
	ImageURL            string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Notes               string          `bson:"notes,omitempty" json:"notes,omitempty"`
	Total               decimal.Decimal `bson:"total" json:"total"`
}

// ReturnTotal sums returned quantity × unit price.
func ReturnTotal(lines []ReturnLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.ReturnedQty))))
	}
	return total
}
