package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one sold item of an invoice. UnitPrice is a snapshot taken
// when the line was created.
type InvoiceLine struct {
	ItemID     ItemID          `bson:"itemId" json:"itemId"`
	OrderedQty int             `bson:"orderedQty" json:"orderedQty"`
	BonusQty   int             `bson:"bonusQty" json:"bonusQty"`
	UnitPrice  decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
}

// StockQty is the number of units the line takes out of stock.
func (l InvoiceLine) StockQty() int {
	return l.OrderedQty + l.BonusQty
}

// Invoice records a sale.
type Invoice struct {
	ID            int64           `bson:"id" json:"id"`
	CustomerName  string          `bson:"customerName" json:"customerName"`
	Date          time.Time       `bson:"date" json:"date"`
	Lines         []InvoiceLine   `bson:"lines" json:"lines"`
	InvoiceNumber string          `bson:"invoiceNumber,omitempty" json:"invoiceNumber,omitempty"`
	ImageURL      string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Notes         string          `bson:"notes,omitempty" json:"notes,omitempty"`
	Total         decimal.Decimal `bson:"total" json:"total"`
}

// InvoiceTotal sums ordered quantity × unit price. Bonus units are free.
func InvoiceTotal(lines []InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.OrderedQty))))
	}
	return total
}
