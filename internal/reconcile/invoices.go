package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/ledger"
)

// InvoiceLineInput is a requested invoice line.
type InvoiceLineInput struct {
	ItemID     models.ItemID
	OrderedQty int
	BonusQty   int
}

// InvoiceInput is the editable content of an invoice.
type InvoiceInput struct {
	CustomerName  string
	Date          time.Time
	Lines         []InvoiceLineInput
	InvoiceNumber string
	ImageURL      string
	Notes         string
}

func (in InvoiceInput) validate() error {
	if err := validateHeader(in.CustomerName, in.Date, len(in.Lines)); err != nil {
		return err
	}
	totals := make(lineTotals, len(in.Lines))
	for i, line := range in.Lines {
		if err := validateQuantities(i, line.OrderedQty, line.BonusQty, "orderedQty"); err != nil {
			return err
		}
		if err := totals.add(i, line.ItemID, line.OrderedQty+line.BonusQty); err != nil {
			return err
		}
	}
	return nil
}

// CreateInvoice takes every line's ordered and bonus units out of stock and
// appends the invoice. Lines for the same item are checked together.
func CreateInvoice(ws *models.Workspace, in InvoiceInput, now time.Time) (models.Invoice, error) {
	if err := in.validate(); err != nil {
		return models.Invoice{}, err
	}

	current := ledger.New(ws.Inventory)
	lines := make([]models.InvoiceLine, 0, len(in.Lines))
	var take ledger.Deltas
	for _, li := range in.Lines {
		item, ok := current.Lookup(li.ItemID)
		if !ok {
			return models.Invoice{}, apperror.NewItemNotFound(int64(li.ItemID))
		}
		lines = append(lines, models.InvoiceLine{
			ItemID:     li.ItemID,
			OrderedQty: li.OrderedQty,
			BonusQty:   li.BonusQty,
			UnitPrice:  item.UnitPrice,
		})
		take.Add(li.ItemID, -(li.OrderedQty + li.BonusQty))
	}

	candidate := current.Clone()
	candidate.Apply(take)
	if err := current.ValidateNonNegative(candidate, take.IDs()); err != nil {
		return models.Invoice{}, err
	}

	invoice := models.Invoice{
		ID: timestampID(now, func(id int64) bool {
			return ws.FindInvoice(id) >= 0
		}),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Date:          in.Date,
		Lines:         lines,
		InvoiceNumber: in.InvoiceNumber,
		ImageURL:      in.ImageURL,
		Notes:         in.Notes,
		Total:         models.InvoiceTotal(lines),
	}

	ws.Inventory = candidate.Items()
	ws.Invoices = append(ws.Invoices, invoice)
	return invoice, nil
}

// EditInvoice replaces an invoice. The original lines are first restored to
// stock, then the new lines are taken from the restored state; the edit is
// rejected as a whole if any item would end below zero.
func EditInvoice(ws *models.Workspace, id int64, in InvoiceInput) (models.Invoice, Result, error) {
	idx := ws.FindInvoice(id)
	if idx < 0 {
		return models.Invoice{}, Result{}, apperror.NewNotFound("invoice", id)
	}
	if err := in.validate(); err != nil {
		return models.Invoice{}, Result{}, err
	}
	original := ws.Invoices[idx]

	var restore ledger.Deltas
	snapshots := make(map[models.ItemID]decimal.Decimal, len(original.Lines))
	for _, line := range original.Lines {
		restore.Add(line.ItemID, line.StockQty())
		if _, ok := snapshots[line.ItemID]; !ok {
			snapshots[line.ItemID] = line.UnitPrice
		}
	}

	restored := ledger.New(ws.Inventory)
	restoreSkipped := restored.Apply(restore)

	lines := make([]models.InvoiceLine, 0, len(in.Lines))
	var reapply ledger.Deltas
	for _, li := range in.Lines {
		price, inOriginal := snapshots[li.ItemID]
		item, exists := restored.Lookup(li.ItemID)
		if !exists && !inOriginal {
			return models.Invoice{}, Result{}, apperror.NewItemNotFound(int64(li.ItemID))
		}
		if !inOriginal {
			price = item.UnitPrice
		}
		lines = append(lines, models.InvoiceLine{
			ItemID:     li.ItemID,
			OrderedQty: li.OrderedQty,
			BonusQty:   li.BonusQty,
			UnitPrice:  price,
		})
		reapply.Add(li.ItemID, -(li.OrderedQty + li.BonusQty))
	}

	final := restored.Clone()
	reapplySkipped := final.Apply(reapply)
	if err := restored.ValidateNonNegative(final, reapply.IDs()); err != nil {
		return models.Invoice{}, Result{}, err
	}

	updated := original
	updated.CustomerName = strings.TrimSpace(in.CustomerName)
	updated.Date = in.Date
	updated.Lines = lines
	updated.InvoiceNumber = in.InvoiceNumber
	updated.ImageURL = in.ImageURL
	updated.Notes = in.Notes
	updated.Total = models.InvoiceTotal(lines)

	ws.Inventory = final.Items()
	ws.Invoices[idx] = updated
	return updated, newResult(restoreSkipped, reapplySkipped), nil
}

// DeleteInvoice puts the invoice's units back into stock and removes it.
func DeleteInvoice(ws *models.Workspace, id int64) (Result, error) {
	idx := ws.FindInvoice(id)
	if idx < 0 {
		return Result{}, apperror.NewNotFound("invoice", id)
	}

	var restore ledger.Deltas
	for _, line := range ws.Invoices[idx].Lines {
		restore.Add(line.ItemID, line.StockQty())
	}

	restored := ledger.New(ws.Inventory)
	skipped := restored.Apply(restore)

	ws.Inventory = restored.Items()
	ws.Invoices = append(ws.Invoices[:idx], ws.Invoices[idx+1:]...)
	return newResult(skipped), nil
}
