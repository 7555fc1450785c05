package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/ledger"
)

// ReturnLineInput is a requested return line.
type ReturnLineInput struct {
	ItemID      models.ItemID
	ReturnedQty int
	BonusQty    int
}

// ReturnInput is the editable content of a return record.
type ReturnInput struct {
	CustomerName        string
	Date                time.Time
	Lines               []ReturnLineInput
	ReturnInvoiceNumber string
	ImageURL            string
	Notes               string
}

func (in ReturnInput) validate() error {
	if err := validateHeader(in.CustomerName, in.Date, len(in.Lines)); err != nil {
		return err
	}
	totals := make(lineTotals, len(in.Lines))
	for i, line := range in.Lines {
		if err := validateQuantities(i, line.ReturnedQty, line.BonusQty, "returnedQty"); err != nil {
			return err
		}
		if err := totals.add(i, line.ItemID, line.ReturnedQty+line.BonusQty); err != nil {
			return err
		}
	}
	return nil
}

// nextReturnID numbers returns sequentially from 1.
func nextReturnID(records []models.ReturnRecord) int64 {
	var max int64
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// CreateReturn puts every line's returned and bonus units back into stock.
// Returns are not capped by what was sold.
func CreateReturn(ws *models.Workspace, in ReturnInput) (models.ReturnRecord, error) {
	if err := in.validate(); err != nil {
		return models.ReturnRecord{}, err
	}

	current := ledger.New(ws.Inventory)
	lines := make([]models.ReturnLine, 0, len(in.Lines))
	var give ledger.Deltas
	for _, li := range in.Lines {
		item, ok := current.Lookup(li.ItemID)
		if !ok {
			return models.ReturnRecord{}, apperror.NewItemNotFound(int64(li.ItemID))
		}
		lines = append(lines, models.ReturnLine{
			ItemID:      li.ItemID,
			ReturnedQty: li.ReturnedQty,
			BonusQty:    li.BonusQty,
			UnitPrice:   item.UnitPrice,
		})
		give.Add(li.ItemID, li.ReturnedQty+li.BonusQty)
	}

	candidate := current.Clone()
	candidate.Apply(give)
	if err := current.ValidateNonNegative(candidate, give.IDs()); err != nil {
		return models.ReturnRecord{}, err
	}
	if err := current.ValidateCeiling(candidate, give.IDs()); err != nil {
		return models.ReturnRecord{}, err
	}

	record := models.ReturnRecord{
		ID:                  nextReturnID(ws.ReturnHistory),
		CustomerName:        strings.TrimSpace(in.CustomerName),
		Date:                in.Date,
		Lines:               lines,
		ReturnInvoiceNumber: in.ReturnInvoiceNumber,
		ImageURL:            in.ImageURL,
		Notes:               in.Notes,
		Total:               models.ReturnTotal(lines),
	}

	ws.Inventory = candidate.Items()
	ws.ReturnHistory = append(ws.ReturnHistory, record)
	return record, nil
}

// EditReturn undoes the original return, applies the new one and rejects the
// edit if stock already consumed elsewhere would leave an item below zero.
func EditReturn(ws *models.Workspace, id int64, in ReturnInput) (models.ReturnRecord, Result, error) {
	idx := ws.FindReturn(id)
	if idx < 0 {
		return models.ReturnRecord{}, Result{}, apperror.NewNotFound("return record", id)
	}
	if err := in.validate(); err != nil {
		return models.ReturnRecord{}, Result{}, err
	}
	original := ws.ReturnHistory[idx]

	var restore ledger.Deltas
	snapshots := make(map[models.ItemID]decimal.Decimal, len(original.Lines))
	for _, line := range original.Lines {
		restore.Add(line.ItemID, -line.StockQty())
		if _, ok := snapshots[line.ItemID]; !ok {
			snapshots[line.ItemID] = line.UnitPrice
		}
	}

	current := ledger.New(ws.Inventory)
	candidate := current.Clone()
	restoreSkipped := candidate.Apply(restore)

	lines := make([]models.ReturnLine, 0, len(in.Lines))
	var reapply ledger.Deltas
	for _, li := range in.Lines {
		price, inOriginal := snapshots[li.ItemID]
		item, exists := candidate.Lookup(li.ItemID)
		if !exists && !inOriginal {
			return models.ReturnRecord{}, Result{}, apperror.NewItemNotFound(int64(li.ItemID))
		}
		if !inOriginal {
			price = item.UnitPrice
		}
		lines = append(lines, models.ReturnLine{
			ItemID:      li.ItemID,
			ReturnedQty: li.ReturnedQty,
			BonusQty:    li.BonusQty,
			UnitPrice:   price,
		})
		reapply.Add(li.ItemID, li.ReturnedQty+li.BonusQty)
	}

	reapplySkipped := candidate.Apply(reapply)
	touched := append(restore.IDs(), reapply.IDs()...)
	if err := current.ValidateNonNegative(candidate, touched); err != nil {
		return models.ReturnRecord{}, Result{}, err
	}
	if err := current.ValidateCeiling(candidate, reapply.IDs()); err != nil {
		return models.ReturnRecord{}, Result{}, err
	}

	updated := original
	updated.CustomerName = strings.TrimSpace(in.CustomerName)
	updated.Date = in.Date
	updated.Lines = lines
	updated.ReturnInvoiceNumber = in.ReturnInvoiceNumber
	updated.ImageURL = in.ImageURL
	updated.Notes = in.Notes
	updated.Total = models.ReturnTotal(lines)

	ws.Inventory = candidate.Items()
	ws.ReturnHistory[idx] = updated
	return updated, newResult(restoreSkipped, reapplySkipped), nil
}

// DeleteReturn takes the returned units back out of stock. It is rejected
// when those units have since been sold through.
func DeleteReturn(ws *models.Workspace, id int64) (Result, error) {
	idx := ws.FindReturn(id)
	if idx < 0 {
		return Result{}, apperror.NewNotFound("return record", id)
	}

	var undo ledger.Deltas
	for _, line := range ws.ReturnHistory[idx].Lines {
		undo.Add(line.ItemID, -line.StockQty())
	}

	current := ledger.New(ws.Inventory)
	candidate := current.Clone()
	skipped := candidate.Apply(undo)
	if err := current.ValidateNonNegative(candidate, undo.IDs()); err != nil {
		return Result{}, err
	}

	ws.Inventory = candidate.Items()
	ws.ReturnHistory = append(ws.ReturnHistory[:idx], ws.ReturnHistory[idx+1:]...)
	return newResult(skipped), nil
}
