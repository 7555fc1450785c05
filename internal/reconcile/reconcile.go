// Package reconcile applies invoice, return, spoilage and item-maintenance
// operations to a workspace while keeping the ledger consistent.
//
// Every operation validates and computes a candidate ledger first and only
// writes to the workspace once all checks pass, so a failed call leaves the
// workspace untouched. Callers are expected to pass a clone they can discard.
package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Result reports the items a restore or reapply phase skipped because they
// no longer exist in the inventory.
type Result struct {
	Skipped []models.ItemID
}

func newResult(skipped ...[]models.ItemID) Result {
	seen := make(map[models.ItemID]struct{})
	var out []models.ItemID
	for _, ids := range skipped {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Result{Skipped: out}
}

// timestampID derives a record id from now, bumping it while taken.
func timestampID(now time.Time, taken func(int64) bool) int64 {
	id := now.UnixMilli()
	for taken(id) {
		id++
	}
	return id
}

func validateHeader(customerName string, date time.Time, lineCount int) error {
	if strings.TrimSpace(customerName) == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "customerName")
	}
	if date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if lineCount == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "lines")
	}
	return nil
}

func validateQuantities(index int, qty, bonus int, qtyField string) error {
	if qty <= 0 {
		return apperror.NewValidation(qtyField+" must be positive").
			WithDetail("line", index).
			WithDetail("field", qtyField)
	}
	if bonus < 0 {
		return apperror.NewValidation("bonusQty must not be negative").
			WithDetail("line", index).
			WithDetail("field", "bonusQty")
	}
	if qty > models.MaxQuantity {
		return tooLarge(qtyField).WithDetail("line", index)
	}
	if bonus > models.MaxQuantity {
		return tooLarge("bonusQty").WithDetail("line", index)
	}
	return nil
}

// lineTotals sums the stock units requested per item across lines. Each
// line is already bounded, so checking after every add keeps the sum small.
type lineTotals map[models.ItemID]int64

func (t lineTotals) add(index int, id models.ItemID, units int) error {
	t[id] += int64(units)
	if t[id] > models.MaxQuantity {
		return tooLarge("lines").WithDetail("line", index).WithDetail("item_id", int64(id))
	}
	return nil
}

func tooLarge(field string) *apperror.AppError {
	return apperror.NewValidation(fmt.Sprintf("%s must not exceed %d", field, models.MaxQuantity)).
		WithDetail("field", field)
}
