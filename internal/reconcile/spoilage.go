package reconcile

import (
	"time"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/ledger"
)

// SpoilageInput marks units of one item as ruined.
type SpoilageInput struct {
	ItemID   models.ItemID
	Quantity int
}

// RecordSpoilage removes ruined units from stock and accumulates them on the
// item's spoilage record, creating it on first use.
func RecordSpoilage(ws *models.Workspace, in SpoilageInput, now time.Time) (models.SpoilageRecord, error) {
	if in.Quantity <= 0 {
		return models.SpoilageRecord{}, apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	if in.Quantity > models.MaxQuantity {
		return models.SpoilageRecord{}, tooLarge("quantity")
	}

	current := ledger.New(ws.Inventory)
	item, ok := current.Lookup(in.ItemID)
	if !ok {
		return models.SpoilageRecord{}, apperror.NewItemNotFound(int64(in.ItemID))
	}
	if item.Quantity < in.Quantity {
		return models.SpoilageRecord{}, apperror.NewInsufficientStock(int64(in.ItemID), in.Quantity, item.Quantity)
	}
	if err := current.Adjust(in.ItemID, -in.Quantity); err != nil {
		return models.SpoilageRecord{}, err
	}

	var record models.SpoilageRecord
	found := false
	for i := range ws.RuinedItems {
		if ws.RuinedItems[i].ItemID == in.ItemID {
			ws.RuinedItems[i].RuinedQty += in.Quantity
			ws.RuinedItems[i].Date = now
			record = ws.RuinedItems[i]
			found = true
			break
		}
	}
	if !found {
		record = models.SpoilageRecord{
			ID: timestampID(now, func(id int64) bool {
				for _, r := range ws.RuinedItems {
					if r.ID == id {
						return true
					}
				}
				return false
			}),
			ItemID:    in.ItemID,
			RuinedQty: in.Quantity,
			UnitPrice: item.UnitPrice,
			Date:      now,
		}
		ws.RuinedItems = append(ws.RuinedItems, record)
	}

	ws.Inventory = current.Items()
	return record, nil
}
