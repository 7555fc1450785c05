package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/ledger"
)

// ItemInput creates an inventory item.
type ItemInput struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ItemUpdate edits an inventory item. A nil UnitPrice keeps the current price.
type ItemUpdate struct {
	Name      string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// AddItem registers a new stock item with a positive quantity and price.
func AddItem(ws *models.Workspace, in ItemInput, now time.Time) (models.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity <= 0 || !in.UnitPrice.IsPositive() {
		return models.InventoryItem{}, apperror.NewValidation("please provide a valid name, quantity, and price")
	}
	if in.Quantity > models.MaxQuantity {
		return models.InventoryItem{}, tooLarge("quantity")
	}

	current := ledger.New(ws.Inventory)
	item := models.InventoryItem{
		ID:        models.NewItemID(now, current.Has),
		Name:      name,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}
	current.Add(item)

	ws.Inventory = current.Items()
	return item, nil
}

// EditItem overwrites an item's name, quantity and optionally its price.
// This is a manual correction outside the invoice and return lifecycle.
func EditItem(ws *models.Workspace, id models.ItemID, in ItemUpdate) (models.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 {
		return models.InventoryItem{}, apperror.NewValidation("please provide a valid name and quantity")
	}
	if in.Quantity > models.MaxQuantity {
		return models.InventoryItem{}, tooLarge("quantity")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return models.InventoryItem{}, apperror.NewValidation("price must not be negative").WithDetail("field", "unitPrice")
	}

	current := ledger.New(ws.Inventory)
	item, ok := current.Lookup(id)
	if !ok {
		return models.InventoryItem{}, apperror.NewItemNotFound(int64(id))
	}
	item.Name = name
	item.Quantity = in.Quantity
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if err := current.Replace(item); err != nil {
		return models.InventoryItem{}, err
	}

	ws.Inventory = current.Items()
	return item, nil
}

// DeleteItem removes an item. Records referencing it keep their snapshots.
func DeleteItem(ws *models.Workspace, id models.ItemID) error {
	current := ledger.New(ws.Inventory)
	if !current.Remove(id) {
		return apperror.NewItemNotFound(int64(id))
	}
	ws.Inventory = current.Items()
	return nil
}

// Reset empties every collection of the workspace.
func Reset(ws *models.Workspace) {
	ws.Inventory = []models.InventoryItem{}
	ws.Invoices = []models.Invoice{}
	ws.ReturnHistory = []models.ReturnRecord{}
	ws.RuinedItems = []models.SpoilageRecord{}
}
