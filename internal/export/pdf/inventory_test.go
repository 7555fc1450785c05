package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func TestWriteInventory(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Name: "Rice 25kg", Quantity: 4, UnitPrice: decimal.RequireFromString("18.50")},
		{ID: 2, Name: "Crème", Quantity: 0, UnitPrice: decimal.NewFromInt(3)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, "Inventory", items, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderPaginates(t *testing.T) {
	items := make([]models.InventoryItem, 120)
	for i := range items {
		items[i] = models.InventoryItem{ID: models.ItemID(i), Name: fmt.Sprintf("item %d", i), Quantity: i, UnitPrice: decimal.NewFromInt(1)}
	}

	doc := render("Inventory", items, time.Now())
	require.NoError(t, doc.Error())
	assert.Greater(t, doc.PageCount(), 1)
}
