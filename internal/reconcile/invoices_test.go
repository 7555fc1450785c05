package reconcile

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func newWorkspace(items ...models.InventoryItem) *models.Workspace {
	ws := models.NewWorkspace("user-1")
	ws.Inventory = append(ws.Inventory, items...)
	return ws
}

func item(id models.ItemID, name string, qty int, price int64) models.InventoryItem {
	return models.InventoryItem{ID: id, Name: name, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func qtyOf(t *testing.T, ws *models.Workspace, id models.ItemID) int {
	t.Helper()
	for _, it := range ws.Inventory {
		if it.ID == id {
			return it.Quantity
		}
	}
	t.Fatalf("item %d not in inventory", id)
	return 0
}

func invoiceInput(lines ...InvoiceLineInput) InvoiceInput {
	return InvoiceInput{CustomerName: "Amadou", Date: day, Lines: lines}
}

func TestInvoiceLifecycle(t *testing.T) {
	ws := newWorkspace(item(1, "A", 100, 10))

	inv, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 5, BonusQty: 2}), day)
	require.NoError(t, err)
	assert.Equal(t, 93, qtyOf(t, ws, 1))
	assert.True(t, decimal.NewFromInt(50).Equal(inv.Total))

	edited, res, err := EditInvoice(ws, inv.ID, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 10}))
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 90, qtyOf(t, ws, 1))
	assert.True(t, decimal.NewFromInt(100).Equal(edited.Total))
	assert.Equal(t, inv.ID, edited.ID)

	_, err = DeleteInvoice(ws, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, qtyOf(t, ws, 1))
	assert.Empty(t, ws.Invoices)
}

func TestCreateInvoiceRejectsShortage(t *testing.T) {
	ws := newWorkspace(item(1, "A", 5, 10), item(2, "B", 10, 2))
	before := ws.Clone()

	_, err := CreateInvoice(ws, invoiceInput(
		InvoiceLineInput{ItemID: 2, OrderedQty: 3},
		InvoiceLineInput{ItemID: 1, OrderedQty: 4, BonusQty: 2},
	), day)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 5, appErr.Details["available"])
	assert.Equal(t, before, ws)
}

func TestCreateInvoiceAggregatesDuplicateLines(t *testing.T) {
	ws := newWorkspace(item(1, "A", 5, 10))

	_, err := CreateInvoice(ws, invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 3},
		InvoiceLineInput{ItemID: 1, OrderedQty: 3},
	), day)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 5, qtyOf(t, ws, 1))

	_, err = CreateInvoice(ws, invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 2},
		InvoiceLineInput{ItemID: 1, OrderedQty: 3},
	), day)
	require.NoError(t, err)
	assert.Equal(t, 0, qtyOf(t, ws, 1))
}

func TestCreateInvoiceValidation(t *testing.T) {
	tests := []struct {
		name  string
		input InvoiceInput
		code  string
	}{
		{name: "missing customer", input: InvoiceInput{Date: day, Lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: 1}}}, code: apperror.CodeValidation},
		{name: "missing date", input: InvoiceInput{CustomerName: "x", Lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: 1}}}, code: apperror.CodeValidation},
		{name: "no lines", input: InvoiceInput{CustomerName: "x", Date: day}, code: apperror.CodeValidation},
		{name: "zero quantity", input: invoiceInput(InvoiceLineInput{ItemID: 1}), code: apperror.CodeValidation},
		{name: "negative bonus", input: invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 1, BonusQty: -1}), code: apperror.CodeValidation},
		{name: "unknown item", input: invoiceInput(InvoiceLineInput{ItemID: 9, OrderedQty: 1}), code: apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(item(1, "A", 10, 1))
			_, err := CreateInvoice(ws, tt.input, day)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, ws.Invoices)
			assert.Equal(t, 10, qtyOf(t, ws, 1))
		})
	}
}

func TestEditInvoiceBackToOriginalIsIdempotent(t *testing.T) {
	ws := newWorkspace(item(1, "A", 20, 10), item(2, "B", 8, 4))
	in := invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 4, BonusQty: 1},
		InvoiceLineInput{ItemID: 2, OrderedQty: 8},
	)
	inv, err := CreateInvoice(ws, in, day)
	require.NoError(t, err)
	before := ws.Clone()

	_, _, err = EditInvoice(ws, inv.ID, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 1}))
	require.NoError(t, err)
	_, _, err = EditInvoice(ws, inv.ID, in)
	require.NoError(t, err)

	assert.Equal(t, before.Inventory, ws.Inventory)
}

func TestEditInvoiceChecksAgainstRestoredStock(t *testing.T) {
	ws := newWorkspace(item(1, "A", 10, 10))
	inv, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 8}), day)
	require.NoError(t, err)

	// 2 in stock plus 8 restored allows 10 but not 11.
	_, _, err = EditInvoice(ws, inv.ID, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 11}))
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 10, appErr.Details["available"])
	assert.Equal(t, 2, qtyOf(t, ws, 1))
	assert.Equal(t, 8, ws.Invoices[0].Lines[0].OrderedQty)

	_, _, err = EditInvoice(ws, inv.ID, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 10}))
	require.NoError(t, err)
	assert.Equal(t, 0, qtyOf(t, ws, 1))
}

func TestEditInvoiceKeepsPriceSnapshot(t *testing.T) {
	ws := newWorkspace(item(1, "A", 10, 10), item(2, "B", 10, 3))
	inv, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 1}), day)
	require.NoError(t, err)

	ws.Inventory[0].UnitPrice = decimal.NewFromInt(99)

	edited, _, err := EditInvoice(ws, inv.ID, invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 2},
		InvoiceLineInput{ItemID: 2, OrderedQty: 1},
	))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(edited.Lines[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(3).Equal(edited.Lines[1].UnitPrice))
	assert.True(t, decimal.NewFromInt(23).Equal(edited.Total))
}

func TestInvoiceWithDeletedItemIsSkipped(t *testing.T) {
	ws := newWorkspace(item(1, "A", 10, 10), item(2, "B", 10, 3))
	inv, err := CreateInvoice(ws, invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 2},
		InvoiceLineInput{ItemID: 2, OrderedQty: 2},
	), day)
	require.NoError(t, err)
	require.NoError(t, DeleteItem(ws, 2))

	_, res, err := EditInvoice(ws, inv.ID, invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 3},
		InvoiceLineInput{ItemID: 2, OrderedQty: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, []models.ItemID{2}, res.Skipped)
	assert.Equal(t, 7, qtyOf(t, ws, 1))

	res, err = DeleteInvoice(ws, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.ItemID{2}, res.Skipped)
	assert.Equal(t, 10, qtyOf(t, ws, 1))
}

func TestDeleteThenRecreateRestoresLedger(t *testing.T) {
	ws := newWorkspace(item(1, "A", 30, 10), item(2, "B", 30, 2))
	in := invoiceInput(
		InvoiceLineInput{ItemID: 1, OrderedQty: 7, BonusQty: 1},
		InvoiceLineInput{ItemID: 2, OrderedQty: 4},
	)
	inv, err := CreateInvoice(ws, in, day)
	require.NoError(t, err)
	after := append([]models.InventoryItem{}, ws.Inventory...)

	_, err = DeleteInvoice(ws, inv.ID)
	require.NoError(t, err)
	_, err = CreateInvoice(ws, in, day.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, after, ws.Inventory)
}

func TestLedgerMatchesActiveInvoices(t *testing.T) {
	ws := newWorkspace(item(1, "A", 50, 1), item(2, "B", 50, 1))
	initial := map[models.ItemID]int{1: 50, 2: 50}

	a, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 5, BonusQty: 1}), day)
	require.NoError(t, err)
	b, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 2, OrderedQty: 9}, InvoiceLineInput{ItemID: 1, OrderedQty: 2}), day.Add(time.Millisecond))
	require.NoError(t, err)
	_, _, err = EditInvoice(ws, a.ID, invoiceInput(InvoiceLineInput{ItemID: 2, OrderedQty: 3, BonusQty: 3}))
	require.NoError(t, err)
	_, err = CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 60}), day.Add(2*time.Millisecond))
	require.Error(t, err)
	_, err = DeleteInvoice(ws, b.ID)
	require.NoError(t, err)
	_, err = CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 11}), day.Add(3*time.Millisecond))
	require.NoError(t, err)

	consumed := map[models.ItemID]int{}
	for _, inv := range ws.Invoices {
		for _, line := range inv.Lines {
			consumed[line.ItemID] += line.StockQty()
		}
	}
	for id, start := range initial {
		assert.Equal(t, start-consumed[id], qtyOf(t, ws, id), "item %d", id)
	}
}

func TestInvoiceNotFound(t *testing.T) {
	ws := newWorkspace(item(1, "A", 5, 1))

	_, _, err := EditInvoice(ws, 404, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 1}))
	assert.True(t, apperror.IsNotFound(err))

	_, err = DeleteInvoice(ws, 404)
	assert.True(t, apperror.IsNotFound(err))
}

func TestInvoiceQuantityBounds(t *testing.T) {
	tests := []struct {
		name  string
		lines []InvoiceLineInput
		code  string
	}{
		{
			name:  "ordered at int max",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: math.MaxInt64}},
			code:  apperror.CodeValidation,
		},
		{
			name:  "duplicate lines at int max",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: math.MaxInt64}, {ItemID: 1, OrderedQty: math.MaxInt64}},
			code:  apperror.CodeValidation,
		},
		{
			name:  "bonus at int max",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: 1, BonusQty: math.MaxInt64}},
			code:  apperror.CodeValidation,
		},
		{
			name:  "ordered above ceiling",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: models.MaxQuantity + 1}},
			code:  apperror.CodeValidation,
		},
		{
			name:  "lines summing above ceiling",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: models.MaxQuantity}, {ItemID: 1, OrderedQty: 1, BonusQty: 1}},
			code:  apperror.CodeValidation,
		},
		{
			name:  "ordered at ceiling",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: models.MaxQuantity}},
			code:  apperror.CodeInsufficientStock,
		},
		{
			name:  "ordered plus bonus at ceiling",
			lines: []InvoiceLineInput{{ItemID: 1, OrderedQty: models.MaxQuantity - 1, BonusQty: 1}},
			code:  apperror.CodeInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(item(1, "A", 100, 10))
			inv, err := CreateInvoice(ws, invoiceInput(InvoiceLineInput{ItemID: 1, OrderedQty: 2}), day)
			require.NoError(t, err)
			before := ws.Clone()

			_, err = CreateInvoice(ws, invoiceInput(tt.lines...), day)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, before, ws)

			_, _, err = EditInvoice(ws, inv.ID, invoiceInput(tt.lines...))
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, before, ws)
			assert.Equal(t, 98, qtyOf(t, ws, 1))
		})
	}
}
