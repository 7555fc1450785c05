package reporting

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository/memory"
)

type fakeSheets struct {
	header []interface{}
	ranges []string
	rows   [][]interface{}
	err    error
}

func (f *fakeSheets) EnsureHeader(_ context.Context, sheet string, header []interface{}) error {
	if f.err != nil {
		return f.err
	}
	if f.header == nil {
		f.header = append([]interface{}{sheet}, header...)
	}
	return nil
}

func (f *fakeSheets) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.ranges = append(f.ranges, sheetRange)
	f.rows = append(f.rows, rows...)
	return nil
}

var base = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func sampleWorkspace() *models.Workspace {
	ws := models.NewWorkspace("u1")
	ws.Inventory = []models.InventoryItem{
		{ID: 1, Name: "Rice", Quantity: 10, UnitPrice: decimal.NewFromInt(5)},
		{ID: 2, Name: "Oil", Quantity: 3, UnitPrice: decimal.RequireFromString("2.5")},
	}
	ws.Invoices = []models.Invoice{{
		ID: 100, CustomerName: "Awa", Date: base,
		Lines: []models.InvoiceLine{{ItemID: 1, OrderedQty: 4, BonusQty: 1, UnitPrice: decimal.NewFromInt(5)}, {ItemID: 9, OrderedQty: 2}},
		Total: decimal.NewFromInt(20),
	}}
	ws.ReturnHistory = []models.ReturnRecord{{
		ID: 1, CustomerName: "Awa", Date: base.Add(time.Hour),
		Lines: []models.ReturnLine{{ItemID: 1, ReturnedQty: 1, BonusQty: 1}},
	}}
	ws.RuinedItems = []models.SpoilageRecord{{ID: 7, ItemID: 2, RuinedQty: 2, UnitPrice: decimal.RequireFromString("2.5"), Date: base.Add(-time.Hour)}}
	return ws
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleWorkspace())

	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 13, summary.TotalStock)
	assert.Equal(t, 6, summary.TotalSold)
	assert.Equal(t, 1, summary.TotalReturned)
	assert.Equal(t, 2, summary.TotalRuined)
	assert.True(t, decimal.RequireFromString("57.5").Equal(summary.StockValue))

	require.Len(t, summary.RecentActivity, 3)
	assert.Equal(t, models.ActivityReturn, summary.RecentActivity[0].Kind)
	assert.Equal(t, models.ActivitySale, summary.RecentActivity[1].Kind)
	assert.Equal(t, models.ActivityRuined, summary.RecentActivity[2].Kind)
	assert.Equal(t, "", summary.RecentActivity[1].Lines[1].Name)
	assert.True(t, decimal.NewFromInt(5).Equal(summary.RecentActivity[2].Total))
}

func TestSummarizeKeepsTwentyMostRecent(t *testing.T) {
	ws := models.NewWorkspace("u1")
	for i := 0; i < 25; i++ {
		ws.Invoices = append(ws.Invoices, models.Invoice{ID: int64(i), Date: base.Add(time.Duration(i) * time.Minute)})
	}

	summary := Summarize(ws)
	require.Len(t, summary.RecentActivity, 20)
	assert.Equal(t, int64(24), summary.RecentActivity[0].ID)
	assert.Equal(t, int64(5), summary.RecentActivity[19].ID)
}

func TestInventoryRows(t *testing.T) {
	rows := InventoryRows(sampleWorkspace(), base)

	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"2026-04-10", "u1", "2", "Oil", 3, "2.5"}, rows[1])
}

func TestExportToSheets(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, sampleWorkspace(), 0))
	require.NoError(t, store.Save(ctx, models.NewWorkspace("u2"), 0))

	sheets := &fakeSheets{}
	svc := NewService(store, sheets, nil)
	svc.now = func() time.Time { return base }

	n, err := svc.ExportToSheets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{inventoryDataRange}, sheets.ranges)
	assert.Equal(t, inventorySheet, sheets.header[0])
	assert.Len(t, sheets.header, 7)

	require.NoError(t, svc.ExportAll(ctx))
	assert.Len(t, sheets.rows, 4)
}

func TestExportToSheetsFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := NewService(store, nil, nil).ExportToSheets(ctx, "u1")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	require.NoError(t, store.Save(ctx, sampleWorkspace(), 0))
	svc := NewService(store, &fakeSheets{err: errors.New("quota exceeded")}, nil)
	_, err = svc.ExportToSheets(ctx, "u1")
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
	assert.Error(t, svc.ExportAll(ctx))
}

func TestWriteInventoryPDF(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, sampleWorkspace(), 0))

	var buf bytes.Buffer
	require.NoError(t, NewService(store, nil, nil).WriteInventoryPDF(ctx, "u1", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
