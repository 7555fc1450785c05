package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func seed() *Ledger {
	return New([]models.InventoryItem{
		{ID: 1, Name: "flour", Quantity: 10, UnitPrice: decimal.NewFromInt(4)},
		{ID: 2, Name: "sugar", Quantity: 0, UnitPrice: decimal.NewFromInt(3)},
		{ID: 3, Name: "salt", Quantity: 5, UnitPrice: decimal.NewFromInt(1)},
	})
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name    string
		id      models.ItemID
		delta   int
		want    int
		wantErr string
	}{
		{name: "decrease", id: 1, delta: -4, want: 6},
		{name: "increase", id: 2, delta: 7, want: 7},
		{name: "may go negative", id: 3, delta: -6, want: -1},
		{name: "missing item", id: 99, delta: 1, wantErr: apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := seed()
			err := l.Adjust(tt.id, tt.delta)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperror.HasCode(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Quantity(tt.id))
		})
	}
}

func TestApplySkipsMissingItems(t *testing.T) {
	l := seed()
	var d Deltas
	d.Add(1, -2)
	d.Add(42, 5)
	d.Add(1, -1)

	skipped := l.Apply(d)

	assert.Equal(t, []models.ItemID{42}, skipped)
	assert.Equal(t, 7, l.Quantity(1))
}

func TestValidateNonNegative(t *testing.T) {
	base := seed()
	candidate := base.Clone()
	require.NoError(t, candidate.Adjust(3, -8))

	err := base.ValidateNonNegative(candidate, []models.ItemID{1, 3, 99})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 5, appErr.Details["available"])
	assert.Equal(t, 8, appErr.Details["requested"])

	assert.NoError(t, base.ValidateNonNegative(candidate, []models.ItemID{1, 2}))
}

func TestCloneIsIndependent(t *testing.T) {
	l := seed()
	c := l.Clone()
	require.NoError(t, c.Adjust(1, -10))

	assert.Equal(t, 10, l.Quantity(1))
	assert.Equal(t, 0, c.Quantity(1))
}

func TestRemoveReindexes(t *testing.T) {
	l := seed()
	assert.True(t, l.Remove(1))
	assert.False(t, l.Remove(1))

	require.NoError(t, l.Adjust(3, 1))
	item, ok := l.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 2, l.Len())
}

func TestDeltas(t *testing.T) {
	var d Deltas
	d.Add(1, 3)
	d.Add(2, 1)
	d.Add(1, 2)

	assert.Equal(t, Deltas{{ItemID: 1, Qty: 5}, {ItemID: 2, Qty: 1}}, d)
	assert.Equal(t, Deltas{{ItemID: 1, Qty: -5}, {ItemID: 2, Qty: -1}}, d.Negate())
	assert.Equal(t, []models.ItemID{1, 2}, d.IDs())
	assert.Equal(t, 0, d.Get(7))
}

func TestValidateCeiling(t *testing.T) {
	base := seed()
	candidate := base.Clone()
	require.NoError(t, candidate.Adjust(1, models.MaxQuantity))

	err := base.ValidateCeiling(candidate, []models.ItemID{3, 1})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, int64(1), appErr.Details["item_id"])
	assert.Equal(t, 10, appErr.Details["available"])

	assert.NoError(t, base.ValidateCeiling(candidate, []models.ItemID{2, 3, 99}))
}
