package service

import (
	"context"
	"testing"
	"time"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *env) newStockItem(t *testing.T, name string, qty, threshold float64) model.StockItem {
	t.Helper()
	item, err := env.stock.CreateItem(context.Background(), env.owner.ID, StockItemInput{
		FarmID:         env.farm.ID,
		Name:           name,
		ItemType:       model.StockFeed,
		Quantity:       qty,
		Unit:           "kg",
		AlertThreshold: threshold,
	})
	require.NoError(t, err)
	return *item
}

func TestRecordMovementUpdatesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newStockItem(t, "Layer feed", 10, 5)
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementOut, Quantity: 3, Date: day,
	})
	require.NoError(t, err)

	got, err := env.stock.GetItem(ctx, env.owner.ID, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7, got.Quantity, 1e-9)

	_, err = env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementOut, Quantity: 5, Date: day,
	})
	require.NoError(t, err)

	got, err = env.stock.GetItem(ctx, env.owner.ID, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2, got.Quantity, 1e-9)
}

func TestRecordMovementValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newStockItem(t, "Vitamins", 10, 2)
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementIn, Quantity: 0, Date: day,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "non-positive quantity")

	_, err = env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: "transfer", Quantity: 1, Date: day,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "unknown movement type")

	_, err = env.stock.RecordMovement(ctx, env.member.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementIn, Quantity: 1, Date: day,
	})
	assert.ErrorIs(t, err, e.ErrForbidden, "members cannot move stock")
}

// A wrong movement is never edited; it is undone with a compensating
// movement in the opposite direction, leaving both in the ledger.
func TestCompensatingMovement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newStockItem(t, "Bedding", 20, 5)
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	_, err := env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementOut, Quantity: 6, Date: day, Reason: "fat finger",
	})
	require.NoError(t, err)
	_, err = env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementIn, Quantity: 6, Date: day, Reason: "correction",
	})
	require.NoError(t, err)

	got, err := env.stock.GetItem(ctx, env.owner.ID, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20, got.Quantity, 1e-9)

	movements, err := env.stock.ListMovements(ctx, env.owner.ID, model.StockMovementFilter{StockItemID: &item.ID})
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestRecordMovementLotMustMatchFarm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newStockItem(t, "Starter feed", 50, 10)
	day := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)

	// A lot on a different farm of the same enterprise.
	farm2, err := env.farms.Create(ctx, env.owner.ID, FarmInput{EnterpriseID: env.ent.ID, Name: "East Farm"})
	require.NoError(t, err)
	unit2, err := env.production.CreateUnit(ctx, env.owner.ID, UnitInput{
		FarmID:         farm2.ID,
		BreedingTypeID: &env.poultry.ID,
		SpeciesID:      &env.chicken.ID,
		Name:           "East House",
		Capacity:       200,
	})
	require.NoError(t, err)
	lot2, err := env.production.CreateLot(ctx, env.owner.ID, LotInput{
		UnitID:       unit2.ID,
		SpeciesID:    env.chicken.ID,
		Code:         "LOT-EAST",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: 100,
	})
	require.NoError(t, err)

	_, err = env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementOut, Quantity: 2, Date: day, LotID: &lot2.ID,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	lot := env.newLot(t, "LOT-WEST", 100)
	_, err = env.stock.RecordMovement(ctx, env.owner.ID, MovementInput{
		StockItemID: item.ID, MovementType: model.MovementOut, Quantity: 2, Date: day, LotID: &lot.ID,
	})
	assert.NoError(t, err)
}

func TestUpdateItemNeverTouchesQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newStockItem(t, "Grit", 30, 5)

	name := "Coarse grit"
	threshold := 8.0
	got, err := env.stock.UpdateItem(ctx, env.owner.ID, item.ID, &model.StockItemUpdate{
		Name: &name, AlertThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, "Coarse grit", got.Name)
	assert.InDelta(t, 30, got.Quantity, 1e-9)
}

func TestDuplicateItemNamePerFarm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newStockItem(t, "Layer feed", 10, 5)

	_, err := env.stock.CreateItem(ctx, env.owner.ID, StockItemInput{
		FarmID: env.farm.ID, Name: "Layer feed", ItemType: model.StockFeed, Quantity: 1, Unit: "kg",
	})
	assert.ErrorIs(t, err, e.ErrConflict)
}
