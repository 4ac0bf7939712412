package service

import (
	"context"
	"testing"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.finance.Create(ctx, env.owner.ID, FinancialEntryInput{
		FarmID: env.farm.ID, Date: day(2026, 4, 1), EntryType: model.EntryRevenue, Category: "sales", Amount: 0,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "amount must be positive")

	_, err = env.finance.Create(ctx, env.owner.ID, FinancialEntryInput{
		FarmID: env.farm.ID, Date: day(2026, 4, 1), EntryType: "transfer", Category: "sales", Amount: 10,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "unknown entry type")
}

func TestCreateEntryLotMustMatchFarm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	farm2, err := env.farms.Create(ctx, env.owner.ID, FarmInput{EnterpriseID: env.ent.ID, Name: "East Farm"})
	require.NoError(t, err)
	lot := env.newLot(t, "LOT-FE", 100)

	_, err = env.finance.Create(ctx, env.owner.ID, FinancialEntryInput{
		FarmID: farm2.ID, LotID: &lot.ID, Date: day(2026, 4, 1),
		EntryType: model.EntryExpense, Category: "feed", Amount: 10,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "lot housed on another farm")
}

// Updating with the zero UUID detaches the entry from its lot, dropping
// it back to farm level.
func TestUpdateEntryClearsLotLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.newLot(t, "LOT-CL", 100)

	entry, err := env.finance.Create(ctx, env.owner.ID, FinancialEntryInput{
		FarmID: env.farm.ID, LotID: &lot.ID, Date: day(2026, 4, 1),
		EntryType: model.EntryExpense, Category: "feed", Amount: 50,
	})
	require.NoError(t, err)
	require.NotNil(t, entry.LotID)

	detach := uuid.Nil
	got, err := env.finance.Update(ctx, env.owner.ID, entry.ID, &model.FinancialEntryUpdate{LotID: &detach})
	require.NoError(t, err)
	assert.Nil(t, got.LotID)

	// The amount survives untouched and the link can be restored.
	assert.InDelta(t, 50, got.Amount, 1e-9)
	got, err = env.finance.Update(ctx, env.owner.ID, entry.ID, &model.FinancialEntryUpdate{LotID: &lot.ID})
	require.NoError(t, err)
	require.NotNil(t, got.LotID)
	assert.Equal(t, lot.ID, *got.LotID)
}
