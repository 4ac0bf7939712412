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

func TestCreateUnitSpeciesAgreement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.production.CreateUnit(ctx, env.owner.ID, UnitInput{
		FarmID:         env.farm.ID,
		BreedingTypeID: &env.poultry.ID,
		SpeciesID:      &env.fish.ID,
		Name:           "Mismatched",
		Capacity:       10,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "species outside the breeding type")

	unit, err := env.production.CreateUnit(ctx, env.owner.ID, UnitInput{
		FarmID:         env.farm.ID,
		BreedingTypeID: &env.poultry.ID,
		SpeciesID:      &env.chicken.ID,
		Name:           "House 2",
		Capacity:       500,
	})
	require.NoError(t, err)
	assert.Equal(t, env.farm.ID, unit.FarmID)
}

func TestCreateLotSpeciesAgreement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.production.CreateLot(ctx, env.owner.ID, LotInput{
		UnitID:       env.unit.ID,
		SpeciesID:    env.fish.ID,
		Code:         "LOT-X",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: 50,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	lot := env.newLot(t, "LOT-OK", 50)
	assert.Equal(t, model.LotActive, lot.Status)
}

func TestCreateLotValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.production.CreateLot(ctx, env.owner.ID, LotInput{
		UnitID:       env.unit.ID,
		SpeciesID:    env.chicken.ID,
		Code:         "  ",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: 50,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "blank code")

	_, err = env.production.CreateLot(ctx, env.owner.ID, LotInput{
		UnitID:       env.unit.ID,
		SpeciesID:    env.chicken.ID,
		Code:         "LOT-NEG",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: -1,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "negative initial count")
}

func TestLotWritesRequireWriteRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.production.CreateLot(ctx, env.member.ID, LotInput{
		UnitID:       env.unit.ID,
		SpeciesID:    env.chicken.ID,
		Code:         "LOT-M",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: 10,
	})
	assert.ErrorIs(t, err, e.ErrForbidden)

	lot := env.newLot(t, "LOT-R", 10)
	got, err := env.production.GetLot(ctx, env.member.ID, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.Code, got.Code)
}

func TestCreateLotInDeletedUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.repo.SoftDelete(ctx, &model.Unit{}, env.unit.ID))

	_, err := env.production.CreateLot(ctx, env.owner.ID, LotInput{
		UnitID:       env.unit.ID,
		SpeciesID:    env.chicken.ID,
		Code:         "LOT-D",
		EntryDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: 10,
	})
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestDailyRecordValidationAndUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.newLot(t, "LOT-DR", 100)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.production.CreateDailyRecord(ctx, env.owner.ID, DailyRecordInput{
		LotID: lot.ID, Date: day, Mortality: -1,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "negative mortality")

	_, err = env.production.CreateDailyRecord(ctx, env.owner.ID, DailyRecordInput{
		LotID: lot.ID, Date: day, Mortality: 2, FeedIntakeKg: 12.5, EggsCount: 80,
	})
	require.NoError(t, err)

	_, err = env.production.CreateDailyRecord(ctx, env.owner.ID, DailyRecordInput{
		LotID: lot.ID, Date: day, Mortality: 1,
	})
	assert.ErrorIs(t, err, e.ErrConflict, "one record per lot per day")
}

func TestUpdateLotCrossEnterpriseUnitRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.newLot(t, "LOT-MV", 100)

	// A second tenant with its own unit.
	other, err := env.enterprises.Create(ctx, env.outsider.ID, "Other Enterprise")
	require.NoError(t, err)
	otherFarm, err := env.farms.Create(ctx, env.outsider.ID, FarmInput{EnterpriseID: other.ID, Name: "Far Farm"})
	require.NoError(t, err)
	otherUnit, err := env.production.CreateUnit(ctx, env.outsider.ID, UnitInput{
		FarmID:         otherFarm.ID,
		BreedingTypeID: &env.poultry.ID,
		SpeciesID:      &env.chicken.ID,
		Name:           "Far House",
		Capacity:       100,
	})
	require.NoError(t, err)

	_, err = env.production.UpdateLot(ctx, env.owner.ID, lot.ID, &model.LotUpdate{UnitID: &otherUnit.ID})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestHealthEventTypeValidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.newLot(t, "LOT-HE", 100)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := env.production.CreateHealthEvent(ctx, env.owner.ID, HealthEventInput{
		LotID: lot.ID, Date: day, EventType: "surgery",
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	ev, err := env.production.CreateHealthEvent(ctx, env.owner.ID, HealthEventInput{
		LotID: lot.ID, Date: day, EventType: model.HealthVaccination, Product: "NDV",
	})
	require.NoError(t, err)

	events, err := env.production.ListHealthEvents(ctx, env.member.ID, model.LotEventFilter{LotID: &lot.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
}
