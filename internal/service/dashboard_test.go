package service

import (
	"context"
	"testing"
	"time"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *env) addRecord(t *testing.T, lotID uuid.UUID, date time.Time, mortality int, feed float64, eggs int, weight float64) *model.LotDailyRecord {
	t.Helper()
	rec, err := env.production.CreateDailyRecord(context.Background(), env.owner.ID, DailyRecordInput{
		LotID:        lotID,
		Date:         date,
		Mortality:    mortality,
		FeedIntakeKg: feed,
		EggsCount:    eggs,
		AvgWeightKg:  weight,
	})
	require.NoError(t, err)
	return rec
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummaryWorkedExample(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asOf := day(2026, 5, 8)

	lotA := env.newLot(t, "LOT-A", 500)
	lotB := env.newLot(t, "LOT-B", 500)

	env.addRecord(t, lotA.ID, day(2026, 5, 2), 2, 60, 850, 1.0)
	env.addRecord(t, lotA.ID, day(2026, 5, 6), 3, 60, 900, 1.2)
	// One record only, so lot B contributes no gain and no conversion.
	env.addRecord(t, lotB.ID, day(2026, 5, 5), 0, 0, 0, 5.0)

	for _, entry := range []FinancialEntryInput{
		{FarmID: env.farm.ID, LotID: &lotA.ID, Date: day(2026, 4, 20), EntryType: model.EntryRevenue, Category: "egg_sales", Amount: 1000},
		{FarmID: env.farm.ID, LotID: &lotA.ID, Date: day(2026, 4, 25), EntryType: model.EntryExpense, Category: "feed", Amount: 400},
		{FarmID: env.farm.ID, Date: day(2026, 5, 1), EntryType: model.EntryExpense, Category: "utilities", Amount: 50},
		// Older than 30 days, must not count.
		{FarmID: env.farm.ID, LotID: &lotA.ID, Date: day(2026, 4, 1), EntryType: model.EntryRevenue, Category: "egg_sales", Amount: 999},
	} {
		_, err := env.finance.Create(ctx, env.owner.ID, entry)
		require.NoError(t, err)
	}

	env.newStockItem(t, "Layer feed", 2, 5)
	env.newStockItem(t, "Vitamins", 7, 5)

	sum, err := env.dashboard.Summary(ctx, env.owner.ID, env.farm.ID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.TotalLots)
	assert.Equal(t, 2, sum.ActiveLots)
	assert.Equal(t, 1000, sum.StartPopulation)

	assert.Equal(t, 5, sum.Mortality7d)
	assert.InDelta(t, 120, sum.FeedIntake7dKg, 1e-9)
	assert.Equal(t, 1750, sum.Eggs7d)
	assert.InDelta(t, 0.5, sum.MortalityRatePct, 1e-9)
	assert.InDelta(t, 0.25, sum.EggsPerHenPerDay, 1e-9)

	// Lot A: 0.2 kg over 4 days.
	assert.InDelta(t, 0.05, sum.AvgDailyGainKg, 1e-9)
	// 120 kg feed against 500 head gaining 0.2 kg each.
	require.NotNil(t, sum.FeedConversionRate)
	assert.InDelta(t, 1.2, *sum.FeedConversionRate, 1e-9)

	assert.InDelta(t, 550, sum.FarmMargin30d, 1e-9)
	require.Len(t, sum.LotMargins30d, 1)
	assert.Equal(t, "LOT-A", sum.LotMargins30d[0].LotCode)
	assert.InDelta(t, 600, sum.LotMargins30d[0].Margin, 1e-9)

	require.Len(t, sum.StockAlerts, 1)
	assert.Equal(t, "Layer feed", sum.StockAlerts[0].Name)
	assert.InDelta(t, 2, sum.StockAlerts[0].Quantity, 1e-9)
}

// A losing lot drags the average daily gain negative but stays out of
// the conversion denominator, which only counts positive gains.
func TestSummaryMixedGainLots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asOf := day(2026, 5, 8)

	lotUp := env.newLot(t, "LOT-UP", 500)
	lotDown := env.newLot(t, "LOT-DOWN", 300)
	lotGone := env.newLot(t, "LOT-GONE", 200)

	env.addRecord(t, lotUp.ID, day(2026, 5, 2), 0, 60, 0, 1.0)
	env.addRecord(t, lotUp.ID, day(2026, 5, 6), 0, 60, 0, 1.2)
	env.addRecord(t, lotDown.ID, day(2026, 5, 2), 0, 0, 0, 2.0)
	env.addRecord(t, lotDown.ID, day(2026, 5, 6), 0, 0, 0, 1.6)
	env.addRecord(t, lotGone.ID, day(2026, 5, 3), 99, 999, 0, 1.0)
	require.NoError(t, env.repo.SoftDelete(ctx, &model.Lot{}, lotGone.ID))

	sum, err := env.dashboard.Summary(ctx, env.owner.ID, env.farm.ID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.TotalLots)
	assert.Equal(t, 800, sum.StartPopulation)
	assert.Equal(t, 0, sum.Mortality7d, "deleted lot's records do not count")
	assert.InDelta(t, 120, sum.FeedIntake7dKg, 1e-9)

	// (0.05 - 0.1) / 2 across the two surviving lots.
	assert.InDelta(t, -0.025, sum.AvgDailyGainKg, 1e-9)
	// 120 kg feed against the gaining lot alone: 500 head at 0.2 kg.
	require.NotNil(t, sum.FeedConversionRate)
	assert.InDelta(t, 1.2, *sum.FeedConversionRate, 1e-9)
}

func TestSummaryWindowBoundaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asOf := day(2026, 5, 8)
	lot := env.newLot(t, "LOT-W", 100)

	env.addRecord(t, lot.ID, day(2026, 4, 30), 99, 999, 0, 0.5) // before the window
	env.addRecord(t, lot.ID, day(2026, 5, 1), 1, 10, 0, 1.0)    // first day in
	env.addRecord(t, lot.ID, day(2026, 5, 7), 1, 10, 0, 1.4)    // last day in
	env.addRecord(t, lot.ID, day(2026, 5, 8), 99, 999, 0, 9.0)  // asOf itself is out

	sum, err := env.dashboard.Summary(ctx, env.owner.ID, env.farm.ID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Mortality7d)
	assert.InDelta(t, 20, sum.FeedIntake7dKg, 1e-9)
	// 0.4 kg over 6 days from the in-window records only.
	assert.InDelta(t, 0.067, sum.AvgDailyGainKg, 1e-9)
}

func TestSummaryIgnoresDeletedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asOf := day(2026, 5, 8)
	lot := env.newLot(t, "LOT-D", 100)

	env.addRecord(t, lot.ID, day(2026, 5, 2), 1, 10, 0, 1.0)
	doomed := env.addRecord(t, lot.ID, day(2026, 5, 3), 50, 500, 0, 3.0)
	require.NoError(t, env.repo.SoftDelete(ctx, &model.LotDailyRecord{}, doomed.ID))

	sum, err := env.dashboard.Summary(ctx, env.owner.ID, env.farm.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Mortality7d)
	assert.InDelta(t, 10, sum.FeedIntake7dKg, 1e-9)
}

func TestSummaryEmptyFarm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sum, err := env.dashboard.Summary(ctx, env.member.ID, env.farm.ID, day(2026, 5, 8))
	require.NoError(t, err)

	assert.Equal(t, 0, sum.TotalLots)
	assert.Equal(t, 0, sum.StartPopulation)
	assert.Zero(t, sum.MortalityRatePct)
	assert.Zero(t, sum.EggsPerHenPerDay)
	assert.Zero(t, sum.AvgDailyGainKg)
	assert.Nil(t, sum.FeedConversionRate)
	assert.Empty(t, sum.LotMargins30d)
	assert.Empty(t, sum.StockAlerts)
}

func TestSummaryForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.dashboard.Summary(ctx, env.outsider.ID, env.farm.ID, day(2026, 5, 8))
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = env.dashboard.Summary(ctx, env.owner.ID, uuid.New(), day(2026, 5, 8))
	assert.ErrorIs(t, err, e.ErrForbidden)
}
