package service

import (
	"context"
	"math"
	"sort"
	"time"

	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardService defines the interface for dashboard aggregation.
type DashboardService interface {
	Summary(ctx context.Context, callerID, farmID uuid.UUID, asOf time.Time) (*DashboardSummary, error)
}

// DashboardSummary is the KPI snapshot of one farm at a point in time.
// Production figures cover the trailing 7 days, finance the trailing 30.
type DashboardSummary struct {
	FarmID          uuid.UUID `json:"farm_id"`
	AsOf            time.Time `json:"as_of"`
	TotalLots       int       `json:"total_lots"`
	ActiveLots      int       `json:"active_lots"`
	StartPopulation int       `json:"start_population"`

	Mortality7d        int      `json:"mortality_7d"`
	FeedIntake7dKg     float64  `json:"feed_intake_7d_kg"`
	MilkProduction7dL  float64  `json:"milk_production_7d_l"`
	Eggs7d             int      `json:"eggs_7d"`
	MortalityRatePct   float64  `json:"mortality_rate_percent"`
	EggsPerHenPerDay   float64  `json:"eggs_per_hen_per_day"`
	AvgDailyGainKg     float64  `json:"avg_daily_gain_kg"`
	FeedConversionRate *float64 `json:"feed_conversion_ratio"`

	FarmMargin30d float64      `json:"farm_margin_30d"`
	LotMargins30d []LotMargin  `json:"lot_margins_30d"`
	StockAlerts   []StockAlert `json:"stock_alerts"`
}

// LotMargin is the 30-day signed margin of one lot.
type LotMargin struct {
	LotID   uuid.UUID `json:"lot_id"`
	LotCode string    `json:"lot_code"`
	Margin  float64   `json:"margin"`
}

// StockAlert reports a stock item whose balance fell below its threshold.
type StockAlert struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	AlertThreshold float64   `json:"alert_threshold"`
}

type dashboardService struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewDashboardService creates the dashboard aggregator.
func NewDashboardService(repo *repository.Repository, authz *Authz, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, authz: authz, logger: logger}
}

// Summary computes the farm KPI snapshot. Read access suffices; the
// result is deterministic for a fixed asOf and row set.
func (s *dashboardService) Summary(ctx context.Context, callerID, farmID uuid.UUID, asOf time.Time) (*DashboardSummary, error) {
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindFarm, ID: farmID}); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		FarmID:        farmID,
		AsOf:          asOf,
		LotMargins30d: []LotMargin{},
		StockAlerts:   []StockAlert{},
	}

	lots, err := s.repo.DashboardLots(ctx, farmID)
	if err != nil {
		return nil, err
	}
	summary.TotalLots = len(lots)
	for _, lot := range lots {
		if lot.Status == model.LotActive {
			summary.ActiveLots++
		}
		summary.StartPopulation += lot.InitialCount
	}

	records, err := s.repo.DashboardRecords(ctx, farmID, asOf.AddDate(0, 0, -7), asOf)
	if err != nil {
		return nil, err
	}
	s.aggregateRecords(summary, records)

	entries, err := s.repo.DashboardEntries(ctx, farmID, asOf.AddDate(0, 0, -30), asOf)
	if err != nil {
		return nil, err
	}
	s.aggregateFinance(summary, entries)

	items, err := s.repo.DashboardStockItems(ctx, farmID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Quantity < item.AlertThreshold {
			summary.StockAlerts = append(summary.StockAlerts, StockAlert{
				ID:             item.ID,
				Name:           item.Name,
				Quantity:       item.Quantity,
				Unit:           item.Unit,
				AlertThreshold: item.AlertThreshold,
			})
		}
	}

	return summary, nil
}

// aggregateRecords folds the 7-day window into mortality, feed, milk and
// egg totals, then derives the rate KPIs, the average daily gain and the
// feed conversion ratio.
func (s *dashboardService) aggregateRecords(summary *DashboardSummary, records []repository.DashboardRecord) {
	// Records arrive ordered by lot then date, so the first and last row
	// seen per lot are the chronological endpoints of its window.
	type lotWindow struct {
		first, last  repository.DashboardRecord
		count        int
		initialCount int
	}
	windows := map[uuid.UUID]*lotWindow{}
	lotOrder := []uuid.UUID{}

	for _, rec := range records {
		summary.Mortality7d += rec.Mortality
		summary.FeedIntake7dKg += rec.FeedIntakeKg
		summary.MilkProduction7dL += rec.MilkProductionL
		summary.Eggs7d += rec.EggsCount

		w, ok := windows[rec.LotID]
		if !ok {
			w = &lotWindow{first: rec, initialCount: rec.InitialCount}
			windows[rec.LotID] = w
			lotOrder = append(lotOrder, rec.LotID)
		}
		w.last = rec
		w.count++
	}

	if summary.StartPopulation > 0 {
		summary.MortalityRatePct = round2(100 * float64(summary.Mortality7d) / float64(summary.StartPopulation))
		summary.EggsPerHenPerDay = round3(float64(summary.Eggs7d) / float64(summary.StartPopulation*7))
	}

	// Average daily gain over lots with at least two records; lots with a
	// thinner window are excluded, not counted as zero.
	var gainSum float64
	var gainLots int
	var totalWeightGain float64
	for _, lotID := range lotOrder {
		w := windows[lotID]
		if w.count < 2 {
			continue
		}
		gain := w.last.AvgWeightKg - w.first.AvgWeightKg
		days := int(w.last.Date.Sub(w.first.Date).Hours() / 24)
		if days < 1 {
			days = 1
		}
		gainSum += gain / float64(days)
		gainLots++
		if gain > 0 {
			totalWeightGain += gain * float64(w.initialCount)
		}
	}
	if gainLots > 0 {
		summary.AvgDailyGainKg = round3(gainSum / float64(gainLots))
	}
	if totalWeightGain > 0 {
		fcr := round3(summary.FeedIntake7dKg / totalWeightGain)
		summary.FeedConversionRate = &fcr
	}
}

// aggregateFinance folds the 30-day window into the signed farm margin
// and the per-lot margins, sorted by lot code for stable output.
func (s *dashboardService) aggregateFinance(summary *DashboardSummary, entries []repository.DashboardEntry) {
	type lotAcc struct {
		code   string
		margin float64
	}
	perLot := map[uuid.UUID]*lotAcc{}

	var farmMargin float64
	for _, entry := range entries {
		signed := entry.Amount
		if entry.EntryType == model.EntryExpense {
			signed = -signed
		}
		farmMargin += signed

		if entry.LotID == nil {
			continue
		}
		acc, ok := perLot[*entry.LotID]
		if !ok {
			acc = &lotAcc{code: entry.LotCode}
			perLot[*entry.LotID] = acc
		}
		acc.margin += signed
	}
	summary.FarmMargin30d = round2(farmMargin)

	for lotID, acc := range perLot {
		summary.LotMargins30d = append(summary.LotMargins30d, LotMargin{
			LotID:   lotID,
			LotCode: acc.code,
			Margin:  round2(acc.margin),
		})
	}
	sort.Slice(summary.LotMargins30d, func(i, j int) bool {
		return summary.LotMargins30d[i].LotCode < summary.LotMargins30d[j].LotCode
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
