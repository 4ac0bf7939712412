package repository

import (
	"context"
	"time"

	"farm-management/internal/model"

	"github.com/google/uuid"
)

// DashboardRecord is a daily record row joined with its lot's fixed
// starting headcount, as consumed by the dashboard aggregator.
type DashboardRecord struct {
	LotID           uuid.UUID `gorm:"column:lot_id"`
	LotCode         string    `gorm:"column:lot_code"`
	Date            time.Time `gorm:"column:date"`
	Mortality       int       `gorm:"column:mortality"`
	FeedIntakeKg    float64   `gorm:"column:feed_intake_kg"`
	MilkProductionL float64   `gorm:"column:milk_production_l"`
	EggsCount       int       `gorm:"column:eggs_count"`
	AvgWeightKg     float64   `gorm:"column:avg_weight_kg"`
	InitialCount    int       `gorm:"column:initial_count"`
}

// DashboardEntry is a financial entry row joined with its optional lot
// code.
type DashboardEntry struct {
	LotID     *uuid.UUID      `gorm:"column:lot_id"`
	LotCode   string          `gorm:"column:lot_code"`
	EntryType model.EntryType `gorm:"column:entry_type"`
	Amount    float64         `gorm:"column:amount"`
}

// DashboardLots returns the alive lots of a farm.
func (r *Repository) DashboardLots(ctx context.Context, farmID uuid.UUID) ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.WithContext(ctx).Model(&model.Lot{}).
		Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
		Where("lots.is_deleted = ?", false).
		Where("units.farm_id = ?", farmID).
		Find(&lots).Error
	return lots, err
}

// DashboardRecords returns the alive daily records of a farm within the
// half-open window [from, to), ordered by lot then date so the aggregator
// can pick each lot's chronological first and last record.
func (r *Repository) DashboardRecords(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]DashboardRecord, error) {
	var rows []DashboardRecord
	err := r.db.WithContext(ctx).Table("lot_daily_records").
		Select("lot_daily_records.lot_id, lots.code AS lot_code, lot_daily_records.date, lot_daily_records.mortality, lot_daily_records.feed_intake_kg, lot_daily_records.milk_production_l, lot_daily_records.eggs_count, lot_daily_records.avg_weight_kg, lots.initial_count").
		Joins("JOIN lots ON lots.id = lot_daily_records.lot_id AND lots.is_deleted = ?", false).
		Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
		Where("lot_daily_records.is_deleted = ?", false).
		Where("units.farm_id = ?", farmID).
		Where("lot_daily_records.date >= ? AND lot_daily_records.date < ?", from, to).
		Order("lot_daily_records.lot_id ASC, lot_daily_records.date ASC").
		Scan(&rows).Error
	return rows, err
}

// DashboardEntries returns the alive financial entries of a farm within
// the half-open window [from, to).
func (r *Repository) DashboardEntries(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]DashboardEntry, error) {
	var rows []DashboardEntry
	err := r.db.WithContext(ctx).Table("financial_entries").
		Select("financial_entries.lot_id, COALESCE(lots.code, '') AS lot_code, financial_entries.entry_type, financial_entries.amount").
		Joins("LEFT JOIN lots ON lots.id = financial_entries.lot_id").
		Where("financial_entries.is_deleted = ?", false).
		Where("financial_entries.farm_id = ?", farmID).
		Where("financial_entries.date >= ? AND financial_entries.date < ?", from, to).
		Order("financial_entries.date ASC, financial_entries.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// DashboardStockItems returns the alive stock items of a farm.
func (r *Repository) DashboardStockItems(ctx context.Context, farmID uuid.UUID) ([]model.StockItem, error) {
	var items []model.StockItem
	err := alive(r.db.WithContext(ctx)).
		Where("farm_id = ?", farmID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}
