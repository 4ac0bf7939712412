package repository

import (
	"context"
	"fmt"

	"farm-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lotChildScope builds the scoped alive query shared by the lot-child
// collections (daily records, health and reproduction events).
func (r *Repository) lotChildScope(ctx context.Context, entity any, table string, scope []uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(entity).
		Joins(fmt.Sprintf("JOIN lots ON lots.id = %s.lot_id AND lots.is_deleted = ?", table), false).
		Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
		Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
		Where(fmt.Sprintf("%s.is_deleted = ?", table), false).
		Where("farms.enterprise_id IN ?", scope)
}

// CreateUnit persists a new unit.
func (r *Repository) CreateUnit(ctx context.Context, unit *model.Unit) error {
	return translate(r.db.WithContext(ctx).Create(unit).Error)
}

// GetUnit fetches an alive unit by ID.
func (r *Repository) GetUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&unit).Error
	if err != nil {
		return nil, translate(err)
	}
	return &unit, nil
}

// UpdateUnit applies a partial update to an alive unit.
func (r *Repository) UpdateUnit(ctx context.Context, id uuid.UUID, update *model.UnitUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.Unit{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.Unit{}, id)
	}
	return nil
}

// ListUnits returns alive units within the authorized scope, by name.
func (r *Repository) ListUnits(ctx context.Context, scope []uuid.UUID, filter model.UnitFilter) ([]model.Unit, error) {
	q := r.db.WithContext(ctx).Model(&model.Unit{}).
		Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
		Where("units.is_deleted = ?", false).
		Where("farms.enterprise_id IN ?", scope)
	if filter.FarmID != nil {
		q = q.Where("units.farm_id = ?", *filter.FarmID)
	}
	if filter.SpeciesCode != "" {
		q = q.Joins("JOIN species ON species.id = units.species_id").
			Where("species.code = ?", filter.SpeciesCode)
	}
	var units []model.Unit
	err := q.Order("units.name ASC").Find(&units).Error
	return units, err
}

// CountUnitsForSpecies counts units referencing a species, deleted rows
// included, for the protected-reference check.
func (r *Repository) CountUnitsForSpecies(ctx context.Context, speciesID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Unit{}).
		Where("species_id = ?", speciesID).
		Count(&count).Error
	return count, err
}

// CreateLot persists a new lot, failing on a duplicate (unit, code) pair.
func (r *Repository) CreateLot(ctx context.Context, lot *model.Lot) error {
	return translate(r.db.WithContext(ctx).Create(lot).Error)
}

// GetLot fetches an alive lot by ID.
func (r *Repository) GetLot(ctx context.Context, id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&lot).Error
	if err != nil {
		return nil, translate(err)
	}
	return &lot, nil
}

// UpdateLot applies a partial update to an alive lot.
func (r *Repository) UpdateLot(ctx context.Context, id uuid.UUID, update *model.LotUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.Lot{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.Lot{}, id)
	}
	return nil
}

// ListLots returns alive lots within the authorized scope, newest first.
func (r *Repository) ListLots(ctx context.Context, scope []uuid.UUID, filter model.LotFilter) ([]model.Lot, error) {
	q := r.db.WithContext(ctx).Model(&model.Lot{}).
		Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
		Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
		Where("lots.is_deleted = ?", false).
		Where("farms.enterprise_id IN ?", scope)
	if filter.UnitID != nil {
		q = q.Where("lots.unit_id = ?", *filter.UnitID)
	}
	if filter.FarmID != nil {
		q = q.Where("units.farm_id = ?", *filter.FarmID)
	}
	if filter.SpeciesCode != "" {
		q = q.Joins("JOIN species ON species.id = lots.species_id").
			Where("species.code = ?", filter.SpeciesCode)
	}
	if filter.Status != "" {
		q = q.Where("lots.status = ?", filter.Status)
	}
	var lots []model.Lot
	err := q.Order("lots.created_at DESC").Find(&lots).Error
	return lots, err
}

// CountLotsForSpecies counts lots referencing a species, deleted rows
// included, for the protected-reference check.
func (r *Repository) CountLotsForSpecies(ctx context.Context, speciesID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lot{}).
		Where("species_id = ?", speciesID).
		Count(&count).Error
	return count, err
}

// CreateDailyRecord persists a daily record, failing on a duplicate
// (lot, date) pair.
func (r *Repository) CreateDailyRecord(ctx context.Context, rec *model.LotDailyRecord) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

// GetDailyRecord fetches an alive daily record by ID.
func (r *Repository) GetDailyRecord(ctx context.Context, id uuid.UUID) (*model.LotDailyRecord, error) {
	var rec model.LotDailyRecord
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// UpdateDailyRecord applies a partial update to an alive daily record.
func (r *Repository) UpdateDailyRecord(ctx context.Context, id uuid.UUID, update *model.LotDailyRecordUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.LotDailyRecord{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.LotDailyRecord{}, id)
	}
	return nil
}

// ListDailyRecords returns alive records within the authorized scope,
// newest first.
func (r *Repository) ListDailyRecords(ctx context.Context, scope []uuid.UUID, filter model.LotDailyRecordFilter) ([]model.LotDailyRecord, error) {
	q := r.lotChildScope(ctx, &model.LotDailyRecord{}, "lot_daily_records", scope)
	if filter.LotID != nil {
		q = q.Where("lot_daily_records.lot_id = ?", *filter.LotID)
	}
	if filter.DateFrom != nil {
		q = q.Where("lot_daily_records.date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("lot_daily_records.date <= ?", *filter.DateTo)
	}
	var recs []model.LotDailyRecord
	err := q.Order("lot_daily_records.date DESC").Find(&recs).Error
	return recs, err
}

// CreateHealthEvent persists a health event.
func (r *Repository) CreateHealthEvent(ctx context.Context, ev *model.HealthEvent) error {
	return translate(r.db.WithContext(ctx).Create(ev).Error)
}

// GetHealthEvent fetches an alive health event by ID.
func (r *Repository) GetHealthEvent(ctx context.Context, id uuid.UUID) (*model.HealthEvent, error) {
	var ev model.HealthEvent
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&ev).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

// UpdateHealthEvent applies a partial update to an alive health event.
func (r *Repository) UpdateHealthEvent(ctx context.Context, id uuid.UUID, update *model.HealthEventUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.HealthEvent{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.HealthEvent{}, id)
	}
	return nil
}

// ListHealthEvents returns alive health events within the authorized
// scope, newest first.
func (r *Repository) ListHealthEvents(ctx context.Context, scope []uuid.UUID, filter model.LotEventFilter) ([]model.HealthEvent, error) {
	q := r.lotChildScope(ctx, &model.HealthEvent{}, "health_events", scope)
	if filter.LotID != nil {
		q = q.Where("health_events.lot_id = ?", *filter.LotID)
	}
	var evs []model.HealthEvent
	err := q.Order("health_events.date DESC").Find(&evs).Error
	return evs, err
}

// CreateReproductionEvent persists a reproduction event.
func (r *Repository) CreateReproductionEvent(ctx context.Context, ev *model.ReproductionEvent) error {
	return translate(r.db.WithContext(ctx).Create(ev).Error)
}

// GetReproductionEvent fetches an alive reproduction event by ID.
func (r *Repository) GetReproductionEvent(ctx context.Context, id uuid.UUID) (*model.ReproductionEvent, error) {
	var ev model.ReproductionEvent
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&ev).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

// UpdateReproductionEvent applies a partial update to an alive
// reproduction event.
func (r *Repository) UpdateReproductionEvent(ctx context.Context, id uuid.UUID, update *model.ReproductionEventUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.ReproductionEvent{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.ReproductionEvent{}, id)
	}
	return nil
}

// ListReproductionEvents returns alive reproduction events within the
// authorized scope, newest first.
func (r *Repository) ListReproductionEvents(ctx context.Context, scope []uuid.UUID, filter model.LotEventFilter) ([]model.ReproductionEvent, error) {
	q := r.lotChildScope(ctx, &model.ReproductionEvent{}, "reproduction_events", scope)
	if filter.LotID != nil {
		q = q.Where("reproduction_events.lot_id = ?", *filter.LotID)
	}
	var evs []model.ReproductionEvent
	err := q.Order("reproduction_events.date DESC, reproduction_events.created_at DESC").Find(&evs).Error
	return evs, err
}
