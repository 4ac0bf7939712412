package repository

import (
	"context"

	"farm-management/internal/model"

	"github.com/google/uuid"
)

// CreateFinancialEntry persists a financial entry.
func (r *Repository) CreateFinancialEntry(ctx context.Context, entry *model.FinancialEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

// GetFinancialEntry fetches an alive financial entry by ID.
func (r *Repository) GetFinancialEntry(ctx context.Context, id uuid.UUID) (*model.FinancialEntry, error) {
	var entry model.FinancialEntry
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// UpdateFinancialEntry applies a partial update to an alive entry. The
// values go through a map so a uuid.Nil LotID can write SQL NULL and
// clear the lot link.
func (r *Repository) UpdateFinancialEntry(ctx context.Context, id uuid.UUID, update *model.FinancialEntryUpdate) error {
	values := map[string]any{}
	if update.FarmID != nil {
		values["farm_id"] = *update.FarmID
	}
	if update.LotID != nil {
		if *update.LotID == uuid.Nil {
			values["lot_id"] = nil
		} else {
			values["lot_id"] = *update.LotID
		}
	}
	if update.Date != nil {
		values["date"] = *update.Date
	}
	if update.EntryType != nil {
		values["entry_type"] = *update.EntryType
	}
	if update.Category != nil {
		values["category"] = *update.Category
	}
	if update.Amount != nil {
		values["amount"] = *update.Amount
	}
	if update.Notes != nil {
		values["notes"] = *update.Notes
	}
	if len(values) == 0 {
		return r.requireAlive(ctx, &model.FinancialEntry{}, id)
	}

	res := alive(r.db.WithContext(ctx).Model(&model.FinancialEntry{})).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.FinancialEntry{}, id)
	}
	return nil
}

// ListFinancialEntries returns alive entries within the authorized scope,
// newest first.
func (r *Repository) ListFinancialEntries(ctx context.Context, scope []uuid.UUID, filter model.FinancialEntryFilter) ([]model.FinancialEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.FinancialEntry{}).
		Joins("JOIN farms ON farms.id = financial_entries.farm_id AND farms.is_deleted = ?", false).
		Where("financial_entries.is_deleted = ?", false).
		Where("farms.enterprise_id IN ?", scope)
	if filter.FarmID != nil {
		q = q.Where("financial_entries.farm_id = ?", *filter.FarmID)
	}
	if filter.LotID != nil {
		q = q.Where("financial_entries.lot_id = ?", *filter.LotID)
	}
	var entries []model.FinancialEntry
	err := q.Order("financial_entries.date DESC, financial_entries.created_at DESC").Find(&entries).Error
	return entries, err
}
