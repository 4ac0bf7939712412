package repository

import (
	"context"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateStockItem persists a stock item, failing on a duplicate
// (farm, name) pair.
func (r *Repository) CreateStockItem(ctx context.Context, item *model.StockItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// GetStockItem fetches an alive stock item by ID.
func (r *Repository) GetStockItem(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var item model.StockItem
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// UpdateStockItem applies a partial update to an alive stock item. The
// quantity column is never part of the update: only the ledger moves it.
func (r *Repository) UpdateStockItem(ctx context.Context, id uuid.UUID, update *model.StockItemUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.StockItem{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.StockItem{}, id)
	}
	return nil
}

// ListStockItems returns alive stock items within the authorized scope,
// by name.
func (r *Repository) ListStockItems(ctx context.Context, scope []uuid.UUID, filter model.StockItemFilter) ([]model.StockItem, error) {
	q := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Joins("JOIN farms ON farms.id = stock_items.farm_id AND farms.is_deleted = ?", false).
		Where("stock_items.is_deleted = ?", false).
		Where("farms.enterprise_id IN ?", scope)
	if filter.FarmID != nil {
		q = q.Where("stock_items.farm_id = ?", *filter.FarmID)
	}
	var items []model.StockItem
	err := q.Order("stock_items.name ASC").Find(&items).Error
	return items, err
}

// ApplyMovement persists a ledger movement and adjusts the running item
// balance in one unit of work. The balance update is a relative SQL
// increment, so concurrent movements against the same item serialize at
// the row and never lose updates. Balances may go negative; reporting
// surfaces that as an alert rather than the ledger clamping it.
func (r *Repository) ApplyMovement(ctx context.Context, movement *model.StockMovement) error {
	delta := movement.Quantity
	if movement.MovementType == model.MovementOut {
		delta = -delta
	}

	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Create(movement).Error; err != nil {
			return translate(err)
		}
		res := tx.db.Model(&model.StockItem{}).
			Where("id = ? AND is_deleted = ?", movement.StockItemID, false).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

// ListStockMovements returns alive movements within the authorized scope,
// newest first.
func (r *Repository) ListStockMovements(ctx context.Context, scope []uuid.UUID, filter model.StockMovementFilter) ([]model.StockMovement, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Joins("JOIN stock_items ON stock_items.id = stock_movements.stock_item_id AND stock_items.is_deleted = ?", false).
		Joins("JOIN farms ON farms.id = stock_items.farm_id AND farms.is_deleted = ?", false).
		Where("stock_movements.is_deleted = ?", false).
		Where("farms.enterprise_id IN ?", scope)
	if filter.StockItemID != nil {
		q = q.Where("stock_movements.stock_item_id = ?", *filter.StockItemID)
	}
	if filter.FarmID != nil {
		q = q.Where("stock_items.farm_id = ?", *filter.FarmID)
	}
	var movements []model.StockMovement
	err := q.Order("stock_movements.date DESC, stock_movements.created_at DESC").Find(&movements).Error
	return movements, err
}

// GetStockMovement fetches an alive movement by ID.
func (r *Repository) GetStockMovement(ctx context.Context, id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&movement).Error
	if err != nil {
		return nil, translate(err)
	}
	return &movement, nil
}
