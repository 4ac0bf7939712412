package repository

import (
	"context"
	"errors"
	"fmt"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceKind names an entity type for ownership resolution. The set is
// closed: every tenant-scoped entity has exactly one resolution path.
type ResourceKind string

const (
	KindEnterprise        ResourceKind = "enterprise"
	KindFarm              ResourceKind = "farm"
	KindUnit              ResourceKind = "unit"
	KindLot               ResourceKind = "lot"
	KindLotDailyRecord    ResourceKind = "lot_daily_record"
	KindHealthEvent       ResourceKind = "health_event"
	KindReproductionEvent ResourceKind = "reproduction_event"
	KindFinancialEntry    ResourceKind = "financial_entry"
	KindStockItem         ResourceKind = "stock_item"
	KindStockMovement     ResourceKind = "stock_movement"
)

// Resource identifies one entity for ownership resolution.
type Resource struct {
	Kind ResourceKind
	ID   uuid.UUID
}

// idRow is the scan target of single-column id lookups. gorm cannot scan
// a column into a bare uuid.UUID, so the value is read through a struct
// field and the query aliases its column to "id".
type idRow struct {
	ID uuid.UUID `gorm:"column:id"`
}

// EnterpriseIDFor walks the fixed parent chain of the resource to its
// owning enterprise. Every hop must be alive; a broken chain yields
// ErrNotFound, which callers surface as forbidden.
func (r *Repository) EnterpriseIDFor(ctx context.Context, res Resource) (uuid.UUID, error) {
	var row idRow
	db := r.db.WithContext(ctx)

	var err error
	switch res.Kind {
	case KindEnterprise:
		err = alive(db.Table("enterprises")).
			Select("enterprises.id AS id").
			Where("enterprises.id = ?", res.ID).
			Take(&row).Error
	case KindFarm:
		err = db.Table("farms").
			Select("farms.enterprise_id AS id").
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("farms.id = ? AND farms.is_deleted = ?", res.ID, false).
			Take(&row).Error
	case KindUnit:
		err = db.Table("units").
			Select("farms.enterprise_id AS id").
			Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("units.id = ? AND units.is_deleted = ?", res.ID, false).
			Take(&row).Error
	case KindLot:
		err = db.Table("lots").
			Select("farms.enterprise_id AS id").
			Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
			Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("lots.id = ? AND lots.is_deleted = ?", res.ID, false).
			Take(&row).Error
	case KindLotDailyRecord:
		err = r.enterpriseViaLot(ctx, "lot_daily_records", res.ID, &row)
	case KindHealthEvent:
		err = r.enterpriseViaLot(ctx, "health_events", res.ID, &row)
	case KindReproductionEvent:
		err = r.enterpriseViaLot(ctx, "reproduction_events", res.ID, &row)
	case KindFinancialEntry:
		err = db.Table("financial_entries").
			Select("farms.enterprise_id AS id").
			Joins("JOIN farms ON farms.id = financial_entries.farm_id AND farms.is_deleted = ?", false).
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("financial_entries.id = ? AND financial_entries.is_deleted = ?", res.ID, false).
			Take(&row).Error
	case KindStockItem:
		err = db.Table("stock_items").
			Select("farms.enterprise_id AS id").
			Joins("JOIN farms ON farms.id = stock_items.farm_id AND farms.is_deleted = ?", false).
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("stock_items.id = ? AND stock_items.is_deleted = ?", res.ID, false).
			Take(&row).Error
	case KindStockMovement:
		err = db.Table("stock_movements").
			Select("farms.enterprise_id AS id").
			Joins("JOIN stock_items ON stock_items.id = stock_movements.stock_item_id AND stock_items.is_deleted = ?", false).
			Joins("JOIN farms ON farms.id = stock_items.farm_id AND farms.is_deleted = ?", false).
			Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
			Where("stock_movements.id = ? AND stock_movements.is_deleted = ?", res.ID, false).
			Take(&row).Error
	default:
		return uuid.Nil, fmt.Errorf("unknown resource kind %q", res.Kind)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, e.ErrNotFound
		}
		return uuid.Nil, err
	}
	return row.ID, nil
}

// enterpriseViaLot resolves lot-child tables (daily records, health and
// reproduction events) through lot → unit → farm → enterprise.
func (r *Repository) enterpriseViaLot(ctx context.Context, table string, id uuid.UUID, dest *idRow) error {
	return r.db.WithContext(ctx).Table(table).
		Select("farms.enterprise_id AS id").
		Joins(fmt.Sprintf("JOIN lots ON lots.id = %s.lot_id AND lots.is_deleted = ?", table), false).
		Joins("JOIN units ON units.id = lots.unit_id AND units.is_deleted = ?", false).
		Joins("JOIN farms ON farms.id = units.farm_id AND farms.is_deleted = ?", false).
		Joins("JOIN enterprises ON enterprises.id = farms.enterprise_id AND enterprises.is_deleted = ?", false).
		Where(fmt.Sprintf("%s.id = ? AND %s.is_deleted = ?", table, table), id, false).
		Take(dest).Error
}

// EnterpriseOwnerID returns the owner of an alive enterprise.
func (r *Repository) EnterpriseOwnerID(ctx context.Context, enterpriseID uuid.UUID) (uuid.UUID, error) {
	var row idRow
	err := alive(r.db.WithContext(ctx).Table("enterprises")).
		Select("owner_id AS id").
		Where("id = ?", enterpriseID).
		Take(&row).Error
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return row.ID, nil
}

// MembershipRoleOf returns the caller's alive membership role in an
// enterprise, or ErrNotFound when no membership exists.
func (r *Repository) MembershipRoleOf(ctx context.Context, userID, enterpriseID uuid.UUID) (model.Role, error) {
	var m model.Membership
	err := alive(r.db.WithContext(ctx)).
		Where("user_id = ? AND enterprise_id = ?", userID, enterpriseID).
		Take(&m).Error
	if err != nil {
		return "", translate(err)
	}
	return m.Role, nil
}

// AuthorizedEnterpriseIDs returns the union of enterprises the user owns
// and enterprises where the user holds an alive membership.
func (r *Repository) AuthorizedEnterpriseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []idRow
	err := alive(r.db.WithContext(ctx).Table("enterprises")).
		Select("enterprises.id AS id").
		Where("enterprises.owner_id = ? OR enterprises.id IN (?)",
			userID,
			r.db.Table("memberships").
				Select("enterprise_id").
				Where("user_id = ? AND is_deleted = ?", userID, false),
		).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}
