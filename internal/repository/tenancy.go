package repository

import (
	"context"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
)

// CreateUser persists a new user account.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetUserByEmail fetches an alive user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := alive(r.db.WithContext(ctx)).Where("email = ?", email).Take(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUser fetches an alive user by ID.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateEnterprise persists a new enterprise.
func (r *Repository) CreateEnterprise(ctx context.Context, enterprise *model.Enterprise) error {
	return translate(r.db.WithContext(ctx).Create(enterprise).Error)
}

// GetEnterprise fetches an alive enterprise by ID.
func (r *Repository) GetEnterprise(ctx context.Context, id uuid.UUID) (*model.Enterprise, error) {
	var ent model.Enterprise
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&ent).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ent, nil
}

// UpdateEnterprise applies a partial update to an alive enterprise.
func (r *Repository) UpdateEnterprise(ctx context.Context, id uuid.UUID, update *model.EnterpriseUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.Enterprise{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.Enterprise{}, id)
	}
	return nil
}

// ListEnterprisesFor returns the enterprises the user owns or belongs to,
// newest first.
func (r *Repository) ListEnterprisesFor(ctx context.Context, userID uuid.UUID) ([]model.Enterprise, error) {
	ids, err := r.AuthorizedEnterpriseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ents []model.Enterprise
	err = alive(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&ents).Error
	return ents, err
}

// CreateMembership persists a membership, failing on a duplicate
// (user, enterprise) pair.
func (r *Repository) CreateMembership(ctx context.Context, m *model.Membership) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

// GetMembership fetches an alive membership by ID.
func (r *Repository) GetMembership(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// UpdateMembership applies a partial update to an alive membership.
func (r *Repository) UpdateMembership(ctx context.Context, id uuid.UUID, update *model.MembershipUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.Membership{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.Membership{}, id)
	}
	return nil
}

// ListMemberships returns the alive memberships of an enterprise.
func (r *Repository) ListMemberships(ctx context.Context, enterpriseID uuid.UUID) ([]model.Membership, error) {
	var ms []model.Membership
	err := alive(r.db.WithContext(ctx)).
		Where("enterprise_id = ?", enterpriseID).
		Order("created_at ASC").
		Find(&ms).Error
	return ms, err
}

// CreateFarm persists a new farm.
func (r *Repository) CreateFarm(ctx context.Context, farm *model.Farm) error {
	return translate(r.db.WithContext(ctx).Create(farm).Error)
}

// GetFarm fetches an alive farm by ID.
func (r *Repository) GetFarm(ctx context.Context, id uuid.UUID) (*model.Farm, error) {
	var farm model.Farm
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&farm).Error
	if err != nil {
		return nil, translate(err)
	}
	return &farm, nil
}

// UpdateFarm applies a partial update to an alive farm.
func (r *Repository) UpdateFarm(ctx context.Context, id uuid.UUID, update *model.FarmUpdate) error {
	res := alive(r.db.WithContext(ctx).Model(&model.Farm{})).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.requireAlive(ctx, &model.Farm{}, id)
	}
	return nil
}

// ListFarms returns alive farms within the authorized enterprise scope,
// ordered by name.
func (r *Repository) ListFarms(ctx context.Context, scope []uuid.UUID, filter model.FarmFilter) ([]model.Farm, error) {
	q := alive(r.db.WithContext(ctx)).Where("enterprise_id IN ?", scope)
	if filter.EnterpriseID != nil {
		q = q.Where("enterprise_id = ?", *filter.EnterpriseID)
	}
	var farms []model.Farm
	err := q.Order("name ASC").Find(&farms).Error
	return farms, err
}

// requireAlive reports ErrNotFound unless an alive row with the ID exists.
func (r *Repository) requireAlive(ctx context.Context, entity any, id uuid.UUID) error {
	var count int64
	if err := alive(r.db.WithContext(ctx).Model(entity)).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return e.ErrNotFound
	}
	return nil
}
