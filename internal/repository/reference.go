package repository

import (
	"context"
	"fmt"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/google/uuid"
)

// ListBreedingTypes returns all breeding types ordered by code. Reference
// data is visible to any authenticated caller.
func (r *Repository) ListBreedingTypes(ctx context.Context) ([]model.BreedingType, error) {
	var bts []model.BreedingType
	err := alive(r.db.WithContext(ctx)).Order("code ASC").Find(&bts).Error
	return bts, err
}

// GetBreedingType fetches an alive breeding type by ID.
func (r *Repository) GetBreedingType(ctx context.Context, id uuid.UUID) (*model.BreedingType, error) {
	var bt model.BreedingType
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&bt).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bt, nil
}

// ListSpecies returns all species ordered by code.
func (r *Repository) ListSpecies(ctx context.Context) ([]model.Species, error) {
	var sps []model.Species
	err := alive(r.db.WithContext(ctx)).Order("code ASC").Find(&sps).Error
	return sps, err
}

// GetSpecies fetches an alive species by ID.
func (r *Repository) GetSpecies(ctx context.Context, id uuid.UUID) (*model.Species, error) {
	var sp model.Species
	err := alive(r.db.WithContext(ctx)).Where("id = ?", id).Take(&sp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sp, nil
}

// DeleteSpecies removes a species through the administrative path. The
// reference is protected while any unit or lot, deleted ones included,
// still points at it.
func (r *Repository) DeleteSpecies(ctx context.Context, id uuid.UUID) error {
	units, err := r.CountUnitsForSpecies(ctx, id)
	if err != nil {
		return err
	}
	lots, err := r.CountLotsForSpecies(ctx, id)
	if err != nil {
		return err
	}
	if units > 0 || lots > 0 {
		return fmt.Errorf("%w: species referenced by %d units and %d lots", e.ErrProtectedReference, units, lots)
	}
	return r.HardDelete(ctx, &model.Species{}, id)
}

// DeleteBreedingType removes a breeding type through the administrative
// path, protected while any species references it.
func (r *Repository) DeleteBreedingType(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Species{}).
		Where("breeding_type_id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: breeding type referenced by %d species", e.ErrProtectedReference, count)
	}
	return r.HardDelete(ctx, &model.BreedingType{}, id)
}
