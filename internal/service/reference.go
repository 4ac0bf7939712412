package service

import (
	"context"

	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
)

// Reference serves the breeding type and species catalogue. The data is
// tenant-independent and readable by any authenticated caller.
type Reference struct {
	repo *repository.Repository
}

// NewReference creates the reference data service.
func NewReference(repo *repository.Repository) *Reference {
	return &Reference{repo: repo}
}

// ListBreedingTypes returns the catalogue of breeding types.
func (s *Reference) ListBreedingTypes(ctx context.Context) ([]model.BreedingType, error) {
	return s.repo.ListBreedingTypes(ctx)
}

// ListSpecies returns the catalogue of species.
func (s *Reference) ListSpecies(ctx context.Context) ([]model.Species, error) {
	return s.repo.ListSpecies(ctx)
}

// DeleteSpecies removes a species from the catalogue. Administrative
// path only; fails with a protected-reference error while any unit or
// lot, deleted or not, still points at the species.
func (s *Reference) DeleteSpecies(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSpecies(ctx, id)
}

// DeleteBreedingType removes a breeding type from the catalogue under
// the same protection rule.
func (s *Reference) DeleteBreedingType(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBreedingType(ctx, id)
}
