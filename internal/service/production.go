package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	e "farm-management/internal/errors"
	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Production manages units, lots, daily records and lot events.
type Production struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewProduction creates the production service.
func NewProduction(repo *repository.Repository, authz *Authz, logger *zap.Logger) *Production {
	return &Production{repo: repo, authz: authz, logger: logger}
}

// UnitInput carries the fields of a unit create request.
type UnitInput struct {
	FarmID         uuid.UUID
	BreedingTypeID *uuid.UUID
	SpeciesID      *uuid.UUID
	Name           string
	Capacity       int
	Conditions     string
}

// CreateUnit adds a unit to a farm the caller can write to.
func (s *Production) CreateUnit(ctx context.Context, callerID uuid.UUID, in UnitInput) (*model.Unit, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindFarm, ID: in.FarmID}); err != nil {
		return nil, err
	}
	if err := s.checkUnitSpecies(ctx, in.BreedingTypeID, in.SpeciesID); err != nil {
		return nil, err
	}

	unit := &model.Unit{
		FarmID:         in.FarmID,
		BreedingTypeID: in.BreedingTypeID,
		SpeciesID:      in.SpeciesID,
		Name:           strings.TrimSpace(in.Name),
		Capacity:       in.Capacity,
		Conditions:     in.Conditions,
	}
	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit fetches a unit the caller has standing in.
func (s *Production) GetUnit(ctx context.Context, callerID, id uuid.UUID) (*model.Unit, error) {
	unit, err := s.repo.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindUnit, ID: id}); err != nil {
		return nil, err
	}
	return unit, nil
}

// ListUnits returns units within the caller's authorized enterprises.
func (s *Production) ListUnits(ctx context.Context, callerID uuid.UUID, filter model.UnitFilter) ([]model.Unit, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.Unit{}, nil
	}
	return s.repo.ListUnits(ctx, scope, filter)
}

// UpdateUnit modifies a unit. A farm change must stay within the same
// enterprise.
func (s *Production) UpdateUnit(ctx context.Context, callerID, id uuid.UUID, update *model.UnitUpdate) (*model.Unit, error) {
	unit, err := s.repo.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	entID, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindUnit, ID: id})
	if err != nil {
		return nil, err
	}
	if update.FarmID != nil && *update.FarmID != unit.FarmID {
		if err := s.requireSameEnterprise(ctx, entID, repository.Resource{Kind: repository.KindFarm, ID: *update.FarmID}); err != nil {
			return nil, err
		}
	}
	if update.Capacity != nil && *update.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", e.ErrInvalidInput)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
	}

	breedingTypeID := unit.BreedingTypeID
	if update.BreedingTypeID != nil {
		breedingTypeID = update.BreedingTypeID
	}
	speciesID := unit.SpeciesID
	if update.SpeciesID != nil {
		speciesID = update.SpeciesID
	}
	if err := s.checkUnitSpecies(ctx, breedingTypeID, speciesID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUnit(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetUnit(ctx, id)
}

// DeleteUnit soft-deletes a unit.
func (s *Production) DeleteUnit(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetUnit(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindUnit, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.Unit{}, id)
}

// checkUnitSpecies verifies that a unit's species, when both are set,
// belongs to the unit's breeding type.
func (s *Production) checkUnitSpecies(ctx context.Context, breedingTypeID, speciesID *uuid.UUID) error {
	if breedingTypeID != nil {
		if _, err := s.repo.GetBreedingType(ctx, *breedingTypeID); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return fmt.Errorf("%w: unknown breeding type", e.ErrInvalidInput)
			}
			return err
		}
	}
	if speciesID == nil {
		return nil
	}
	species, err := s.repo.GetSpecies(ctx, *speciesID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return fmt.Errorf("%w: unknown species", e.ErrInvalidInput)
		}
		return err
	}
	if breedingTypeID != nil && species.BreedingTypeID != *breedingTypeID {
		return fmt.Errorf("%w: species %s does not belong to the unit's breeding type", e.ErrInvalidInput, species.Code)
	}
	return nil
}

// requireSameEnterprise asserts that a referenced parent resolves to the
// expected enterprise. Cross-enterprise moves are rejected as invalid
// input rather than forbidden: the caller already proved standing.
func (s *Production) requireSameEnterprise(ctx context.Context, entID uuid.UUID, res repository.Resource) error {
	otherID, err := s.authz.ResolveEnterprise(ctx, res)
	if err != nil {
		return err
	}
	if otherID != entID {
		return fmt.Errorf("%w: referenced %s belongs to a different enterprise", e.ErrInvalidInput, res.Kind)
	}
	return nil
}

// LotInput carries the fields of a lot create request.
type LotInput struct {
	UnitID       uuid.UUID
	SpeciesID    uuid.UUID
	Code         string
	EntryDate    time.Time
	InitialCount int
	Destination  string
}

// CreateLot opens a new lot in a unit the caller can write to. The lot's
// species must agree with the unit's breeding type.
func (s *Production) CreateLot(ctx context.Context, callerID uuid.UUID, in LotInput) (*model.Lot, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, fmt.Errorf("%w: code is required", e.ErrInvalidInput)
	}
	if in.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry_date is required", e.ErrInvalidInput)
	}
	if in.InitialCount < 0 {
		return nil, fmt.Errorf("%w: initial_count cannot be negative", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindUnit, ID: in.UnitID}); err != nil {
		return nil, err
	}

	unit, err := s.repo.GetUnit(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLotSpecies(ctx, unit, in.SpeciesID); err != nil {
		return nil, err
	}

	lot := &model.Lot{
		UnitID:       in.UnitID,
		SpeciesID:    in.SpeciesID,
		Code:         strings.TrimSpace(in.Code),
		EntryDate:    in.EntryDate,
		InitialCount: in.InitialCount,
		Status:       model.LotActive,
		Destination:  in.Destination,
	}
	if err := s.repo.CreateLot(ctx, lot); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, fmt.Errorf("%w: a lot with that code already exists in the unit", e.ErrConflict)
		}
		return nil, err
	}
	return lot, nil
}

// GetLot fetches a lot the caller has standing in.
func (s *Production) GetLot(ctx context.Context, callerID, id uuid.UUID) (*model.Lot, error) {
	lot, err := s.repo.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: id}); err != nil {
		return nil, err
	}
	return lot, nil
}

// ListLots returns lots within the caller's authorized enterprises.
func (s *Production) ListLots(ctx context.Context, callerID uuid.UUID, filter model.LotFilter) ([]model.Lot, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.Lot{}, nil
	}
	return s.repo.ListLots(ctx, scope, filter)
}

// UpdateLot modifies a lot. Unit moves stay within the enterprise and the
// species agreement is re-checked against the effective unit and species.
func (s *Production) UpdateLot(ctx context.Context, callerID, id uuid.UUID, update *model.LotUpdate) (*model.Lot, error) {
	lot, err := s.repo.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}
	entID, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: id})
	if err != nil {
		return nil, err
	}

	unitID := lot.UnitID
	if update.UnitID != nil && *update.UnitID != lot.UnitID {
		if err := s.requireSameEnterprise(ctx, entID, repository.Resource{Kind: repository.KindUnit, ID: *update.UnitID}); err != nil {
			return nil, err
		}
		unitID = *update.UnitID
	}
	speciesID := lot.SpeciesID
	if update.SpeciesID != nil {
		speciesID = *update.SpeciesID
	}
	if update.UnitID != nil || update.SpeciesID != nil {
		unit, err := s.repo.GetUnit(ctx, unitID)
		if err != nil {
			return nil, err
		}
		if err := s.checkLotSpecies(ctx, unit, speciesID); err != nil {
			return nil, err
		}
	}
	if update.Code != nil && strings.TrimSpace(*update.Code) == "" {
		return nil, fmt.Errorf("%w: code cannot be empty", e.ErrInvalidInput)
	}
	if update.Status != nil && *update.Status != model.LotActive && *update.Status != model.LotClosed {
		return nil, fmt.Errorf("%w: status must be active or closed", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateLot(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetLot(ctx, id)
}

// DeleteLot soft-deletes a lot.
func (s *Production) DeleteLot(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetLot(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.Lot{}, id)
}

// checkLotSpecies verifies that a lot's species exists and, when the unit
// declares a breeding type, belongs to it.
func (s *Production) checkLotSpecies(ctx context.Context, unit *model.Unit, speciesID uuid.UUID) error {
	species, err := s.repo.GetSpecies(ctx, speciesID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return fmt.Errorf("%w: unknown species", e.ErrInvalidInput)
		}
		return err
	}
	if unit.BreedingTypeID != nil && species.BreedingTypeID != *unit.BreedingTypeID {
		return fmt.Errorf("%w: species %s does not belong to the unit's breeding type", e.ErrInvalidInput, species.Code)
	}
	return nil
}

// DailyRecordInput carries the fields of a daily record create request.
type DailyRecordInput struct {
	LotID           uuid.UUID
	Date            time.Time
	Mortality       int
	FeedIntakeKg    float64
	MilkProductionL float64
	EggsCount       int
	AvgWeightKg     float64
	Notes           string
}

// CreateDailyRecord appends one day of production figures to a lot,
// unique per (lot, date).
func (s *Production) CreateDailyRecord(ctx context.Context, callerID uuid.UUID, in DailyRecordInput) (*model.LotDailyRecord, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	if in.Mortality < 0 || in.EggsCount < 0 {
		return nil, fmt.Errorf("%w: counts cannot be negative", e.ErrInvalidInput)
	}
	if in.FeedIntakeKg < 0 || in.MilkProductionL < 0 || in.AvgWeightKg < 0 {
		return nil, fmt.Errorf("%w: measurements cannot be negative", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: in.LotID}); err != nil {
		return nil, err
	}

	rec := &model.LotDailyRecord{
		LotID:           in.LotID,
		Date:            in.Date,
		Mortality:       in.Mortality,
		FeedIntakeKg:    in.FeedIntakeKg,
		MilkProductionL: in.MilkProductionL,
		EggsCount:       in.EggsCount,
		AvgWeightKg:     in.AvgWeightKg,
		Notes:           in.Notes,
	}
	if err := s.repo.CreateDailyRecord(ctx, rec); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, fmt.Errorf("%w: a record for that date already exists", e.ErrConflict)
		}
		return nil, err
	}
	return rec, nil
}

// GetDailyRecord fetches a record the caller has standing in.
func (s *Production) GetDailyRecord(ctx context.Context, callerID, id uuid.UUID) (*model.LotDailyRecord, error) {
	rec, err := s.repo.GetDailyRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindLotDailyRecord, ID: id}); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListDailyRecords returns records within the caller's authorized
// enterprises.
func (s *Production) ListDailyRecords(ctx context.Context, callerID uuid.UUID, filter model.LotDailyRecordFilter) ([]model.LotDailyRecord, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.LotDailyRecord{}, nil
	}
	return s.repo.ListDailyRecords(ctx, scope, filter)
}

// UpdateDailyRecord modifies a record. Records never move between lots.
func (s *Production) UpdateDailyRecord(ctx context.Context, callerID, id uuid.UUID, update *model.LotDailyRecordUpdate) (*model.LotDailyRecord, error) {
	if _, err := s.repo.GetDailyRecord(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLotDailyRecord, ID: id}); err != nil {
		return nil, err
	}
	if update.Mortality != nil && *update.Mortality < 0 {
		return nil, fmt.Errorf("%w: mortality cannot be negative", e.ErrInvalidInput)
	}
	if update.EggsCount != nil && *update.EggsCount < 0 {
		return nil, fmt.Errorf("%w: eggs_count cannot be negative", e.ErrInvalidInput)
	}
	if err := s.repo.UpdateDailyRecord(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetDailyRecord(ctx, id)
}

// DeleteDailyRecord soft-deletes a record.
func (s *Production) DeleteDailyRecord(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetDailyRecord(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLotDailyRecord, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.LotDailyRecord{}, id)
}

// HealthEventInput carries the fields of a health event create request.
type HealthEventInput struct {
	LotID        uuid.UUID
	Date         time.Time
	EventType    model.HealthEventType
	Product      string
	Dose         string
	Veterinarian string
	Notes        string
}

// CreateHealthEvent records a vaccination, treatment or disease on a lot.
func (s *Production) CreateHealthEvent(ctx context.Context, callerID uuid.UUID, in HealthEventInput) (*model.HealthEvent, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	switch in.EventType {
	case model.HealthVaccination, model.HealthTreatment, model.HealthDisease:
	default:
		return nil, fmt.Errorf("%w: event_type must be vaccination, treatment or disease", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: in.LotID}); err != nil {
		return nil, err
	}

	ev := &model.HealthEvent{
		LotID:        in.LotID,
		Date:         in.Date,
		EventType:    in.EventType,
		Product:      in.Product,
		Dose:         in.Dose,
		Veterinarian: in.Veterinarian,
		Notes:        in.Notes,
	}
	if err := s.repo.CreateHealthEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// ListHealthEvents returns health events within the caller's authorized
// enterprises.
func (s *Production) ListHealthEvents(ctx context.Context, callerID uuid.UUID, filter model.LotEventFilter) ([]model.HealthEvent, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.HealthEvent{}, nil
	}
	return s.repo.ListHealthEvents(ctx, scope, filter)
}

// UpdateHealthEvent modifies a health event.
func (s *Production) UpdateHealthEvent(ctx context.Context, callerID, id uuid.UUID, update *model.HealthEventUpdate) (*model.HealthEvent, error) {
	if _, err := s.repo.GetHealthEvent(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindHealthEvent, ID: id}); err != nil {
		return nil, err
	}
	if update.EventType != nil {
		switch *update.EventType {
		case model.HealthVaccination, model.HealthTreatment, model.HealthDisease:
		default:
			return nil, fmt.Errorf("%w: event_type must be vaccination, treatment or disease", e.ErrInvalidInput)
		}
	}
	if err := s.repo.UpdateHealthEvent(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetHealthEvent(ctx, id)
}

// DeleteHealthEvent soft-deletes a health event.
func (s *Production) DeleteHealthEvent(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetHealthEvent(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindHealthEvent, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.HealthEvent{}, id)
}

// ReproductionEventInput carries the fields of a reproduction event
// create request.
type ReproductionEventInput struct {
	LotID         uuid.UUID
	Date          time.Time
	EventType     string
	GestationDays int
	BornAlive     int
	BornDead      int
	Notes         string
}

// CreateReproductionEvent records a gestation or birth outcome on a lot.
func (s *Production) CreateReproductionEvent(ctx context.Context, callerID uuid.UUID, in ReproductionEventInput) (*model.ReproductionEvent, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	if strings.TrimSpace(in.EventType) == "" {
		return nil, fmt.Errorf("%w: event_type is required", e.ErrInvalidInput)
	}
	if in.BornAlive < 0 || in.BornDead < 0 || in.GestationDays < 0 {
		return nil, fmt.Errorf("%w: counts cannot be negative", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindLot, ID: in.LotID}); err != nil {
		return nil, err
	}

	ev := &model.ReproductionEvent{
		LotID:         in.LotID,
		Date:          in.Date,
		EventType:     strings.TrimSpace(in.EventType),
		GestationDays: in.GestationDays,
		BornAlive:     in.BornAlive,
		BornDead:      in.BornDead,
		Notes:         in.Notes,
	}
	if err := s.repo.CreateReproductionEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// ListReproductionEvents returns reproduction events within the caller's
// authorized enterprises.
func (s *Production) ListReproductionEvents(ctx context.Context, callerID uuid.UUID, filter model.LotEventFilter) ([]model.ReproductionEvent, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.ReproductionEvent{}, nil
	}
	return s.repo.ListReproductionEvents(ctx, scope, filter)
}

// UpdateReproductionEvent modifies a reproduction event.
func (s *Production) UpdateReproductionEvent(ctx context.Context, callerID, id uuid.UUID, update *model.ReproductionEventUpdate) (*model.ReproductionEvent, error) {
	if _, err := s.repo.GetReproductionEvent(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindReproductionEvent, ID: id}); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateReproductionEvent(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetReproductionEvent(ctx, id)
}

// DeleteReproductionEvent soft-deletes a reproduction event.
func (s *Production) DeleteReproductionEvent(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetReproductionEvent(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindReproductionEvent, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.ReproductionEvent{}, id)
}
