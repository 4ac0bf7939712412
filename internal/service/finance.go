package service

import (
	"context"
	"fmt"
	"time"

	e "farm-management/internal/errors"
	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Finance manages financial entries.
type Finance struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewFinance creates the finance service.
func NewFinance(repo *repository.Repository, authz *Authz, logger *zap.Logger) *Finance {
	return &Finance{repo: repo, authz: authz, logger: logger}
}

// FinancialEntryInput carries the fields of an entry create request.
// Amounts are stored unsigned; EntryType carries the sign.
type FinancialEntryInput struct {
	FarmID    uuid.UUID
	LotID     *uuid.UUID
	Date      time.Time
	EntryType model.EntryType
	Category  string
	Amount    float64
	Notes     string
}

// Create records a financial entry against a farm the caller can write
// to. A linked lot must belong to the same farm.
func (s *Finance) Create(ctx context.Context, callerID uuid.UUID, in FinancialEntryInput) (*model.FinancialEntry, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	if in.EntryType != model.EntryRevenue && in.EntryType != model.EntryExpense {
		return nil, fmt.Errorf("%w: entry_type must be revenue or expense", e.ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindFarm, ID: in.FarmID}); err != nil {
		return nil, err
	}
	if in.LotID != nil {
		if err := s.checkLotFarm(ctx, *in.LotID, in.FarmID); err != nil {
			return nil, err
		}
	}

	entry := &model.FinancialEntry{
		FarmID:    in.FarmID,
		LotID:     in.LotID,
		Date:      in.Date,
		EntryType: in.EntryType,
		Category:  in.Category,
		Amount:    in.Amount,
		Notes:     in.Notes,
	}
	if err := s.repo.CreateFinancialEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get fetches an entry the caller has standing in.
func (s *Finance) Get(ctx context.Context, callerID, id uuid.UUID) (*model.FinancialEntry, error) {
	entry, err := s.repo.GetFinancialEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindFinancialEntry, ID: id}); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns entries within the caller's authorized enterprises.
func (s *Finance) List(ctx context.Context, callerID uuid.UUID, filter model.FinancialEntryFilter) ([]model.FinancialEntry, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.FinancialEntry{}, nil
	}
	return s.repo.ListFinancialEntries(ctx, scope, filter)
}

// Update modifies an entry. Farm moves stay within the enterprise; the
// lot link, when changed, must point at a lot of the effective farm.
func (s *Finance) Update(ctx context.Context, callerID, id uuid.UUID, update *model.FinancialEntryUpdate) (*model.FinancialEntry, error) {
	entry, err := s.repo.GetFinancialEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entID, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindFinancialEntry, ID: id})
	if err != nil {
		return nil, err
	}

	farmID := entry.FarmID
	if update.FarmID != nil && *update.FarmID != entry.FarmID {
		if err := s.requireSameEnterprise(ctx, entID, repository.Resource{Kind: repository.KindFarm, ID: *update.FarmID}); err != nil {
			return nil, err
		}
		farmID = *update.FarmID
	}
	if update.EntryType != nil && *update.EntryType != model.EntryRevenue && *update.EntryType != model.EntryExpense {
		return nil, fmt.Errorf("%w: entry_type must be revenue or expense", e.ErrInvalidInput)
	}
	if update.Amount != nil && *update.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", e.ErrInvalidInput)
	}
	// A uuid.Nil lot clears the link; anything else must live on the
	// effective farm.
	lotID := entry.LotID
	if update.LotID != nil {
		if *update.LotID == uuid.Nil {
			lotID = nil
		} else {
			lotID = update.LotID
		}
	}
	if lotID != nil && (update.LotID != nil || update.FarmID != nil) {
		if err := s.checkLotFarm(ctx, *lotID, farmID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateFinancialEntry(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetFinancialEntry(ctx, id)
}

// Delete soft-deletes an entry.
func (s *Finance) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetFinancialEntry(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindFinancialEntry, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.FinancialEntry{}, id)
}

// checkLotFarm verifies that a linked lot is alive and housed in a unit
// of the given farm.
func (s *Finance) checkLotFarm(ctx context.Context, lotID, farmID uuid.UUID) error {
	lot, err := s.repo.GetLot(ctx, lotID)
	if err != nil {
		return fmt.Errorf("%w: unknown lot", e.ErrInvalidInput)
	}
	unit, err := s.repo.GetUnit(ctx, lot.UnitID)
	if err != nil {
		return fmt.Errorf("%w: unknown lot", e.ErrInvalidInput)
	}
	if unit.FarmID != farmID {
		return fmt.Errorf("%w: lot belongs to a different farm", e.ErrInvalidInput)
	}
	return nil
}

// requireSameEnterprise mirrors the production service check for farm
// reassignment on entries.
func (s *Finance) requireSameEnterprise(ctx context.Context, entID uuid.UUID, res repository.Resource) error {
	otherID, err := s.authz.ResolveEnterprise(ctx, res)
	if err != nil {
		return err
	}
	if otherID != entID {
		return fmt.Errorf("%w: referenced %s belongs to a different enterprise", e.ErrInvalidInput, res.Kind)
	}
	return nil
}
