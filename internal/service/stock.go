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

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ledgerRetries bounds how often a contended balance update is retried
// before the operation is given up as ErrContention.
const ledgerRetries = 3

// Stock manages stock items and the append-only movement ledger.
type Stock struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewStock creates the stock service.
func NewStock(repo *repository.Repository, authz *Authz, logger *zap.Logger) *Stock {
	return &Stock{repo: repo, authz: authz, logger: logger}
}

// StockItemInput carries the fields of a stock item create request.
type StockItemInput struct {
	FarmID         uuid.UUID
	Name           string
	ItemType       model.StockItemType
	Quantity       float64
	Unit           string
	AlertThreshold float64
}

// CreateItem adds a stock item to a farm the caller can write to,
// unique per (farm, name).
func (s *Stock) CreateItem(ctx context.Context, callerID uuid.UUID, in StockItemInput) (*model.StockItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	switch in.ItemType {
	case model.StockFeed, model.StockMed, model.StockOther:
	default:
		return nil, fmt.Errorf("%w: item_type must be feed, med or other", e.ErrInvalidInput)
	}
	if in.Quantity < 0 || in.AlertThreshold < 0 {
		return nil, fmt.Errorf("%w: quantity and alert_threshold cannot be negative", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindFarm, ID: in.FarmID}); err != nil {
		return nil, err
	}

	item := &model.StockItem{
		FarmID:         in.FarmID,
		Name:           strings.TrimSpace(in.Name),
		ItemType:       in.ItemType,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		AlertThreshold: in.AlertThreshold,
	}
	if err := s.repo.CreateStockItem(ctx, item); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, fmt.Errorf("%w: an item with that name already exists on the farm", e.ErrConflict)
		}
		return nil, err
	}
	return item, nil
}

// GetItem fetches a stock item the caller has standing in.
func (s *Stock) GetItem(ctx context.Context, callerID, id uuid.UUID) (*model.StockItem, error) {
	item, err := s.repo.GetStockItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.readScoped(ctx, callerID, repository.Resource{Kind: repository.KindStockItem, ID: id}); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns stock items within the caller's authorized
// enterprises.
func (s *Stock) ListItems(ctx context.Context, callerID uuid.UUID, filter model.StockItemFilter) ([]model.StockItem, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.StockItem{}, nil
	}
	return s.repo.ListStockItems(ctx, scope, filter)
}

// UpdateItem modifies a stock item's descriptive fields. The quantity is
// off limits here: only the ledger mutates it.
func (s *Stock) UpdateItem(ctx context.Context, callerID, id uuid.UUID, update *model.StockItemUpdate) (*model.StockItem, error) {
	if _, err := s.repo.GetStockItem(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindStockItem, ID: id}); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
	}
	if update.AlertThreshold != nil && *update.AlertThreshold < 0 {
		return nil, fmt.Errorf("%w: alert_threshold cannot be negative", e.ErrInvalidInput)
	}
	if err := s.repo.UpdateStockItem(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetStockItem(ctx, id)
}

// DeleteItem soft-deletes a stock item. Its movement history is kept.
func (s *Stock) DeleteItem(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetStockItem(ctx, id); err != nil {
		return err
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindStockItem, ID: id}); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.StockItem{}, id)
}

// MovementInput carries the fields of a movement request.
type MovementInput struct {
	StockItemID  uuid.UUID
	MovementType model.MovementType
	Quantity     float64
	Date         time.Time
	LotID        *uuid.UUID
	Reason       string
}

// RecordMovement appends a ledger entry and applies its signed delta to
// the item balance in one transaction. Movements are immutable; a mistake
// is corrected with a compensating movement. The balance may go negative.
func (s *Stock) RecordMovement(ctx context.Context, callerID uuid.UUID, in MovementInput) (*model.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", e.ErrInvalidInput)
	}
	if in.MovementType != model.MovementIn && in.MovementType != model.MovementOut {
		return nil, fmt.Errorf("%w: movement_type must be in or out", e.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	if _, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindStockItem, ID: in.StockItemID}); err != nil {
		return nil, err
	}

	item, err := s.repo.GetStockItem(ctx, in.StockItemID)
	if err != nil {
		return nil, err
	}
	if in.LotID != nil {
		lot, err := s.repo.GetLot(ctx, *in.LotID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown lot", e.ErrInvalidInput)
		}
		unit, err := s.repo.GetUnit(ctx, lot.UnitID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown lot", e.ErrInvalidInput)
		}
		if unit.FarmID != item.FarmID {
			return nil, fmt.Errorf("%w: lot belongs to a different farm", e.ErrInvalidInput)
		}
	}

	movement := &model.StockMovement{
		StockItemID:  in.StockItemID,
		MovementType: in.MovementType,
		Quantity:     in.Quantity,
		Date:         in.Date,
		LotID:        in.LotID,
		Reason:       in.Reason,
	}

	apply := func() error {
		err := s.repo.ApplyMovement(ctx, movement)
		if err == nil {
			return nil
		}
		// Sentinel failures will not heal on retry.
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) ||
			errors.Is(err, e.ErrConflict) || errors.Is(err, e.ErrProtectedReference) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), ledgerRetries), ctx)
	if err := backoff.Retry(apply, policy); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) ||
			errors.Is(err, e.ErrConflict) || errors.Is(err, e.ErrProtectedReference) {
			return nil, err
		}
		s.logger.Warn("ledger update abandoned after retries",
			zap.String("stock_item_id", in.StockItemID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", e.ErrContention, err)
	}
	return movement, nil
}

// ListMovements returns movements within the caller's authorized
// enterprises.
func (s *Stock) ListMovements(ctx context.Context, callerID uuid.UUID, filter model.StockMovementFilter) ([]model.StockMovement, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.StockMovement{}, nil
	}
	return s.repo.ListStockMovements(ctx, scope, filter)
}
