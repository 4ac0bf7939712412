package model

import (
	"time"

	"github.com/google/uuid"
)

// Filter structs enumerate the optional predicates each collection
// endpoint accepts. Nil fields are ignored.

// FarmFilter narrows farm listings.
type FarmFilter struct {
	EnterpriseID *uuid.UUID
}

// UnitFilter narrows unit listings.
type UnitFilter struct {
	FarmID      *uuid.UUID
	SpeciesCode string
}

// LotFilter narrows lot listings.
type LotFilter struct {
	UnitID      *uuid.UUID
	FarmID      *uuid.UUID
	SpeciesCode string
	Status      LotStatus
}

// LotDailyRecordFilter narrows daily record listings.
type LotDailyRecordFilter struct {
	LotID    *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// LotEventFilter narrows health and reproduction event listings.
type LotEventFilter struct {
	LotID *uuid.UUID
}

// FinancialEntryFilter narrows financial entry listings.
type FinancialEntryFilter struct {
	FarmID *uuid.UUID
	LotID  *uuid.UUID
}

// StockItemFilter narrows stock item listings.
type StockItemFilter struct {
	FarmID *uuid.UUID
}

// StockMovementFilter narrows stock movement listings.
type StockMovementFilter struct {
	StockItemID *uuid.UUID
	FarmID      *uuid.UUID
}
