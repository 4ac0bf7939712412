package model

import (
	"time"

	"github.com/google/uuid"
)

// Update structs use pointer fields so that partial updates only touch the
// columns the caller provided.

// EnterpriseUpdate covers the mutable Enterprise fields. Ownership never
// changes through the API.
type EnterpriseUpdate struct {
	Name *string
}

// MembershipUpdate covers the mutable Membership fields.
type MembershipUpdate struct {
	Role *Role
}

// FarmUpdate covers the mutable Farm fields.
type FarmUpdate struct {
	Name     *string
	Location *string
}

// UnitUpdate covers the mutable Unit fields.
type UnitUpdate struct {
	FarmID         *uuid.UUID
	BreedingTypeID *uuid.UUID
	SpeciesID      *uuid.UUID
	Name           *string
	Capacity       *int
	Conditions     *string
}

// LotUpdate covers the mutable Lot fields. InitialCount is fixed at
// creation and deliberately absent.
type LotUpdate struct {
	UnitID      *uuid.UUID
	SpeciesID   *uuid.UUID
	Code        *string
	EntryDate   *time.Time
	Status      *LotStatus
	Destination *string
}

// LotDailyRecordUpdate covers the mutable daily record fields.
type LotDailyRecordUpdate struct {
	Date            *time.Time
	Mortality       *int
	FeedIntakeKg    *float64
	MilkProductionL *float64
	EggsCount       *int
	AvgWeightKg     *float64
	Notes           *string
}

// HealthEventUpdate covers the mutable health event fields.
type HealthEventUpdate struct {
	Date         *time.Time
	EventType    *HealthEventType
	Product      *string
	Dose         *string
	Veterinarian *string
	Notes        *string
}

// ReproductionEventUpdate covers the mutable reproduction event fields.
type ReproductionEventUpdate struct {
	Date          *time.Time
	EventType     *string
	GestationDays *int
	BornAlive     *int
	BornDead      *int
	Notes         *string
}

// FinancialEntryUpdate covers the mutable financial entry fields.
// A LotID pointing at uuid.Nil clears the lot link, dropping the entry
// back to farm level; a nil LotID leaves the link untouched.
type FinancialEntryUpdate struct {
	FarmID    *uuid.UUID
	LotID     *uuid.UUID
	Date      *time.Time
	EntryType *EntryType
	Category  *string
	Amount    *float64
	Notes     *string
}

// StockItemUpdate covers the mutable stock item fields. Quantity is absent:
// only the ledger mutates it.
type StockItemUpdate struct {
	Name           *string
	ItemType       *StockItemType
	Unit           *string
	AlertThreshold *float64
}
