package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the fields shared by every persisted entity. Soft delete is
// tracked with explicit columns instead of gorm.DeletedAt so that callers
// always choose between the alive view and the full view.
type Base struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Role is the position a user holds within an enterprise.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// LotStatus tracks whether a lot is still in production.
type LotStatus string

const (
	LotActive LotStatus = "active"
	LotClosed LotStatus = "closed"
)

// HealthEventType classifies health events.
type HealthEventType string

const (
	HealthVaccination HealthEventType = "vaccination"
	HealthTreatment   HealthEventType = "treatment"
	HealthDisease     HealthEventType = "disease"
)

// EntryType is the sign of a financial entry.
type EntryType string

const (
	EntryRevenue EntryType = "revenue"
	EntryExpense EntryType = "expense"
)

// StockItemType classifies stock items.
type StockItemType string

const (
	StockFeed  StockItemType = "feed"
	StockMed   StockItemType = "med"
	StockOther StockItemType = "other"
)

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// User is an authenticated account. Users gain access to enterprise data
// through ownership or memberships, never directly.
type User struct {
	Base
	Email        string `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"not null;size:255" json:"-"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
}

func (User) TableName() string { return "users" }

// Enterprise is the root of a tenant. Every tenant-scoped entity resolves
// to exactly one enterprise through its parent chain.
type Enterprise struct {
	Base
	Name    string    `gorm:"not null;size:255" json:"name"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Owner       User         `gorm:"foreignKey:OwnerID" json:"-"`
	Farms       []Farm       `gorm:"foreignKey:EnterpriseID" json:"farms,omitempty"`
	Memberships []Membership `gorm:"foreignKey:EnterpriseID" json:"memberships,omitempty"`
}

func (Enterprise) TableName() string { return "enterprises" }

// Membership grants a non-owner user a role within an enterprise.
type Membership struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_enterprise" json:"user_id"`
	EnterpriseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_enterprise" json:"enterprise_id"`
	Role         Role      `gorm:"not null;size:10;default:user" json:"role"`

	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Enterprise Enterprise `gorm:"foreignKey:EnterpriseID" json:"-"`
}

func (Membership) TableName() string { return "memberships" }

// Farm belongs to exactly one enterprise.
type Farm struct {
	Base
	EnterpriseID uuid.UUID `gorm:"type:uuid;not null;index" json:"enterprise_id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	Location     string    `gorm:"size:255" json:"location"`

	Enterprise Enterprise  `gorm:"foreignKey:EnterpriseID" json:"-"`
	Units      []Unit      `gorm:"foreignKey:FarmID" json:"units,omitempty"`
	StockItems []StockItem `gorm:"foreignKey:FarmID" json:"stock_items,omitempty"`
}

func (Farm) TableName() string { return "farms" }

// BreedingType is tenant-independent reference data (poultry, cattle, ...).
type BreedingType struct {
	Base
	Code string `gorm:"not null;size:50;uniqueIndex" json:"code"`
	Name string `gorm:"not null;size:100" json:"name"`
}

func (BreedingType) TableName() string { return "breeding_types" }

// Species is tenant-independent reference data, always attached to a
// breeding type. Both are protected against deletion while referenced.
type Species struct {
	Base
	Code           string    `gorm:"not null;size:50;uniqueIndex" json:"code"`
	Name           string    `gorm:"not null;size:100" json:"name"`
	BreedingTypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"breeding_type_id"`

	BreedingType BreedingType `gorm:"foreignKey:BreedingTypeID" json:"-"`
}

func (Species) TableName() string { return "species" }

// Unit is a production building or enclosure within a farm.
type Unit struct {
	Base
	FarmID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"farm_id"`
	BreedingTypeID *uuid.UUID `gorm:"type:uuid;index" json:"breeding_type_id,omitempty"`
	SpeciesID      *uuid.UUID `gorm:"type:uuid;index" json:"species_id,omitempty"`
	Name           string     `gorm:"not null;size:255" json:"name"`
	Capacity       int        `gorm:"not null;check:capacity >= 0" json:"capacity"`
	Conditions     string     `gorm:"type:text" json:"conditions,omitempty"`

	Farm         Farm          `gorm:"foreignKey:FarmID" json:"-"`
	BreedingType *BreedingType `gorm:"foreignKey:BreedingTypeID" json:"-"`
	Species      *Species      `gorm:"foreignKey:SpeciesID" json:"-"`
	Lots         []Lot         `gorm:"foreignKey:UnitID" json:"lots,omitempty"`
}

func (Unit) TableName() string { return "units" }

// Lot is a cohort of animals tracked from entry to closure. InitialCount is
// fixed at creation and serves as the denominator for dashboard KPIs.
type Lot struct {
	Base
	UnitID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_lot_unit_code" json:"unit_id"`
	SpeciesID    uuid.UUID `gorm:"type:uuid;not null;index" json:"species_id"`
	Code         string    `gorm:"not null;size:100;uniqueIndex:idx_lot_unit_code" json:"code"`
	EntryDate    time.Time `gorm:"not null;type:date" json:"entry_date"`
	InitialCount int       `gorm:"not null;check:initial_count >= 0" json:"initial_count"`
	Status       LotStatus `gorm:"not null;size:10;default:active" json:"status"`
	Destination  string    `gorm:"size:100" json:"destination,omitempty"`

	Unit    Unit    `gorm:"foreignKey:UnitID" json:"-"`
	Species Species `gorm:"foreignKey:SpeciesID" json:"-"`
}

func (Lot) TableName() string { return "lots" }

// LotDailyRecord captures one day of production figures for a lot,
// unique per (lot, date).
type LotDailyRecord struct {
	Base
	LotID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_record_lot_date" json:"lot_id"`
	Date            time.Time `gorm:"not null;type:date;uniqueIndex:idx_record_lot_date" json:"date"`
	Mortality       int       `gorm:"not null;default:0;check:mortality >= 0" json:"mortality"`
	FeedIntakeKg    float64   `gorm:"type:decimal(10,2);not null;default:0" json:"feed_intake_kg"`
	MilkProductionL float64   `gorm:"type:decimal(10,2);not null;default:0" json:"milk_production_l"`
	EggsCount       int       `gorm:"not null;default:0;check:eggs_count >= 0" json:"eggs_count"`
	AvgWeightKg     float64   `gorm:"type:decimal(10,3);not null;default:0" json:"avg_weight_kg"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`

	Lot Lot `gorm:"foreignKey:LotID" json:"-"`
}

func (LotDailyRecord) TableName() string { return "lot_daily_records" }

// HealthEvent records a vaccination, treatment or disease on a lot.
type HealthEvent struct {
	Base
	LotID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"lot_id"`
	Date         time.Time       `gorm:"not null;type:date" json:"date"`
	EventType    HealthEventType `gorm:"not null;size:20" json:"event_type"`
	Product      string          `gorm:"size:255" json:"product,omitempty"`
	Dose         string          `gorm:"size:100" json:"dose,omitempty"`
	Veterinarian string          `gorm:"size:255" json:"veterinarian,omitempty"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`

	Lot Lot `gorm:"foreignKey:LotID" json:"-"`
}

func (HealthEvent) TableName() string { return "health_events" }

// ReproductionEvent records a gestation or birth outcome on a lot.
type ReproductionEvent struct {
	Base
	LotID         uuid.UUID `gorm:"type:uuid;not null;index" json:"lot_id"`
	Date          time.Time `gorm:"not null;type:date" json:"date"`
	EventType     string    `gorm:"not null;size:50" json:"event_type"`
	GestationDays int       `gorm:"not null;default:0" json:"gestation_days"`
	BornAlive     int       `gorm:"not null;default:0;check:born_alive >= 0" json:"born_alive"`
	BornDead      int       `gorm:"not null;default:0;check:born_dead >= 0" json:"born_dead"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`

	Lot Lot `gorm:"foreignKey:LotID" json:"-"`
}

func (ReproductionEvent) TableName() string { return "reproduction_events" }

// FinancialEntry is a signed amount attached to a farm and optionally a lot.
type FinancialEntry struct {
	Base
	FarmID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"farm_id"`
	LotID     *uuid.UUID `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	Date      time.Time  `gorm:"not null;type:date" json:"date"`
	EntryType EntryType  `gorm:"not null;size:10" json:"entry_type"`
	Category  string     `gorm:"size:100" json:"category,omitempty"`
	Amount    float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`

	Farm Farm `gorm:"foreignKey:FarmID" json:"-"`
	Lot  *Lot `gorm:"foreignKey:LotID" json:"-"`
}

func (FinancialEntry) TableName() string { return "financial_entries" }

// StockItem is a tracked supply of a farm, unique per (farm, name).
// Quantity is only ever mutated by the stock ledger.
type StockItem struct {
	Base
	FarmID         uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_stock_farm_name" json:"farm_id"`
	Name           string        `gorm:"not null;size:255;uniqueIndex:idx_stock_farm_name" json:"name"`
	ItemType       StockItemType `gorm:"not null;size:10" json:"item_type"`
	Quantity       float64       `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	Unit           string        `gorm:"size:20;default:kg" json:"unit"`
	AlertThreshold float64       `gorm:"type:decimal(12,3);not null;default:0" json:"alert_threshold"`

	Farm      Farm            `gorm:"foreignKey:FarmID" json:"-"`
	Movements []StockMovement `gorm:"foreignKey:StockItemID" json:"movements,omitempty"`
}

func (StockItem) TableName() string { return "stock_items" }

// StockMovement is an append-only ledger entry. Movements are immutable;
// a mistake is corrected with a compensating movement.
type StockMovement struct {
	Base
	StockItemID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"stock_item_id"`
	MovementType MovementType `gorm:"not null;size:3" json:"movement_type"`
	Quantity     float64      `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Date         time.Time    `gorm:"not null;type:date" json:"date"`
	LotID        *uuid.UUID   `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	Reason       string       `gorm:"size:255" json:"reason,omitempty"`

	StockItem StockItem `gorm:"foreignKey:StockItemID" json:"-"`
	Lot       *Lot      `gorm:"foreignKey:LotID" json:"-"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// All enumerates every persisted model, in dependency order, for migration.
func All() []any {
	return []any{
		&User{},
		&Enterprise{},
		&Membership{},
		&Farm{},
		&BreedingType{},
		&Species{},
		&Unit{},
		&Lot{},
		&LotDailyRecord{},
		&HealthEvent{},
		&ReproductionEvent{},
		&FinancialEntry{},
		&StockItem{},
		&StockMovement{},
	}
}
