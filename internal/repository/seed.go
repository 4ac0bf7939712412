package repository

import (
	"fmt"
	"time"

	"farm-management/internal/model"

	"gorm.io/gorm"
)

// SeedRepository handles database seeding operations
type SeedRepository struct {
	db *gorm.DB
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(repo *Repository) *SeedRepository {
	return &SeedRepository{db: repo.db}
}

// referenceSpecies defines the built-in breeding type and species matrix.
// Species codes are unique across breeding types.
var referenceSpecies = []struct {
	breedingType string
	breedingCode string
	species      []struct{ code, name string }
}{
	{
		breedingType: "Poultry",
		breedingCode: "POULTRY",
		species: []struct{ code, name string }{
			{"CHICKEN", "Chicken"},
			{"DUCK", "Duck"},
			{"TURKEY", "Turkey"},
			{"QUAIL", "Quail"},
		},
	},
	{
		breedingType: "Cattle",
		breedingCode: "CATTLE",
		species: []struct{ code, name string }{
			{"BOV", "Bovine"},
		},
	},
	{
		breedingType: "Swine",
		breedingCode: "SWINE",
		species: []struct{ code, name string }{
			{"POR", "Porcine"},
		},
	},
	{
		breedingType: "Sheep and goats",
		breedingCode: "SHEEP_GOATS",
		species: []struct{ code, name string }{
			{"OVI", "Ovine"},
			{"CAP", "Caprine"},
		},
	},
	{
		breedingType: "Aquaculture",
		breedingCode: "AQUA",
		species: []struct{ code, name string }{
			{"FISH", "Fish"},
		},
	},
}

// SeedReferenceData inserts the breeding type and species catalogue if it
// is not already present. Safe to run on every startup.
func (s *SeedRepository) SeedReferenceData() error {
	for _, group := range referenceSpecies {
		var bt model.BreedingType
		err := s.db.Where("code = ?", group.breedingCode).First(&bt).Error
		if err == gorm.ErrRecordNotFound {
			bt = model.BreedingType{Code: group.breedingCode, Name: group.breedingType}
			if err := s.db.Create(&bt).Error; err != nil {
				return fmt.Errorf("failed to create breeding type %s: %w", group.breedingCode, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up breeding type %s: %w", group.breedingCode, err)
		}

		for _, sp := range group.species {
			var existing model.Species
			err := s.db.Where("code = ?", sp.code).First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				record := model.Species{Code: sp.code, Name: sp.name, BreedingTypeID: bt.ID}
				if err := s.db.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to create species %s: %w", sp.code, err)
				}
			} else if err != nil {
				return fmt.Errorf("failed to look up species %s: %w", sp.code, err)
			}
		}
	}
	return nil
}

// SeedDemoData creates a demo account with a small but complete data set:
// one enterprise, one farm, a poultry unit with an active lot, a week of
// daily records, financial entries and a feed stock item. The demo user
// is created only once; reruns are no-ops.
func (s *SeedRepository) SeedDemoData(passwordHash string) error {
	const demoEmail = "demo@farm.local"

	var existing model.User
	err := s.db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}

	var poultry model.BreedingType
	if err := s.db.Where("code = ?", "POULTRY").First(&poultry).Error; err != nil {
		return fmt.Errorf("failed to load poultry breeding type: %w", err)
	}
	var chicken model.Species
	if err := s.db.Where("code = ?", "CHICKEN").First(&chicken).Error; err != nil {
		return fmt.Errorf("failed to load chicken species: %w", err)
	}

	user := model.User{Email: demoEmail, PasswordHash: passwordHash, FirstName: "Demo", LastName: "Farmer"}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	enterprise := model.Enterprise{Name: "Demo Enterprise", OwnerID: user.ID}
	if err := s.db.Create(&enterprise).Error; err != nil {
		return fmt.Errorf("failed to create demo enterprise: %w", err)
	}
	membership := model.Membership{UserID: user.ID, EnterpriseID: enterprise.ID, Role: model.RoleOwner}
	if err := s.db.Create(&membership).Error; err != nil {
		return fmt.Errorf("failed to create demo membership: %w", err)
	}

	farm := model.Farm{EnterpriseID: enterprise.ID, Name: "Demo Farm", Location: "Demo Valley"}
	if err := s.db.Create(&farm).Error; err != nil {
		return fmt.Errorf("failed to create demo farm: %w", err)
	}

	unit := model.Unit{
		FarmID:         farm.ID,
		Name:           "Layer House 1",
		BreedingTypeID: &poultry.ID,
		SpeciesID:      &chicken.ID,
		Capacity:       1500,
	}
	if err := s.db.Create(&unit).Error; err != nil {
		return fmt.Errorf("failed to create demo unit: %w", err)
	}

	entryDate := time.Now().UTC().AddDate(0, 0, -30).Truncate(24 * time.Hour)
	lot := model.Lot{
		UnitID:       unit.ID,
		Code:         "LOT-2026-001",
		SpeciesID:    chicken.ID,
		EntryDate:    entryDate,
		InitialCount: 1000,
		Status:       model.LotActive,
	}
	if err := s.db.Create(&lot).Error; err != nil {
		return fmt.Errorf("failed to create demo lot: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	records := make([]model.LotDailyRecord, 0, 7)
	for i := 7; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		records = append(records, model.LotDailyRecord{
			LotID:        lot.ID,
			Date:         day,
			Mortality:    2,
			FeedIntakeKg: 120.0,
			EggsCount:    850,
			AvgWeightKg:  1.8,
		})
	}
	if err := s.db.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create demo daily records: %w", err)
	}

	entries := []model.FinancialEntry{
		{FarmID: farm.ID, LotID: &lot.ID, EntryType: model.EntryRevenue, Category: "egg_sales", Amount: 1200.0, Date: today.AddDate(0, 0, -3)},
		{FarmID: farm.ID, LotID: &lot.ID, EntryType: model.EntryExpense, Category: "feed", Amount: 450.0, Date: today.AddDate(0, 0, -5)},
		{FarmID: farm.ID, EntryType: model.EntryExpense, Category: "utilities", Amount: 80.0, Date: today.AddDate(0, 0, -10)},
	}
	if err := s.db.Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to create demo financial entries: %w", err)
	}

	stock := model.StockItem{
		FarmID:         farm.ID,
		Name:           "Layer feed",
		ItemType:       model.StockFeed,
		Unit:           "kg",
		Quantity:       900.0,
		AlertThreshold: 200.0,
	}
	if err := s.db.Create(&stock).Error; err != nil {
		return fmt.Errorf("failed to create demo stock item: %w", err)
	}

	fmt.Printf("✓ Seeded demo data: user %s, enterprise %q\n", demoEmail, enterprise.Name)
	return nil
}
