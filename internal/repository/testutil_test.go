package repository

import (
	"testing"
	"time"

	"farm-management/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestRepo opens an isolated in-memory SQLite database with the full
// schema migrated.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return NewWithDB(db)
}

// fixture is one fully-wired tenant: user owning an enterprise with a
// farm, a poultry unit and a chicken species.
type fixture struct {
	user    model.User
	ent     model.Enterprise
	farm    model.Farm
	bt      model.BreedingType
	species model.Species
	unit    model.Unit
}

func seedTenant(t *testing.T, r *Repository) fixture {
	t.Helper()

	f := fixture{
		user: model.User{Email: "owner@farm.test", PasswordHash: "x"},
		bt:   model.BreedingType{Code: "POULTRY", Name: "Poultry"},
	}
	require.NoError(t, r.db.Create(&f.user).Error)
	require.NoError(t, r.db.Create(&f.bt).Error)

	f.species = model.Species{Code: "CHICKEN", Name: "Chicken", BreedingTypeID: f.bt.ID}
	require.NoError(t, r.db.Create(&f.species).Error)

	f.ent = model.Enterprise{Name: "Main Enterprise", OwnerID: f.user.ID}
	require.NoError(t, r.db.Create(&f.ent).Error)

	f.farm = model.Farm{EnterpriseID: f.ent.ID, Name: "North Farm"}
	require.NoError(t, r.db.Create(&f.farm).Error)

	f.unit = model.Unit{
		FarmID:         f.farm.ID,
		Name:           "House 1",
		BreedingTypeID: &f.bt.ID,
		SpeciesID:      &f.species.ID,
		Capacity:       1000,
	}
	require.NoError(t, r.db.Create(&f.unit).Error)

	return f
}

func (f fixture) newLot(t *testing.T, r *Repository, code string, initialCount int) model.Lot {
	t.Helper()
	lot := model.Lot{
		UnitID:       f.unit.ID,
		SpeciesID:    f.species.ID,
		Code:         code,
		EntryDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: initialCount,
		Status:       model.LotActive,
	}
	require.NoError(t, r.db.Create(&lot).Error)
	return lot
}
