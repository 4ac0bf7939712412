package service

import (
	"context"
	"testing"
	"time"

	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// env is one fully-wired tenant exercised through the services: an owner
// with an enterprise, an admin and a plain member, a farm and a poultry
// unit, plus an outsider with no standing at all.
type env struct {
	repo        *repository.Repository
	authz       *Authz
	enterprises *Enterprises
	farms       *Farms
	production  *Production
	finance     *Finance
	stock       *Stock
	dashboard   DashboardService

	owner    model.User
	admin    model.User
	member   model.User
	outsider model.User

	ent  model.Enterprise
	farm model.Farm
	unit model.Unit

	poultry model.BreedingType
	chicken model.Species
	fish    model.Species
}

func newTestEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	repo := repository.NewWithDB(db)
	require.NoError(t, repository.NewSeedRepository(repo).SeedReferenceData())

	logger := zap.NewNop()
	authz := NewAuthz(repo)

	e := &env{
		repo:        repo,
		authz:       authz,
		enterprises: NewEnterprises(repo, authz, logger),
		farms:       NewFarms(repo, authz, logger),
		production:  NewProduction(repo, authz, logger),
		finance:     NewFinance(repo, authz, logger),
		stock:       NewStock(repo, authz, logger),
		dashboard:   NewDashboardService(repo, authz, logger),
	}

	for _, u := range []*model.User{&e.owner, &e.admin, &e.member, &e.outsider} {
		*u = model.User{PasswordHash: "x"}
	}
	e.owner.Email = "owner@farm.test"
	e.admin.Email = "admin@farm.test"
	e.member.Email = "member@farm.test"
	e.outsider.Email = "outsider@farm.test"
	for _, u := range []*model.User{&e.owner, &e.admin, &e.member, &e.outsider} {
		require.NoError(t, repo.CreateUser(ctx, u))
	}

	ent, err := e.enterprises.Create(ctx, e.owner.ID, "Main Enterprise")
	require.NoError(t, err)
	e.ent = *ent

	_, err = e.enterprises.AddMember(ctx, e.owner.ID, MembershipInput{
		EnterpriseID: ent.ID, UserEmail: e.admin.Email, Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = e.enterprises.AddMember(ctx, e.owner.ID, MembershipInput{
		EnterpriseID: ent.ID, UserEmail: e.member.Email, Role: model.RoleUser,
	})
	require.NoError(t, err)

	farm, err := e.farms.Create(ctx, e.owner.ID, FarmInput{EnterpriseID: ent.ID, Name: "North Farm"})
	require.NoError(t, err)
	e.farm = *farm

	types, err := repo.ListBreedingTypes(ctx)
	require.NoError(t, err)
	for _, bt := range types {
		if bt.Code == "POULTRY" {
			e.poultry = bt
		}
	}
	require.NotZero(t, e.poultry.ID)

	species, err := repo.ListSpecies(ctx)
	require.NoError(t, err)
	for _, sp := range species {
		switch sp.Code {
		case "CHICKEN":
			e.chicken = sp
		case "FISH":
			e.fish = sp
		}
	}
	require.NotZero(t, e.chicken.ID)
	require.NotZero(t, e.fish.ID)

	unit, err := e.production.CreateUnit(ctx, e.owner.ID, UnitInput{
		FarmID:         farm.ID,
		BreedingTypeID: &e.poultry.ID,
		SpeciesID:      &e.chicken.ID,
		Name:           "House 1",
		Capacity:       1000,
	})
	require.NoError(t, err)
	e.unit = *unit

	return e
}

// newLot opens a standard lot through the production service.
func (e *env) newLot(t *testing.T, code string, initialCount int) model.Lot {
	t.Helper()
	lot, err := e.production.CreateLot(context.Background(), e.owner.ID, LotInput{
		UnitID:       e.unit.ID,
		SpeciesID:    e.chicken.ID,
		Code:         code,
		EntryDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialCount: initialCount,
	})
	require.NoError(t, err)
	return *lot
}
