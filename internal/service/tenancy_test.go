package service

import (
	"context"
	"testing"

	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterpriseCreateGrantsOwnerMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	members, err := env.enterprises.ListMembers(ctx, env.owner.ID, env.ent.ID)
	require.NoError(t, err)

	var ownerRows int
	for _, m := range members {
		if m.UserID == env.owner.ID {
			ownerRows++
			assert.Equal(t, model.RoleOwner, m.Role)
		}
	}
	assert.Equal(t, 1, ownerRows)
}

func TestMemberReadsButCannotWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.farms.Get(ctx, env.member.ID, env.farm.ID)
	require.NoError(t, err)
	assert.Equal(t, env.farm.ID, got.ID)

	_, err = env.farms.Create(ctx, env.member.ID, FarmInput{
		EnterpriseID: env.ent.ID, Name: "South Farm",
	})
	assert.ErrorIs(t, err, e.ErrForbidden)

	name := "Renamed"
	_, err = env.farms.Update(ctx, env.admin.ID, env.farm.ID, &model.FarmUpdate{Name: &name})
	assert.NoError(t, err)
}

func TestCrossTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other, err := env.enterprises.Create(ctx, env.outsider.ID, "Other Enterprise")
	require.NoError(t, err)
	otherFarm, err := env.farms.Create(ctx, env.outsider.ID, FarmInput{
		EnterpriseID: other.ID, Name: "Hidden Farm",
	})
	require.NoError(t, err)

	// The foreign farm exists but must read as forbidden, never as found
	// or as not found.
	_, err = env.farms.Get(ctx, env.owner.ID, otherFarm.ID)
	assert.ErrorIs(t, err, e.ErrForbidden)

	farms, err := env.farms.List(ctx, env.owner.ID, model.FarmFilter{})
	require.NoError(t, err)
	for _, f := range farms {
		assert.NotEqual(t, otherFarm.ID, f.ID)
	}
}

func TestAddMemberValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.enterprises.AddMember(ctx, env.owner.ID, MembershipInput{
		EnterpriseID: env.ent.ID, UserEmail: env.member.Email, Role: model.RoleUser,
	})
	assert.ErrorIs(t, err, e.ErrConflict, "duplicate grant")

	_, err = env.enterprises.AddMember(ctx, env.owner.ID, MembershipInput{
		EnterpriseID: env.ent.ID, UserEmail: env.outsider.Email, Role: model.RoleOwner,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "owner role is not grantable")

	_, err = env.enterprises.AddMember(ctx, env.owner.ID, MembershipInput{
		EnterpriseID: env.ent.ID, UserEmail: "nobody@farm.test", Role: model.RoleUser,
	})
	assert.ErrorIs(t, err, e.ErrNotFound, "unknown email")

	_, err = env.enterprises.AddMember(ctx, env.member.ID, MembershipInput{
		EnterpriseID: env.ent.ID, UserEmail: env.outsider.Email, Role: model.RoleUser,
	})
	assert.ErrorIs(t, err, e.ErrForbidden, "members cannot grant")
}

func TestOwnerMembershipImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	members, err := env.enterprises.ListMembers(ctx, env.owner.ID, env.ent.ID)
	require.NoError(t, err)

	var ownerMembership model.Membership
	for _, m := range members {
		if m.Role == model.RoleOwner {
			ownerMembership = m
		}
	}
	require.NotZero(t, ownerMembership.ID)

	role := model.RoleUser
	_, err = env.enterprises.UpdateMember(ctx, env.owner.ID, ownerMembership.ID, &model.MembershipUpdate{Role: &role})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	err = env.enterprises.RemoveMember(ctx, env.owner.ID, ownerMembership.ID)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestRemoveMemberRevokesAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	members, err := env.enterprises.ListMembers(ctx, env.owner.ID, env.ent.ID)
	require.NoError(t, err)
	var grant model.Membership
	for _, m := range members {
		if m.UserID == env.member.ID {
			grant = m
		}
	}
	require.NotZero(t, grant.ID)

	require.NoError(t, env.enterprises.RemoveMember(ctx, env.owner.ID, grant.ID))

	_, err = env.farms.Get(ctx, env.member.ID, env.farm.ID)
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestEnterpriseDeleteRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.enterprises.Delete(ctx, env.admin.ID, env.ent.ID)
	assert.ErrorIs(t, err, e.ErrForbidden)

	require.NoError(t, env.enterprises.Delete(ctx, env.owner.ID, env.ent.ID))
	_, err = env.enterprises.Get(ctx, env.owner.ID, env.ent.ID)
	assert.Error(t, err)
}
