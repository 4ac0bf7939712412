package service

import (
	"context"
	"testing"

	e "farm-management/internal/errors"
	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		wantRole model.Role
		wantErr  error
	}{
		{name: "enterprise owner", userID: "owner", wantRole: model.RoleOwner},
		{name: "admin member", userID: "admin", wantRole: model.RoleAdmin},
		{name: "plain member", userID: "member", wantRole: model.RoleUser},
		{name: "outsider has no standing", userID: "outsider", wantErr: e.ErrForbidden},
	}

	users := map[string]model.User{
		"owner": env.owner, "admin": env.admin, "member": env.member, "outsider": env.outsider,
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := env.authz.RoleOf(ctx, users[tt.userID].ID, env.ent.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestRequireWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, env.authz.RequireWrite(ctx, env.owner.ID, env.ent.ID))
	assert.NoError(t, env.authz.RequireWrite(ctx, env.admin.ID, env.ent.ID))
	assert.ErrorIs(t, env.authz.RequireWrite(ctx, env.member.ID, env.ent.ID), e.ErrForbidden)
	assert.ErrorIs(t, env.authz.RequireWrite(ctx, env.outsider.ID, env.ent.ID), e.ErrForbidden)
}

func TestRequireOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, env.authz.RequireOwner(ctx, env.owner.ID, env.ent.ID))
	assert.ErrorIs(t, env.authz.RequireOwner(ctx, env.admin.ID, env.ent.ID), e.ErrForbidden)
}

// A broken ownership chain must surface as forbidden, not as not found,
// so callers cannot probe for the existence of other tenants' rows.
func TestResolveEnterpriseBrokenChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res := repository.Resource{Kind: repository.KindUnit, ID: env.unit.ID}
	entID, err := env.authz.ResolveEnterprise(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, env.ent.ID, entID)

	require.NoError(t, env.repo.SoftDelete(ctx, &model.Farm{}, env.farm.ID))
	_, err = env.authz.ResolveEnterprise(ctx, res)
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	scope, err := env.authz.Scope(ctx, env.member.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{env.ent.ID}, scope)

	scope, err = env.authz.Scope(ctx, env.outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, scope)
}
