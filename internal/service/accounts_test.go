package service

import (
	"context"
	"testing"
	"time"

	"farm-management/internal/auth"
	e "farm-management/internal/errors"
	"farm-management/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccounts(env *env) *Accounts {
	return NewAccounts(env.repo, "test-secret", time.Hour, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accounts := newAccounts(env)

	user, token, err := accounts.Register(ctx, RegisterInput{
		Email:     "New.User@Farm.Test",
		Password:  "long-enough",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.user@farm.test", user.Email, "email is normalized")
	assert.NotEqual(t, "long-enough", user.PasswordHash)

	parsed, err := auth.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)

	got, _, err := accounts.Login(ctx, "new.user@farm.test", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accounts := newAccounts(env)

	_, _, err := accounts.Register(ctx, RegisterInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, _, err = accounts.Register(ctx, RegisterInput{Email: "a@b.test", Password: "short"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, _, err = accounts.Register(ctx, RegisterInput{Email: env.owner.Email, Password: "long-enough"})
	assert.ErrorIs(t, err, e.ErrConflict, "duplicate email")
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accounts := newAccounts(env)

	user, token, err := accounts.Refresh(ctx, env.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, env.owner.ID, user.ID)

	parsed, err := auth.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, env.owner.ID, parsed)

	// A deleted account cannot extend its session.
	require.NoError(t, env.repo.SoftDelete(ctx, &model.User{}, env.owner.ID))
	_, _, err = accounts.Refresh(ctx, env.owner.ID)
	assert.ErrorIs(t, err, e.ErrUnauthenticated)
}

// Unknown email and wrong password must be the same failure.
func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accounts := newAccounts(env)

	_, _, err := accounts.Register(ctx, RegisterInput{Email: "a@b.test", Password: "long-enough"})
	require.NoError(t, err)

	_, _, wrongPass := accounts.Login(ctx, "a@b.test", "wrong-password")
	assert.ErrorIs(t, wrongPass, e.ErrUnauthenticated)

	_, _, noUser := accounts.Login(ctx, "nobody@b.test", "long-enough")
	assert.ErrorIs(t, noUser, e.ErrUnauthenticated)
}
