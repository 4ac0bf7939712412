package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-management/internal/auth"
	e "farm-management/internal/errors"
	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accounts handles user registration and login.
type Accounts struct {
	repo      *repository.Repository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAccounts creates the account service.
func NewAccounts(repo *repository.Repository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *Accounts {
	return &Accounts{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user account and returns it with a signed token.
func (s *Accounts) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", e.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", e.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email already registered", e.ErrConflict)
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Accounts) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", e.ErrUnauthenticated)
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", e.ErrUnauthenticated)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Refresh issues a fresh token for an already-authenticated caller,
// extending the session without re-entering credentials. The account
// must still exist.
func (s *Accounts) Refresh(ctx context.Context, userID uuid.UUID) (*model.User, string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: account no longer exists", e.ErrUnauthenticated)
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Enterprises manages enterprises and their memberships.
type Enterprises struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewEnterprises creates the enterprise service.
func NewEnterprises(repo *repository.Repository, authz *Authz, logger *zap.Logger) *Enterprises {
	return &Enterprises{repo: repo, authz: authz, logger: logger}
}

// Create makes the caller the owner of a new enterprise and records the
// owner membership in the same transaction.
func (s *Enterprises) Create(ctx context.Context, callerID uuid.UUID, name string) (*model.Enterprise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}

	ent := &model.Enterprise{Name: name, OwnerID: callerID}
	err := s.repo.WithTransaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateEnterprise(ctx, ent); err != nil {
			return err
		}
		membership := &model.Membership{
			UserID:       callerID,
			EnterpriseID: ent.ID,
			Role:         model.RoleOwner,
		}
		return tx.CreateMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("enterprise created",
		zap.String("enterprise_id", ent.ID.String()),
		zap.String("owner_id", callerID.String()))
	return ent, nil
}

// Get fetches an enterprise the caller has standing in.
func (s *Enterprises) Get(ctx context.Context, callerID, id uuid.UUID) (*model.Enterprise, error) {
	ent, err := s.repo.GetEnterprise(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireRead(ctx, callerID, id); err != nil {
		return nil, err
	}
	return ent, nil
}

// List returns the enterprises the caller owns or belongs to.
func (s *Enterprises) List(ctx context.Context, callerID uuid.UUID) ([]model.Enterprise, error) {
	return s.repo.ListEnterprisesFor(ctx, callerID)
}

// Update renames an enterprise. Write role required; ownership never
// changes through the API.
func (s *Enterprises) Update(ctx context.Context, callerID, id uuid.UUID, update *model.EnterpriseUpdate) (*model.Enterprise, error) {
	if _, err := s.repo.GetEnterprise(ctx, id); err != nil {
		return nil, err
	}
	if err := s.authz.RequireWrite(ctx, callerID, id); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
	}
	if err := s.repo.UpdateEnterprise(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetEnterprise(ctx, id)
}

// Delete soft-deletes an enterprise. Only the owner may do this; all
// descendants become unreachable through their broken ownership chain.
func (s *Enterprises) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.repo.GetEnterprise(ctx, id); err != nil {
		return err
	}
	if err := s.authz.RequireOwner(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.Enterprise{}, id)
}

// MembershipInput carries the fields of a membership grant.
type MembershipInput struct {
	EnterpriseID uuid.UUID
	UserEmail    string
	Role         model.Role
}

// AddMember grants a user a role in an enterprise. Write role required.
// The owner role is reserved for the enterprise owner's own membership.
func (s *Enterprises) AddMember(ctx context.Context, callerID uuid.UUID, in MembershipInput) (*model.Membership, error) {
	if err := s.authz.RequireWrite(ctx, callerID, in.EnterpriseID); err != nil {
		return nil, err
	}
	if in.Role != model.RoleAdmin && in.Role != model.RoleUser {
		return nil, fmt.Errorf("%w: role must be admin or user", e.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(in.UserEmail)))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with that email", e.ErrNotFound)
		}
		return nil, err
	}

	membership := &model.Membership{
		UserID:       user.ID,
		EnterpriseID: in.EnterpriseID,
		Role:         in.Role,
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, fmt.Errorf("%w: user is already a member", e.ErrConflict)
		}
		return nil, err
	}
	return membership, nil
}

// ListMembers returns the memberships of an enterprise the caller can read.
func (s *Enterprises) ListMembers(ctx context.Context, callerID, enterpriseID uuid.UUID) ([]model.Membership, error) {
	if err := s.authz.RequireRead(ctx, callerID, enterpriseID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberships(ctx, enterpriseID)
}

// UpdateMember changes a membership role. Write role required; the owner
// membership is immutable and roles never escalate to owner.
func (s *Enterprises) UpdateMember(ctx context.Context, callerID, membershipID uuid.UUID, update *model.MembershipUpdate) (*model.Membership, error) {
	m, err := s.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireWrite(ctx, callerID, m.EnterpriseID); err != nil {
		return nil, err
	}
	if m.Role == model.RoleOwner {
		return nil, fmt.Errorf("%w: the owner membership cannot be changed", e.ErrInvalidInput)
	}
	if update.Role != nil && *update.Role != model.RoleAdmin && *update.Role != model.RoleUser {
		return nil, fmt.Errorf("%w: role must be admin or user", e.ErrInvalidInput)
	}
	if err := s.repo.UpdateMembership(ctx, membershipID, update); err != nil {
		return nil, err
	}
	return s.repo.GetMembership(ctx, membershipID)
}

// RemoveMember revokes a membership. Write role required; the owner
// membership cannot be removed.
func (s *Enterprises) RemoveMember(ctx context.Context, callerID, membershipID uuid.UUID) error {
	m, err := s.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireWrite(ctx, callerID, m.EnterpriseID); err != nil {
		return err
	}
	if m.Role == model.RoleOwner {
		return fmt.Errorf("%w: the owner membership cannot be removed", e.ErrInvalidInput)
	}
	return s.repo.SoftDelete(ctx, &model.Membership{}, membershipID)
}

// Farms manages farms within an enterprise.
type Farms struct {
	repo   *repository.Repository
	authz  *Authz
	logger *zap.Logger
}

// NewFarms creates the farm service.
func NewFarms(repo *repository.Repository, authz *Authz, logger *zap.Logger) *Farms {
	return &Farms{repo: repo, authz: authz, logger: logger}
}

// FarmInput carries the fields of a farm create request. The enterprise
// is derived from the payload, never trusted from a separate parameter.
type FarmInput struct {
	EnterpriseID uuid.UUID
	Name         string
	Location     string
}

// Create adds a farm to an enterprise the caller can write to.
func (s *Farms) Create(ctx context.Context, callerID uuid.UUID, in FarmInput) (*model.Farm, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	entID, err := s.authz.writeScoped(ctx, callerID, repository.Resource{Kind: repository.KindEnterprise, ID: in.EnterpriseID})
	if err != nil {
		return nil, err
	}

	farm := &model.Farm{
		EnterpriseID: entID,
		Name:         strings.TrimSpace(in.Name),
		Location:     strings.TrimSpace(in.Location),
	}
	if err := s.repo.CreateFarm(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

// Get fetches a farm the caller has standing in.
func (s *Farms) Get(ctx context.Context, callerID, id uuid.UUID) (*model.Farm, error) {
	farm, err := s.repo.GetFarm(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireRead(ctx, callerID, farm.EnterpriseID); err != nil {
		return nil, err
	}
	return farm, nil
}

// List returns the farms within the caller's authorized enterprises.
func (s *Farms) List(ctx context.Context, callerID uuid.UUID, filter model.FarmFilter) ([]model.Farm, error) {
	scope, err := s.authz.Scope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []model.Farm{}, nil
	}
	return s.repo.ListFarms(ctx, scope, filter)
}

// Update modifies a farm. The enterprise is derived from the stored
// entity; farms never move between enterprises.
func (s *Farms) Update(ctx context.Context, callerID, id uuid.UUID, update *model.FarmUpdate) (*model.Farm, error) {
	farm, err := s.repo.GetFarm(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireWrite(ctx, callerID, farm.EnterpriseID); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
	}
	if err := s.repo.UpdateFarm(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.GetFarm(ctx, id)
}

// Delete soft-deletes a farm.
func (s *Farms) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	farm, err := s.repo.GetFarm(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.RequireWrite(ctx, callerID, farm.EnterpriseID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, &model.Farm{}, id)
}
