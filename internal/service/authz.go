// Package service implements the application core: authorization,
// tenancy management, production tracking, finance, the stock ledger and
// the dashboard aggregator.
package service

import (
	"context"
	"errors"

	e "farm-management/internal/errors"
	"farm-management/internal/model"
	"farm-management/internal/repository"

	"github.com/google/uuid"
)

// writeRoles are the roles allowed to mutate enterprise data.
var writeRoles = map[model.Role]bool{
	model.RoleOwner: true,
	model.RoleAdmin: true,
}

// Authz resolves resources to their owning enterprise and decides what a
// caller may do there. Every service operation consults it before touching
// tenant data.
type Authz struct {
	repo *repository.Repository
}

// NewAuthz creates the authorization engine.
func NewAuthz(repo *repository.Repository) *Authz {
	return &Authz{repo: repo}
}

// ResolveEnterprise walks a resource's parent chain to its enterprise.
// A missing resource or a broken chain is reported as forbidden so that
// callers cannot probe for the existence of other tenants' data.
func (a *Authz) ResolveEnterprise(ctx context.Context, res repository.Resource) (uuid.UUID, error) {
	id, err := a.repo.EnterpriseIDFor(ctx, res)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return uuid.Nil, e.ErrForbidden
		}
		return uuid.Nil, err
	}
	return id, nil
}

// RoleOf returns the caller's effective role in an enterprise. Enterprise
// ownership always counts as the owner role, regardless of membership rows.
func (a *Authz) RoleOf(ctx context.Context, userID, enterpriseID uuid.UUID) (model.Role, error) {
	ownerID, err := a.repo.EnterpriseOwnerID(ctx, enterpriseID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", e.ErrForbidden
		}
		return "", err
	}
	if ownerID == userID {
		return model.RoleOwner, nil
	}

	role, err := a.repo.MembershipRoleOf(ctx, userID, enterpriseID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", e.ErrForbidden
		}
		return "", err
	}
	return role, nil
}

// RequireRead asserts that the caller has any standing in the enterprise.
func (a *Authz) RequireRead(ctx context.Context, userID, enterpriseID uuid.UUID) error {
	_, err := a.RoleOf(ctx, userID, enterpriseID)
	return err
}

// RequireWrite asserts that the caller holds a write-capable role
// (owner or admin) in the enterprise.
func (a *Authz) RequireWrite(ctx context.Context, userID, enterpriseID uuid.UUID) error {
	role, err := a.RoleOf(ctx, userID, enterpriseID)
	if err != nil {
		return err
	}
	if !writeRoles[role] {
		return e.ErrForbidden
	}
	return nil
}

// RequireOwner asserts that the caller is the enterprise owner.
func (a *Authz) RequireOwner(ctx context.Context, userID, enterpriseID uuid.UUID) error {
	role, err := a.RoleOf(ctx, userID, enterpriseID)
	if err != nil {
		return err
	}
	if role != model.RoleOwner {
		return e.ErrForbidden
	}
	return nil
}

// Scope returns the enterprises the caller may read. Collection listings
// are filtered to this set; an empty scope yields empty listings rather
// than an error.
func (a *Authz) Scope(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return a.repo.AuthorizedEnterpriseIDs(ctx, userID)
}

// readScoped resolves the resource's enterprise and asserts read access,
// returning the enterprise ID for further use.
func (a *Authz) readScoped(ctx context.Context, userID uuid.UUID, res repository.Resource) (uuid.UUID, error) {
	entID, err := a.ResolveEnterprise(ctx, res)
	if err != nil {
		return uuid.Nil, err
	}
	if err := a.RequireRead(ctx, userID, entID); err != nil {
		return uuid.Nil, err
	}
	return entID, nil
}

// writeScoped resolves the resource's enterprise and asserts write access.
func (a *Authz) writeScoped(ctx context.Context, userID uuid.UUID, res repository.Resource) (uuid.UUID, error) {
	entID, err := a.ResolveEnterprise(ctx, res)
	if err != nil {
		return uuid.Nil, err
	}
	if err := a.RequireWrite(ctx, userID, entID); err != nil {
		return uuid.Nil, err
	}
	return entID, nil
}
