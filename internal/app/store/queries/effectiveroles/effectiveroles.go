// Package effectiveroles computes the roles a user holds: those assigned
// directly plus those granted by every organization unit the user belongs to.
//
// Results are recomputed on every call. The user, OU and role reads are
// separate queries in dependency order with no transaction around them, so a
// membership change between them can show up in one read and not another.
package effectiveroles

import (
	"context"

	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserGetter loads a required user. A missing user must be an error.
type UserGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// OrganizationUnitGetter loads units by id.
type OrganizationUnitGetter interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.OrganizationUnit, error)
}

// RoleGetter loads roles, or just their names, by id.
type RoleGetter interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Role, error)
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]string, error)
}

type Resolver struct {
	users UserGetter
	ous   OrganizationUnitGetter
	roles RoleGetter
}

func New(users UserGetter, ous OrganizationUnitGetter, roles RoleGetter) *Resolver {
	return &Resolver{users: users, ous: ous, roles: roles}
}

// UnionRoleIDs returns the user's direct role ids together with the role ids
// of every unit in ous, without duplicates. Direct roles come first, then OU
// roles in the order the units were given; callers must not rely on order.
func UnionRoleIDs(user models.User, ous []models.OrganizationUnit) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(user.Roles))
	out := make([]primitive.ObjectID, 0, len(user.Roles))
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, r := range user.Roles {
		add(r.RoleID)
	}
	for _, ou := range ous {
		for _, r := range ou.Roles {
			add(r.RoleID)
		}
	}
	return out
}

// OrganizationUnitRoleIDs returns the distinct role ids granted by ous.
func OrganizationUnitRoleIDs(ous []models.OrganizationUnit) []primitive.ObjectID {
	return UnionRoleIDs(models.User{}, ous)
}

// load fetches the user and then the user's units. The user lookup fails
// before any unit query when the id does not resolve.
func (r *Resolver) load(ctx context.Context, userID primitive.ObjectID, ouCtx func(context.Context) context.Context) (*models.User, []models.OrganizationUnit, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	ous, err := r.ous.GetByIDs(ouCtx(ctx), user.OrganizationUnitIDs())
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return user, ous, nil
}

func sameScope(ctx context.Context) context.Context { return ctx }

// RoleIDs returns the effective role id set of userID.
func (r *Resolver) RoleIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, ous, err := r.load(ctx, userID, sameScope)
	if err != nil {
		return nil, err
	}
	return UnionRoleIDs(*user, ous), nil
}

// RoleNames returns the names of the user's effective roles. Ids that no
// longer resolve to a role are dropped.
func (r *Resolver) RoleNames(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	ids, err := r.RoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.roles.NamesByIDs(ctx, ids)
}

// Roles returns the user's effective roles as full entities.
func (r *Resolver) Roles(ctx context.Context, userID primitive.ObjectID) ([]models.Role, error) {
	ids, err := r.RoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.roles.GetByIDs(ctx, ids)
}

// OrganizationUnits returns the units the user belongs to.
func (r *Resolver) OrganizationUnits(ctx context.Context, userID primitive.ObjectID) ([]models.OrganizationUnit, error) {
	_, ous, err := r.load(ctx, userID, sameScope)
	if err != nil {
		return nil, err
	}
	return ous, nil
}

// UnscopedOrganizationUnitRoleNames returns the names of roles the user
// holds through OU membership only; direct roles are excluded.
//
// The user is loaded within the caller's workspace, but the unit and role
// queries run unscoped: they can return units and roles from outside the
// caller's workspace. Callers that enforce tenancy must wrap or refuse this.
func (r *Resolver) UnscopedOrganizationUnitRoleNames(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	_, ous, err := r.load(ctx, userID, workspace.Unscoped)
	if err != nil {
		return nil, err
	}
	return r.roles.NamesByIDs(workspace.Unscoped(ctx), OrganizationUnitRoleIDs(ous))
}
