// Package identity is the read side of the identity store: point lookups,
// effective roles, OU subtree membership, and filtered user listings, over
// the users, roles and organization_units collections.
//
// Every method is a read. Dependent reads (user, then its units, then their
// roles) are issued in order without a transaction.
package identity

import (
	"context"

	"github.com/dalemusser/identityquery/internal/app/store/queries/effectiveroles"
	"github.com/dalemusser/identityquery/internal/app/store/queries/ouhierarchy"
	"github.com/dalemusser/identityquery/internal/app/store/queries/userlist"
	oustore "github.com/dalemusser/identityquery/internal/app/store/organizationunits"
	rolestore "github.com/dalemusser/identityquery/internal/app/store/roles"
	userstore "github.com/dalemusser/identityquery/internal/app/store/users"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Scope reports the workspace a read is limited to. ok=false means host
// scope, or whatever workspace the context already carries.
type Scope func(ctx context.Context) (id primitive.ObjectID, ok bool)

// Options configures a Repository. The zero value is case-sensitive listing,
// segment-boundary subtree matching, and context-carried scoping.
type Options struct {
	// UserFilterCaseInsensitive folds case in the free-text user filter.
	UserFilterCaseInsensitive bool
	// SubtreeMatch is the default match mode for UsersUnderSubtree.
	SubtreeMatch oucode.Match
	Scope        Scope
}

type Repository struct {
	users *userstore.Store
	roles *rolestore.Store
	ous   *oustore.Store

	membership *effectiveroles.Resolver
	hierarchy  *ouhierarchy.Resolver

	caseInsensitive bool
	subtreeMatch    oucode.Match
	scope           Scope
}

func New(db *mongo.Database, opts Options) *Repository {
	users := userstore.New(db)
	roles := rolestore.New(db)
	ous := oustore.New(db)
	return &Repository{
		users:           users,
		roles:           roles,
		ous:             ous,
		membership:      effectiveroles.New(users, ous, roles),
		hierarchy:       ouhierarchy.New(ous, users, opts.SubtreeMatch),
		caseInsensitive: opts.UserFilterCaseInsensitive,
		subtreeMatch:    opts.SubtreeMatch,
		scope:           opts.Scope,
	}
}

func (r *Repository) scoped(ctx context.Context) context.Context {
	if r.scope == nil {
		return ctx
	}
	if id, ok := r.scope(ctx); ok {
		return workspace.WithID(ctx, id)
	}
	return ctx
}

/* ---------- users: point lookups ---------- */

// GetByID returns the user or a storeerr.ErrNotFound error.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.users.GetByID(r.scoped(ctx), id)
}

// FindByNormalizedUserName returns nil, nil when no user matches.
func (r *Repository) FindByNormalizedUserName(ctx context.Context, normalizedUserName string) (*models.User, error) {
	return r.users.FindByNormalizedUserName(r.scoped(ctx), normalizedUserName)
}

// FindByNormalizedEmail returns nil, nil when no user matches.
func (r *Repository) FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	return r.users.FindByNormalizedEmail(r.scoped(ctx), normalizedEmail)
}

// FindByLogin returns nil, nil when no user has that provider/key login.
func (r *Repository) FindByLogin(ctx context.Context, loginProvider, providerKey string) (*models.User, error) {
	return r.users.FindByLogin(r.scoped(ctx), loginProvider, providerKey)
}

func (r *Repository) ListByClaim(ctx context.Context, claimType, claimValue string) ([]models.User, error) {
	return r.users.ListByClaim(r.scoped(ctx), claimType, claimValue)
}

// ListByNormalizedRoleName returns users holding the named role DIRECTLY.
// Roles inherited through organization units are not considered; use
// RoleIDs for the effective set. An unknown role gives an empty list.
func (r *Repository) ListByNormalizedRoleName(ctx context.Context, normalizedRoleName string) ([]models.User, error) {
	ctx = r.scoped(ctx)
	role, err := r.roles.FindByNormalizedName(ctx, normalizedRoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return []models.User{}, nil
	}
	return r.users.ListByRoleID(ctx, role.ID)
}

/* ---------- users: listing ---------- */

// NewUserPlan returns a plan carrying the repository's case policy.
func (r *Repository) NewUserPlan() userlist.Plan {
	return userlist.NewPlan().WithCaseInsensitive(r.caseInsensitive)
}

func (r *Repository) ListUsers(ctx context.Context, plan userlist.Plan) ([]models.User, error) {
	return userlist.List(r.scoped(ctx), r.users, plan)
}

func (r *Repository) CountUsers(ctx context.Context, plan userlist.Plan) (int64, error) {
	return userlist.Count(r.scoped(ctx), r.users, plan)
}

// PageUsers is ListUsers plus the unpaged total for the same filter.
func (r *Repository) PageUsers(ctx context.Context, plan userlist.Plan) (userlist.Result, error) {
	return userlist.Page(r.scoped(ctx), r.users, plan)
}

/* ---------- effective roles ---------- */

// RoleIDs returns the user's effective role ids: direct plus OU-granted.
func (r *Repository) RoleIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.membership.RoleIDs(r.scoped(ctx), userID)
}

func (r *Repository) RoleNames(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return r.membership.RoleNames(r.scoped(ctx), userID)
}

func (r *Repository) Roles(ctx context.Context, userID primitive.ObjectID) ([]models.Role, error) {
	return r.membership.Roles(r.scoped(ctx), userID)
}

func (r *Repository) OrganizationUnits(ctx context.Context, userID primitive.ObjectID) ([]models.OrganizationUnit, error) {
	return r.membership.OrganizationUnits(r.scoped(ctx), userID)
}

// UnscopedOrganizationUnitRoleNames returns the names of roles granted by the
// user's units, reading units and roles across all workspaces.
func (r *Repository) UnscopedOrganizationUnitRoleNames(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return r.membership.UnscopedOrganizationUnitRoleNames(r.scoped(ctx), userID)
}

/* ---------- organization units ---------- */

// UsersUnderSubtree uses the configured match mode.
func (r *Repository) UsersUnderSubtree(ctx context.Context, codePrefix string) ([]models.User, error) {
	return r.hierarchy.UsersUnderSubtree(r.scoped(ctx), codePrefix)
}

func (r *Repository) UsersUnderSubtreeMatching(ctx context.Context, codePrefix string, m oucode.Match) ([]models.User, error) {
	return r.hierarchy.UsersUnderSubtreeMatching(r.scoped(ctx), codePrefix, m)
}

func (r *Repository) UsersInOrganizationUnit(ctx context.Context, ouID primitive.ObjectID) ([]models.User, error) {
	return r.hierarchy.UsersInOrganizationUnit(r.scoped(ctx), ouID)
}

func (r *Repository) UsersInOrganizationUnits(ctx context.Context, ouIDs []primitive.ObjectID) ([]models.User, error) {
	return r.hierarchy.UsersInOrganizationUnits(r.scoped(ctx), ouIDs)
}

// GetOrganizationUnit returns the unit or a storeerr.ErrNotFound error.
func (r *Repository) GetOrganizationUnit(ctx context.Context, id primitive.ObjectID) (*models.OrganizationUnit, error) {
	return r.ous.GetByID(r.scoped(ctx), id)
}

// ListChildOrganizationUnits lists the direct children of parentID, or the
// roots when parentID is nil.
func (r *Repository) ListChildOrganizationUnits(ctx context.Context, parentID *primitive.ObjectID) ([]models.OrganizationUnit, error) {
	return r.ous.ListChildren(r.scoped(ctx), parentID)
}

// FindOrganizationUnitByCode returns nil, nil when no unit has exactly code.
func (r *Repository) FindOrganizationUnitByCode(ctx context.Context, code string) (*models.OrganizationUnit, error) {
	return r.ous.FindByCode(r.scoped(ctx), code)
}

// ListOrganizationUnitSubtree lists the units under codePrefix, ordered by
// code, using the configured match mode.
func (r *Repository) ListOrganizationUnitSubtree(ctx context.Context, codePrefix string) ([]models.OrganizationUnit, error) {
	return r.ous.ListSubtree(r.scoped(ctx), codePrefix, r.subtreeMatch)
}

func (r *Repository) ListOrganizationUnitSubtreeMatching(ctx context.Context, codePrefix string, m oucode.Match) ([]models.OrganizationUnit, error) {
	return r.ous.ListSubtree(r.scoped(ctx), codePrefix, m)
}

/* ---------- roles ---------- */

// FindRoleByNormalizedName returns nil, nil when no role matches.
func (r *Repository) FindRoleByNormalizedName(ctx context.Context, normalizedName string) (*models.Role, error) {
	return r.roles.FindByNormalizedName(r.scoped(ctx), normalizedName)
}

func (r *Repository) ListRolesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Role, error) {
	return r.roles.GetByIDs(r.scoped(ctx), ids)
}
