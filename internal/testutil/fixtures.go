package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/identityquery/internal/app/system/normalize"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateRole inserts a role named name.
func (f *Fixtures) CreateRole(ctx context.Context, name string) models.Role {
	f.t.Helper()
	return f.CreateRoleIn(ctx, nil, name)
}

// CreateRoleIn inserts a role owned by workspaceID (nil for none).
func (f *Fixtures) CreateRoleIn(ctx context.Context, workspaceID *primitive.ObjectID, name string) models.Role {
	f.t.Helper()

	role := models.Role{
		ID:             primitive.NewObjectID(),
		WorkspaceID:    workspaceID,
		Name:           name,
		NormalizedName: normalize.RoleName(name),
	}
	if _, err := f.db.Collection("roles").InsertOne(ctx, role); err != nil {
		f.t.Fatalf("failed to create test role: %v", err)
	}
	return role
}

// CreateOrganizationUnit inserts a unit with the given code. The parent is
// taken as given; pass nil for a root.
func (f *Fixtures) CreateOrganizationUnit(ctx context.Context, code, displayName string, parentID *primitive.ObjectID, roles ...models.Role) models.OrganizationUnit {
	f.t.Helper()
	return f.CreateOrganizationUnitIn(ctx, nil, code, displayName, parentID, roles...)
}

// CreateOrganizationUnitIn is CreateOrganizationUnit within a workspace.
func (f *Fixtures) CreateOrganizationUnitIn(ctx context.Context, workspaceID *primitive.ObjectID, code, displayName string, parentID *primitive.ObjectID, roles ...models.Role) models.OrganizationUnit {
	f.t.Helper()

	ou := models.OrganizationUnit{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Code:        code,
		DisplayName: displayName,
		Roles:       []models.OrganizationUnitRole{},
	}
	for _, r := range roles {
		ou.Roles = append(ou.Roles, models.OrganizationUnitRole{RoleID: r.ID})
	}
	if _, err := f.db.Collection("organization_units").InsertOne(ctx, ou); err != nil {
		f.t.Fatalf("failed to create test organization unit: %v", err)
	}
	return ou
}

// UserOption customizes a user built by CreateUser.
type UserOption func(*models.User)

// WithName sets given name and surname.
func WithName(name, surname string) UserOption {
	return func(u *models.User) {
		u.Name = &name
		u.Surname = &surname
	}
}

// WithRoles assigns roles directly.
func WithRoles(roles ...models.Role) UserOption {
	return func(u *models.User) {
		for _, r := range roles {
			u.Roles = append(u.Roles, models.UserRole{RoleID: r.ID})
		}
	}
}

// InOrganizationUnits adds unit memberships.
func InOrganizationUnits(ous ...models.OrganizationUnit) UserOption {
	return func(u *models.User) {
		for _, ou := range ous {
			u.OrganizationUnits = append(u.OrganizationUnits, models.UserOrganizationUnit{OrganizationUnitID: ou.ID})
		}
	}
}

// WithLogin adds an external login.
func WithLogin(provider, key string) UserOption {
	return func(u *models.User) {
		u.Logins = append(u.Logins, models.UserLogin{LoginProvider: provider, ProviderKey: key})
	}
}

// WithClaim adds a claim.
func WithClaim(claimType, value string) UserOption {
	return func(u *models.User) {
		u.Claims = append(u.Claims, models.UserClaim{ClaimType: claimType, ClaimValue: value})
	}
}

// InWorkspace sets the owning workspace.
func InWorkspace(id primitive.ObjectID) UserOption {
	return func(u *models.User) {
		u.WorkspaceID = &id
	}
}

// CreateUser inserts an active user. Normalized fields are derived from
// userName and email.
func (f *Fixtures) CreateUser(ctx context.Context, userName, email string, opts ...UserOption) models.User {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user := models.User{
		ID:                 primitive.NewObjectID(),
		UserName:           userName,
		NormalizedUserName: normalize.UserName(userName),
		Email:              email,
		NormalizedEmail:    normalize.Email(email),
		IsActive:           true,
		Logins:             []models.UserLogin{},
		Claims:             []models.UserClaim{},
		Roles:              []models.UserRole{},
		OrganizationUnits:  []models.UserOrganizationUnit{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(&user)
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
