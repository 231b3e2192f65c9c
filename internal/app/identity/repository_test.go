package identity_test

import (
	"context"
	"testing"

	"github.com/dalemusser/identityquery/internal/app/identity"
	"github.com/dalemusser/identityquery/internal/app/system/normalize"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"github.com/dalemusser/identityquery/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRepo(t *testing.T) (*identity.Repository, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := identity.New(db, identity.Options{
		UserFilterCaseInsensitive: true,
		SubtreeMatch:              oucode.MatchSegment,
	})
	return repo, testutil.NewFixtures(t, db)
}

func userNames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.UserName)
	}
	return out
}

func TestRoleIDs_DirectAndInherited(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r1 := fx.CreateRole(ctx, "Editor")
	r2 := fx.CreateRole(ctx, "Viewer")
	ou := fx.CreateOrganizationUnit(ctx, "01", "Sales", nil, r2)
	a := fx.CreateUser(ctx, "a", "a@example.com", testutil.WithRoles(r1), testutil.InOrganizationUnits(ou))

	ids, err := repo.RoleIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{r1.ID, r2.ID}, ids)

	names, err := repo.RoleNames(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Editor", "Viewer"}, names)

	roles, err := repo.Roles(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	ous, err := repo.OrganizationUnits(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ous, 1)
	assert.Equal(t, "01", ous[0].Code)

	ouNames, err := repo.UnscopedOrganizationUnitRoleNames(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Viewer"}, ouNames)
}

func TestRoleIDs_NoUnitsEqualsDirect(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r1 := fx.CreateRole(ctx, "One")
	r2 := fx.CreateRole(ctx, "Two")
	u := fx.CreateUser(ctx, "u", "u@example.com", testutil.WithRoles(r1, r2))

	ids, err := repo.RoleIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, u.RoleIDs(), ids)
}

func TestRoleIDs_OverlappingRolesAreDeduplicated(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r1 := fx.CreateRole(ctx, "One")
	r2 := fx.CreateRole(ctx, "Two")
	ouA := fx.CreateOrganizationUnit(ctx, "00001", "A", nil, r1, r2)
	ouB := fx.CreateOrganizationUnit(ctx, "00002", "B", nil, r2)
	u := fx.CreateUser(ctx, "u", "u@example.com", testutil.WithRoles(r1), testutil.InOrganizationUnits(ouA, ouB))

	ids, err := repo.RoleIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.ElementsMatch(t, []primitive.ObjectID{r1.ID, r2.ID}, ids)
}

func TestRoleIDs_MissingUser(t *testing.T) {
	repo, _ := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := repo.RoleIDs(ctx, primitive.NewObjectID())
	assert.True(t, storeerr.IsNotFound(err))
}

func TestRoleIDs_Cancelled(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "u", "u@example.com")

	cctx, ccancel := context.WithCancel(ctx)
	ccancel()
	ids, err := repo.RoleIDs(cctx, u.ID)
	assert.Nil(t, ids)
	assert.True(t, storeerr.IsCancelled(err), "got %v", err)
}

func TestGetByID(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "alice", "alice@example.com")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = repo.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, storeerr.ErrNotFound)
}

func TestPointLookups(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Alice", "Alice@Example.com",
		testutil.WithLogin("Google", "sub-123"),
		testutil.WithLogin("GitHub", "999"))

	got, err := repo.FindByNormalizedUserName(ctx, normalize.UserName("alice"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.FindByNormalizedEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.FindByLogin(ctx, "Google", "sub-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	// provider and key must come from the same login
	got, err = repo.FindByLogin(ctx, "Google", "999")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByNormalizedUserName(ctx, "NOBODY")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByNormalizedEmail(ctx, "NOBODY@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListByClaim(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "a", "a@example.com", testutil.WithClaim("dept", "eng"), testutil.WithClaim("level", "3"))
	fx.CreateUser(ctx, "b", "b@example.com", testutil.WithClaim("dept", "eng"))
	fx.CreateUser(ctx, "c", "c@example.com", testutil.WithClaim("dept", "3"), testutil.WithClaim("level", "eng"))

	got, err := repo.ListByClaim(ctx, "dept", "eng")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, userNames(got))

	got, err = repo.ListByClaim(ctx, "dept", "sales")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByNormalizedRoleName_DirectOnly(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateRole(ctx, "Admin")
	ou := fx.CreateOrganizationUnit(ctx, "01", "Ops", nil, admin)
	fx.CreateUser(ctx, "direct", "d@example.com", testutil.WithRoles(admin))
	fx.CreateUser(ctx, "inherited", "i@example.com", testutil.InOrganizationUnits(ou))

	got, err := repo.ListByNormalizedRoleName(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, []string{"direct"}, userNames(got))
}

func TestListByNormalizedRoleName_UnknownRoleIsEmpty(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "a", "a@example.com")

	got, err := repo.ListByNormalizedRoleName(ctx, "NO SUCH ROLE")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUsersUnderSubtree(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := fx.CreateOrganizationUnit(ctx, "01", "Root", nil)
	child := fx.CreateOrganizationUnit(ctx, "01.01", "Child", &root.ID)
	other := fx.CreateOrganizationUnit(ctx, "02", "Other", nil)
	fx.CreateUser(ctx, "a", "a@example.com", testutil.InOrganizationUnits(root))
	fx.CreateUser(ctx, "b", "b@example.com", testutil.InOrganizationUnits(child))
	fx.CreateUser(ctx, "c", "c@example.com", testutil.InOrganizationUnits(other))

	got, err := repo.UsersUnderSubtree(ctx, "01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, userNames(got))

	got, err = repo.UsersUnderSubtree(ctx, "02")
	require.NoError(t, err)
	assert.NotContains(t, userNames(got), "b")

	leaf, err := repo.UsersUnderSubtree(ctx, "01.01")
	require.NoError(t, err)
	byID, err := repo.UsersInOrganizationUnit(ctx, child.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, userNames(byID), userNames(leaf))

	got, err = repo.UsersUnderSubtree(ctx, "03")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.UsersInOrganizationUnits(ctx, []primitive.ObjectID{child.ID, other.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, userNames(got))
}

func TestUsersUnderSubtree_SiblingSharingDigits(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "twelve", "12@example.com", testutil.InOrganizationUnits(fx.CreateOrganizationUnit(ctx, "12", "12", nil)))
	fx.CreateUser(ctx, "onetwothree", "123@example.com", testutil.InOrganizationUnits(fx.CreateOrganizationUnit(ctx, "123", "123", nil)))

	got, err := repo.UsersUnderSubtree(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, []string{"twelve"}, userNames(got))

	got, err = repo.UsersUnderSubtreeMatching(ctx, "12", oucode.MatchText)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"twelve", "onetwothree"}, userNames(got))
}

func TestListChildOrganizationUnits(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := fx.CreateOrganizationUnit(ctx, "00001", "Root", nil)
	fx.CreateOrganizationUnit(ctx, "00001.00002", "B", &root.ID)
	fx.CreateOrganizationUnit(ctx, "00001.00001", "A", &root.ID)

	roots, err := repo.ListChildOrganizationUnits(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)

	kids, err := repo.ListChildOrganizationUnits(ctx, &root.ID)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, "00001.00001", kids[0].Code)

	got, err := repo.GetOrganizationUnit(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Root", got.DisplayName)
}

func codes(ous []models.OrganizationUnit) []string {
	out := make([]string, 0, len(ous))
	for _, ou := range ous {
		out = append(out, ou.Code)
	}
	return out
}

func TestOrganizationUnitSubtree(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := fx.CreateOrganizationUnit(ctx, "12", "Root", nil)
	kid := fx.CreateOrganizationUnit(ctx, "12.02", "Kid", &root.ID)
	fx.CreateOrganizationUnit(ctx, "12.01", "Elder", &root.ID)
	fx.CreateOrganizationUnit(ctx, "12.02.01", "Grandkid", &kid.ID)
	fx.CreateOrganizationUnit(ctx, "123", "Lookalike", nil)

	got, err := repo.ListOrganizationUnitSubtree(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "12.01", "12.02", "12.02.01"}, codes(got), "ordered by code, segment match")

	got, err = repo.ListOrganizationUnitSubtreeMatching(ctx, "12", oucode.MatchText)
	require.NoError(t, err)
	assert.Contains(t, codes(got), "123")

	got, err = repo.ListOrganizationUnitSubtree(ctx, "99")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	found, err := repo.FindOrganizationUnitByCode(ctx, "12.02")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, kid.ID, found.ID)

	// A prefix need not name a unit.
	missing, err := repo.FindOrganizationUnitByCode(ctx, "12.0")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPageUsers(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "jsmith", "j@example.com", testutil.WithName("John", "Smith"))
	fx.CreateUser(ctx, "ksmith", "k@example.com", testutil.WithName("Kate", "Smith"))
	fx.CreateUser(ctx, "zed", "z@example.com", testutil.WithName("Zed", "Zulu"))

	plan, err := repo.NewUserPlan().WithFilter("SMITH").WithPage(1, 5)
	require.NoError(t, err)
	page, err := repo.PageUsers(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"ksmith"}, userNames(page.Items))
	assert.Equal(t, int64(2), page.Total)

	all, err := repo.NewUserPlan().WithPage(0, paging.Unbounded)
	require.NoError(t, err)
	users, err := repo.ListUsers(ctx, all)
	require.NoError(t, err)
	n, err := repo.CountUsers(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, int64(len(users)), n)
}

func TestRoles(t *testing.T) {
	repo, fx := newRepo(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateRole(ctx, "Beta")
	a := fx.CreateRole(ctx, "Alpha")

	got, err := repo.FindRoleByNormalizedName(ctx, "ALPHA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)

	got, err = repo.FindRoleByNormalizedName(ctx, "GAMMA")
	require.NoError(t, err)
	assert.Nil(t, got)

	roles, err := repo.ListRolesByIDs(ctx, []primitive.ObjectID{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Alpha", roles[0].Name)
}

func TestWorkspaceScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ws1 := primitive.NewObjectID()
	ws2 := primitive.NewObjectID()

	shared := fx.CreateRoleIn(ctx, &ws2, "Partner")
	foreignOU := fx.CreateOrganizationUnitIn(ctx, &ws2, "00001", "Partner OU", nil, shared)
	u := fx.CreateUser(ctx, "u", "u@example.com", testutil.InWorkspace(ws1), testutil.InOrganizationUnits(foreignOU))
	fx.CreateUser(ctx, "v", "v@example.com", testutil.InWorkspace(ws2))

	repo := identity.New(db, identity.Options{
		Scope: func(context.Context) (primitive.ObjectID, bool) { return ws1, true },
	})

	all, err := repo.ListUsers(ctx, repo.NewUserPlan())
	require.NoError(t, err)
	assert.Equal(t, []string{"u"}, userNames(all))

	scoped, err := repo.RoleNames(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, scoped, "scoped read must not see another workspace's units")

	unscoped, err := repo.UnscopedOrganizationUnitRoleNames(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Partner"}, unscoped)

	// Context-carried scope applies when no Scope func is set.
	plain := identity.New(db, identity.Options{})
	got, err := plain.ListUsers(workspace.WithID(ctx, ws2), plain.NewUserPlan())
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, userNames(got))
}
