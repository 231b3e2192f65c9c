package oustore_test

import (
	"testing"

	oustore "github.com/dalemusser/identityquery/internal/app/store/organizationunits"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/dalemusser/identityquery/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func codes(t *testing.T, store *oustore.Store, prefix string, m oucode.Match) []string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ous, err := store.ListSubtree(ctx, prefix, m)
	if err != nil {
		t.Fatalf("ListSubtree(%q) failed: %v", prefix, err)
	}
	out := make([]string, 0, len(ous))
	for _, ou := range ous {
		out = append(out, ou.Code)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_Subtree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := oustore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, c := range []string{"00001", "00001.00001", "00001.00001.00002", "00001.00002", "000012", "00002"} {
		fixtures.CreateOrganizationUnit(ctx, c, c, nil)
	}

	tests := []struct {
		prefix string
		m      oucode.Match
		want   []string
	}{
		{"00001", oucode.MatchSegment, []string{"00001", "00001.00001", "00001.00001.00002", "00001.00002"}},
		{"00001", oucode.MatchText, []string{"00001", "00001.00001", "00001.00001.00002", "00001.00002", "000012"}},
		{"00001.00001", oucode.MatchSegment, []string{"00001.00001", "00001.00001.00002"}},
		{"00001.", oucode.MatchSegment, []string{"00001.00001", "00001.00001.00002", "00001.00002"}},
		{"00003", oucode.MatchSegment, []string{}},
		{"", oucode.MatchSegment, []string{"00001", "00001.00001", "00001.00001.00002", "00001.00002", "000012", "00002"}},
	}
	for _, tt := range tests {
		got := codes(t, store, tt.prefix, tt.m)
		if !equal(got, tt.want) {
			t.Errorf("ListSubtree(%q, %s) = %v, want %v", tt.prefix, tt.m, got, tt.want)
		}
	}

	ids, err := store.IDsInSubtree(ctx, "00001.00001", oucode.MatchSegment)
	if err != nil {
		t.Fatalf("IDsInSubtree failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("IDsInSubtree: got %d ids, want 2", len(ids))
	}
}

func TestStore_RegexMetacharactersInPrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := oustore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateOrganizationUnit(ctx, "00001", "a", nil)
	fixtures.CreateOrganizationUnit(ctx, "00001x00002", "b", nil)

	// "." must be literal, so "00001.00002" must not match "00001x00002".
	if got := codes(t, store, "00001.00002", oucode.MatchSegment); len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestStore_PointLookupsAndChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := oustore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := fixtures.CreateOrganizationUnit(ctx, "00001", "Root", nil)
	kid := fixtures.CreateOrganizationUnit(ctx, "00001.00001", "Kid", &root.ID)

	got, err := store.GetByID(ctx, kid.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ParentID == nil || *got.ParentID != root.ID {
		t.Errorf("ParentID: got %v, want %s", got.ParentID, root.ID.Hex())
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !storeerr.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	byCode, err := store.FindByCode(ctx, "00001.00001")
	if err != nil || byCode == nil || byCode.ID != kid.ID {
		t.Errorf("FindByCode: got %+v, %v", byCode, err)
	}
	if miss, err := store.FindByCode(ctx, "99999"); err != nil || miss != nil {
		t.Errorf("FindByCode miss: got %+v, %v", miss, err)
	}

	roots, err := store.ListChildren(ctx, nil)
	if err != nil || len(roots) != 1 || roots[0].ID != root.ID {
		t.Errorf("ListChildren(nil): got %+v, %v", roots, err)
	}
	kids, err := store.ListChildren(ctx, &root.ID)
	if err != nil || len(kids) != 1 || kids[0].ID != kid.ID {
		t.Errorf("ListChildren(root): got %+v, %v", kids, err)
	}

	byIDs, err := store.GetByIDs(ctx, []primitive.ObjectID{kid.ID, root.ID})
	if err != nil || len(byIDs) != 2 || byIDs[0].Code != "00001" {
		t.Errorf("GetByIDs: got %+v, %v", byIDs, err)
	}
}
