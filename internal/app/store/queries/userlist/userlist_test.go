package userlist_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dalemusser/identityquery/internal/app/store/queries/userlist"
	userstore "github.com/dalemusser/identityquery/internal/app/store/users"
	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"github.com/dalemusser/identityquery/internal/testutil"
)

func userNames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.UserName)
	}
	return out
}

func TestList_SmithFilterSortedBySurname(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "jsmith", "john@example.com", testutil.WithName("John", "Smith"))
	fx.CreateUser(ctx, "adoe", "anna@example.com", testutil.WithName("Anna", "Doe"))
	fx.CreateUser(ctx, "bob", "bob.smithers@example.com", testutil.WithName("Bob", "Abel"))

	store := userstore.New(db)
	plan := userlist.NewPlan().
		WithFilter("smith").
		WithCaseInsensitive(true).
		WithSort(userlist.SortSurname)

	page, err := userlist.Page(ctx, store, plan)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}

	if got, want := userNames(page.Items), []string{"bob", "jsmith"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
}

func TestList_CaseSensitiveWhenConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Smith", "s@example.com")
	store := userstore.New(db)

	got, err := userlist.List(ctx, store, userlist.NewPlan().WithFilter("smith"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("case-sensitive: got %v, want none", userNames(got))
	}

	got, err = userlist.List(ctx, store, userlist.NewPlan().WithFilter("smith").WithCaseInsensitive(true))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("case-insensitive: got %d users, want 1", len(got))
	}
}

func TestList_FilterIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "a.b", "ab@example.com")
	fx.CreateUser(ctx, "axb", "axb@example.org")
	store := userstore.New(db)

	got, err := userlist.List(ctx, store, userlist.NewPlan().WithFilter("a.b"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if names := userNames(got); !reflect.DeepEqual(names, []string{"a.b"}) {
		t.Errorf("got %v, want [a.b]", names)
	}
}

func TestList_WhitespaceFilterMatchesEveryone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No stored field contains three spaces.
	fx.CreateUser(ctx, "a", "a@example.com")
	fx.CreateUser(ctx, "b", "b@example.com")
	store := userstore.New(db)

	plan := userlist.NewPlan().WithFilter("   ")
	got, err := userlist.List(ctx, store, plan)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	n, err := userlist.Count(ctx, store, plan)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if len(got) != 2 || n != 2 {
		t.Errorf("blank filter: listed %d, counted %d, want 2 and 2", len(got), n)
	}
}

func TestList_CountMatchesUnpagedList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 7; i++ {
		fx.CreateUser(ctx, fmt.Sprintf("user%02d", i), fmt.Sprintf("u%d@example.com", i))
	}
	fx.CreateUser(ctx, "other", "x@elsewhere.org")
	store := userstore.New(db)

	for _, filter := range []string{"", "user", "example", "elsewhere", "nothing-matches"} {
		plan := userlist.NewPlan().WithFilter(filter).WithCaseInsensitive(true)
		all, err := userlist.List(ctx, store, plan)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", filter, err)
		}
		n, err := userlist.Count(ctx, store, plan)
		if err != nil {
			t.Fatalf("Count(%q) failed: %v", filter, err)
		}
		if n != int64(len(all)) {
			t.Errorf("filter %q: Count = %d, len(List) = %d", filter, n, len(all))
		}
	}
}

func TestList_PagesAreContiguousSubsequences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Duplicate surnames exercise the _id tie-break.
	for i := 0; i < 9; i++ {
		fx.CreateUser(ctx, fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i),
			testutil.WithName("N", fmt.Sprintf("S%d", i%3)))
	}
	store := userstore.New(db)
	base := userlist.NewPlan().WithSort(userlist.SortSurname)

	full, err := userlist.List(ctx, store, base)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(full) != 9 {
		t.Fatalf("len(full) = %d, want 9", len(full))
	}

	for _, tc := range []struct{ skip, take int64 }{{0, 4}, {4, 4}, {8, 4}, {3, 0}, {20, 5}, {2, paging.Unbounded}} {
		plan, err := base.WithPage(tc.skip, tc.take)
		if err != nil {
			t.Fatalf("WithPage(%d, %d): %v", tc.skip, tc.take, err)
		}
		got, err := userlist.List(ctx, store, plan)
		if err != nil {
			t.Fatalf("List skip=%d take=%d: %v", tc.skip, tc.take, err)
		}

		start := min(tc.skip, int64(len(full)))
		end := int64(len(full))
		if tc.take != paging.Unbounded {
			end = min(start+tc.take, end)
		}
		if want, have := userNames(full[start:end]), userNames(got); !reflect.DeepEqual(want, have) {
			t.Errorf("skip=%d take=%d: got %v, want %v", tc.skip, tc.take, have, want)
		}
	}
}

func TestList_TakeZeroIsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "a", "a@example.com")
	plan, err := userlist.NewPlan().WithPage(0, 0)
	if err != nil {
		t.Fatalf("WithPage: %v", err)
	}

	page, err := userlist.Page(ctx, userstore.New(db), plan)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %#v, want empty non-nil slice", page.Items)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
}
