package userlist

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPlan_Defaults(t *testing.T) {
	p := NewPlan()
	if p.FilterText() != "" {
		t.Errorf("FilterText() = %q, want empty", p.FilterText())
	}
	if p.Sort() != SortUserName {
		t.Errorf("Sort() = %v, want %v", p.Sort(), SortUserName)
	}
	if p.Skip() != 0 || p.Take() != paging.Unbounded {
		t.Errorf("Skip/Take = %d/%d, want 0/%d", p.Skip(), p.Take(), paging.Unbounded)
	}
	if f := p.Filter(); len(f) != 0 {
		t.Errorf("Filter() = %v, want empty", f)
	}

	opts := p.FindOptions()
	if opts.Skip != nil || opts.Limit != nil {
		t.Errorf("expected no skip or limit, got %v / %v", opts.Skip, opts.Limit)
	}
	wantSort := bson.D{{Key: "user_name", Value: 1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(opts.Sort, wantSort) {
		t.Errorf("Sort = %v, want %v", opts.Sort, wantSort)
	}
}

func TestPlan_WithIsCopy(t *testing.T) {
	base := NewPlan()
	filtered := base.WithFilter("smith").WithSort(SortEmail)

	if base.FilterText() != "" || base.Sort() != SortUserName {
		t.Errorf("base plan changed: %q / %v", base.FilterText(), base.Sort())
	}
	if filtered.FilterText() != "smith" || filtered.Sort() != SortEmail {
		t.Errorf("derived plan: %q / %v", filtered.FilterText(), filtered.Sort())
	}
}

func TestPlan_WithPage(t *testing.T) {
	p, err := NewPlan().WithPage(20, 10)
	if err != nil {
		t.Fatalf("WithPage: %v", err)
	}
	if p.Skip() != 20 || p.Take() != 10 {
		t.Errorf("Skip/Take = %d/%d, want 20/10", p.Skip(), p.Take())
	}

	opts := p.FindOptions()
	if opts.Skip == nil || *opts.Skip != 20 {
		t.Errorf("FindOptions skip = %v, want 20", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 10 {
		t.Errorf("FindOptions limit = %v, want 10", opts.Limit)
	}

	p, err = NewPlan().WithPage(5, paging.Unbounded)
	if err != nil {
		t.Fatalf("WithPage unbounded: %v", err)
	}
	if p.FindOptions().Limit != nil {
		t.Error("unbounded take should set no limit")
	}
}

func TestPlan_WithPageRejectsNegative(t *testing.T) {
	base := NewPlan()
	if _, err := base.WithPage(-1, 10); !errors.Is(err, ErrNegativePage) {
		t.Errorf("negative skip: err = %v, want ErrNegativePage", err)
	}
	if _, err := base.WithPage(0, -2); !errors.Is(err, ErrNegativePage) {
		t.Errorf("negative take: err = %v, want ErrNegativePage", err)
	}
}

func TestPlan_FilterCaseInsensitive(t *testing.T) {
	f := NewPlan().WithFilter("a.b").WithCaseInsensitive(true).Filter()

	or, ok := f["$or"].([]bson.M)
	if !ok || len(or) != 4 {
		t.Fatalf("$or = %v, want 4 clauses", f["$or"])
	}

	want := primitive.Regex{Pattern: `a\.b`, Options: "i"}
	for i, key := range []string{"user_name", "email", "name", "surname"} {
		if !reflect.DeepEqual(or[i], bson.M{key: want}) {
			t.Errorf("clause %d = %v, want %v", i, or[i], bson.M{key: want})
		}
	}
}

func TestPlan_FilterCaseSensitive(t *testing.T) {
	f := NewPlan().WithFilter("Smith").Filter()
	or := f["$or"].([]bson.M)
	if got := or[0]["user_name"]; got != (primitive.Regex{Pattern: "Smith"}) {
		t.Errorf("user_name clause = %v", got)
	}
}

func TestPlan_FilterBlankIsNoFilter(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if f := NewPlan().WithFilter(text).Filter(); len(f) != 0 {
			t.Errorf("Filter() for %q = %v, want empty", text, f)
		}
	}
}

func TestPlan_SortKey(t *testing.T) {
	opts := NewPlan().WithSort(SortCreatedAt).FindOptions()
	want := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(opts.Sort, want) {
		t.Errorf("Sort = %v, want %v", opts.Sort, want)
	}
}
