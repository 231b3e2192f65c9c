// Package userlist builds and runs filtered, sorted, paged user listings.
//
// A Plan is an immutable value: every With* method returns a modified copy,
// so one base plan can be shared between goroutines and specialized per
// request. List and Count take the same Plan and use the same Filter, which
// keeps totals consistent with the rows they describe.
package userlist

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNegativePage is returned by WithPage for a negative skip or take.
var ErrNegativePage = errors.New("skip and take must not be negative")

// searchKeys are the fields a free-text filter is matched against.
var searchKeys = []string{"user_name", "email", "name", "surname"}

// Plan describes one user listing.
type Plan struct {
	filter          string
	sort            SortField
	skip            int64
	take            int64 // paging.Unbounded for no limit
	caseInsensitive bool
}

// NewPlan returns a plan with no filter, sorted by user name, unbounded.
func NewPlan() Plan {
	return Plan{sort: SortUserName, take: paging.Unbounded}
}

// WithFilter sets the free-text filter. Empty means no filter.
func (p Plan) WithFilter(filter string) Plan {
	p.filter = filter
	return p
}

// WithSort sets the sort field (always ascending).
func (p Plan) WithSort(f SortField) Plan {
	p.sort = f
	return p
}

// WithPage sets skip then take. Use paging.Unbounded for take to lift the
// limit; any other negative value is rejected.
func (p Plan) WithPage(skip, take int64) (Plan, error) {
	if skip < 0 || (take < 0 && take != paging.Unbounded) {
		return p, ErrNegativePage
	}
	p.skip = skip
	p.take = take
	return p, nil
}

// WithCaseInsensitive selects case-folded substring matching. When false,
// matching is whatever the server's regex default is (case-sensitive on
// MongoDB), so the result depends on the store.
func (p Plan) WithCaseInsensitive(ci bool) Plan {
	p.caseInsensitive = ci
	return p
}

func (p Plan) FilterText() string { return p.filter }
func (p Plan) Sort() SortField { return p.sort }
func (p Plan) Skip() int64 { return p.skip }
func (p Plan) Take() int64 { return p.take }
func (p Plan) CaseInsensitive() bool { return p.caseInsensitive }

// Filter is the predicate shared by List and Count: a user matches when any
// of user_name, email, name or surname contains the filter text. Regex
// metacharacters in the text are matched literally. Blank or whitespace-only
// text applies no filter.
func (p Plan) Filter() bson.M {
	if strings.TrimSpace(p.filter) == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(p.filter)}
	if p.caseInsensitive {
		re.Options = "i"
	}
	or := make([]bson.M, 0, len(searchKeys))
	for _, k := range searchKeys {
		or = append(or, bson.M{k: re})
	}
	return bson.M{"$or": or}
}

// FindOptions applies sort, then skip, then limit. _id breaks ties so that
// consecutive pages never overlap or skip rows.
func (p Plan) FindOptions() *options.FindOptions {
	find := options.Find().
		SetSort(bson.D{{Key: p.sort.Key(), Value: 1}, {Key: "_id", Value: 1}})
	if p.skip > 0 {
		find.SetSkip(p.skip)
	}
	if p.take >= 0 {
		find.SetLimit(p.take)
	}
	return find
}
