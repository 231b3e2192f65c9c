// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultTake is the page size used when the request does not say.
const DefaultTake = 50

// Unbounded marks a take with no limit.
const Unbounded int64 = -1

// ErrBadNumber is returned when skip/take are present but not integers.
var ErrBadNumber = errors.New("skip and take must be integers")

// Params is the raw skip/take pair from a request. Bounds are checked by the
// caller (validator tags on the handler's query struct).
type Params struct {
	Skip int64
	Take int64
}

// Parse extracts "skip" and "take" from the query string. A missing skip is 0,
// a missing take is defaultTake, and take=all (or -1) asks for everything.
func Parse(r *http.Request, defaultTake int64) (Params, error) {
	p := Params{Skip: 0, Take: defaultTake}

	if s := strings.TrimSpace(query.Get(r, "skip")); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Params{}, ErrBadNumber
		}
		p.Skip = n
	}

	if s := strings.TrimSpace(query.Get(r, "take")); s != "" {
		if strings.EqualFold(s, "all") {
			p.Take = Unbounded
			return p, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Params{}, ErrBadNumber
		}
		p.Take = n
	}
	return p, nil
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start    int64 `json:"start"`     // 1-based start index (0 if no results)
	End      int64 `json:"end"`       // 1-based end index (0 if no results)
	PrevSkip int64 `json:"prev_skip"` // skip value for the previous page
	NextSkip int64 `json:"next_skip"` // skip value for the next page
	HasPrev  bool  `json:"has_prev"`
	HasNext  bool  `json:"has_next"`
}

// ComputeRange calculates display values given skip/take, the number of
// rows returned, and the total matching count.
func ComputeRange(skip, take, shown, total int64) Range {
	if shown == 0 {
		return Range{PrevSkip: prevSkip(skip, take), HasPrev: skip > 0}
	}
	end := skip + shown
	return Range{
		Start:    skip + 1,
		End:      end,
		PrevSkip: prevSkip(skip, take),
		NextSkip: end,
		HasPrev:  skip > 0,
		HasNext:  end < total,
	}
}

func prevSkip(skip, take int64) int64 {
	if take < 0 {
		return 0
	}
	p := skip - take
	if p < 0 {
		p = 0
	}
	return p
}
