// internal/app/features/users/list.go
package users

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/identityquery/internal/app/store/queries/userlist"
	"github.com/dalemusser/identityquery/internal/app/system/inputval"
	"github.com/dalemusser/identityquery/internal/app/system/normalize"
	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /users?filter=&sort=&skip=&take=.
//
//	{ "items":[…], "total":120, "skip":50, "take":50, "range":{…} }
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	plan, q, ok := h.planFromRequest(w, r, true)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.list")
	defer cancel()

	page, err := h.Repo.PageUsers(ctx, plan)
	if err != nil {
		respond.Error(w, r, h.Log, "users.list", err)
		return
	}

	respond.OK(w, r, listResponse{
		Items: page.Items,
		Total: page.Total,
		Skip:  q.Skip,
		Take:  q.Take,
		Range: paging.ComputeRange(q.Skip, q.Take, int64(len(page.Items)), page.Total),
	})
}

// ServeCount handles GET /users/count?filter=. Sort and paging are ignored.
func (h *Handler) ServeCount(w http.ResponseWriter, r *http.Request) {
	plan, _, ok := h.planFromRequest(w, r, false)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.count")
	defer cancel()

	n, err := h.Repo.CountUsers(ctx, plan)
	if err != nil {
		respond.Error(w, r, h.Log, "users.count", err)
		return
	}
	respond.OK(w, r, countResponse{Total: n})
}

// planFromRequest decodes and validates the list query. On failure it has
// already written a 400.
func (h *Handler) planFromRequest(w http.ResponseWriter, r *http.Request, withPage bool) (userlist.Plan, listQuery, bool) {
	q := listQuery{
		Filter: normalize.QueryParam(query.Get(r, "filter")),
		Sort:   normalize.QueryParam(query.Get(r, "sort")),
	}
	if withPage {
		p, err := paging.Parse(r, h.DefaultTake)
		if err != nil {
			respond.BadRequest(w, r, err.Error())
			return userlist.Plan{}, q, false
		}
		q.Skip, q.Take = p.Skip, p.Take
	}

	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return userlist.Plan{}, q, false
	}
	if h.MaxTake > 0 && (q.Take == paging.Unbounded || q.Take > h.MaxTake) {
		respond.BadRequest(w, r, fmt.Sprintf("Take must be at most %d.", h.MaxTake))
		return userlist.Plan{}, q, false
	}

	sort, err := userlist.ParseSortField(q.Sort)
	if err != nil {
		respond.BadRequest(w, r, err.Error())
		return userlist.Plan{}, q, false
	}

	plan := h.Repo.NewUserPlan().WithFilter(q.Filter).WithSort(sort)
	if withPage {
		if plan, err = plan.WithPage(q.Skip, q.Take); err != nil {
			respond.BadRequest(w, r, err.Error())
			return userlist.Plan{}, q, false
		}
	}
	return plan, q, true
}
