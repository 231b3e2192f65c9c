// internal/app/features/organizationunits/users.go
package organizationunits

import (
	"net/http"
	"strings"

	"github.com/dalemusser/identityquery/internal/app/system/inputval"
	"github.com/dalemusser/identityquery/internal/app/system/normalize"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func unitID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	p := idParam{ID: strings.TrimSpace(chi.URLParam(r, "id"))}
	if res := inputval.Validate(p); res.HasErrors() {
		respond.BadRequest(w, r, res.First())
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(p.ID)
	return id, true
}

// ServeUsers handles GET /organization-units/{id}/users: direct members of
// one unit, not its descendants.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := unitID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ous.users")
	defer cancel()

	list, err := h.Repo.UsersInOrganizationUnit(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "ous.users", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.User]{Items: list})
}

// ServeUsersInUnits handles GET /organization-units/users?ids=a,b: users in
// any of the listed units.
func (h *Handler) ServeUsersInUnits(w http.ResponseWriter, r *http.Request) {
	q := idsQuery{IDs: normalize.QueryParam(query.Get(r, "ids"))}
	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return
	}
	ids, err := inputval.ParseObjectIDList(q.IDs)
	if err != nil {
		respond.BadRequest(w, r, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ous.users_in_units")
	defer cancel()

	list, err := h.Repo.UsersInOrganizationUnits(ctx, ids)
	if err != nil {
		respond.Error(w, r, h.Log, "ous.users_in_units", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.User]{Items: list})
}

// ServeSubtreeUsers handles GET /organization-units/subtree/users?code=&match=.
// match is "segment" (default: the prefix must end at a separator) or "text"
// (raw string prefix). No matching unit is an empty list.
func (h *Handler) ServeSubtreeUsers(w http.ResponseWriter, r *http.Request) {
	q := subtreeQuery{
		Code:  normalize.QueryParam(query.Get(r, "code")),
		Match: normalize.QueryParam(query.Get(r, "match")),
	}
	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "ous.subtree_users")
	defer cancel()

	var (
		list []models.User
		err  error
	)
	if q.Match == "" {
		list, err = h.Repo.UsersUnderSubtree(ctx, q.Code)
	} else {
		m, _ := oucode.ParseMatch(q.Match)
		list, err = h.Repo.UsersUnderSubtreeMatching(ctx, q.Code, m)
	}
	if err != nil {
		respond.Error(w, r, h.Log, "ous.subtree_users", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.User]{Items: list})
}
