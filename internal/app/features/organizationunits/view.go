// internal/app/features/organizationunits/view.go
package organizationunits

import (
	"net/http"

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

// ServeGet handles GET /organization-units/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := unitID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ous.get")
	defer cancel()

	ou, err := h.Repo.GetOrganizationUnit(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "ous.get", err)
		return
	}
	respond.OK(w, r, ou)
}

// ServeChildren handles GET /organization-units (the roots) and
// GET /organization-units/{id}/children.
func (h *Handler) ServeChildren(w http.ResponseWriter, r *http.Request) {
	var parent *primitive.ObjectID
	if chi.URLParam(r, "id") != "" {
		id, ok := unitID(w, r)
		if !ok {
			return
		}
		parent = &id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ous.children")
	defer cancel()

	ous, err := h.Repo.ListChildOrganizationUnits(ctx, parent)
	if err != nil {
		respond.Error(w, r, h.Log, "ous.children", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.OrganizationUnit]{Items: ous})
}

// ServeSubtree handles GET /organization-units/subtree?code=&match=: the units
// under a code prefix, ordered by code. root is the unit whose code equals the
// prefix, or null when the prefix names no unit.
func (h *Handler) ServeSubtree(w http.ResponseWriter, r *http.Request) {
	q := subtreeQuery{
		Code:  normalize.QueryParam(query.Get(r, "code")),
		Match: normalize.QueryParam(query.Get(r, "match")),
	}
	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "ous.subtree")
	defer cancel()

	var (
		ous []models.OrganizationUnit
		err error
	)
	if q.Match == "" {
		ous, err = h.Repo.ListOrganizationUnitSubtree(ctx, q.Code)
	} else {
		m, _ := oucode.ParseMatch(q.Match)
		ous, err = h.Repo.ListOrganizationUnitSubtreeMatching(ctx, q.Code, m)
	}
	if err != nil {
		respond.Error(w, r, h.Log, "ous.subtree", err)
		return
	}

	resp := subtreeResponse{Items: make([]subtreeItem, 0, len(ous))}
	if q.Code != "" {
		if resp.Root, err = h.Repo.FindOrganizationUnitByCode(ctx, q.Code); err != nil {
			respond.Error(w, r, h.Log, "ous.subtree", err)
			return
		}
	}
	for _, ou := range ous {
		resp.Items = append(resp.Items, subtreeItem{
			OrganizationUnit: ou,
			Depth:            oucode.Depth(ou.Code),
			ParentCode:       oucode.Parent(ou.Code),
		})
	}
	respond.OK(w, r, resp)
}
