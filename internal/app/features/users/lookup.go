// internal/app/features/users/lookup.go
package users

import (
	"net/http"
	"strings"

	"github.com/dalemusser/identityquery/internal/app/system/inputval"
	"github.com/dalemusser/identityquery/internal/app/system/normalize"
	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userID validates the {id} URL parameter. On failure it has already
// written a 400.
func userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	p := idParam{ID: strings.TrimSpace(chi.URLParam(r, "id"))}
	if res := inputval.Validate(p); res.HasErrors() {
		respond.BadRequest(w, r, res.First())
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(p.ID)
	return id, true
}

// ServeGet handles GET /users/{id}. A missing user is a 404.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.get")
	defer cancel()

	u, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.get", err)
		return
	}
	respond.OK(w, r, u)
}

// ServeByUserName handles GET /users/by-username/{name}. The name is
// normalized before lookup, so any casing works.
func (h *Handler) ServeByUserName(w http.ResponseWriter, r *http.Request) {
	name := normalize.UserName(chi.URLParam(r, "name"))
	if name == "" {
		respond.BadRequest(w, r, "User name is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.by_username")
	defer cancel()

	u, err := h.Repo.FindByNormalizedUserName(ctx, name)
	h.writeOptional(w, r, "users.by_username", "user", name, u, err)
}

// ServeByEmail handles GET /users/by-email/{email}.
func (h *Handler) ServeByEmail(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(chi.URLParam(r, "email"))
	if email == "" {
		respond.BadRequest(w, r, "Email is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.by_email")
	defer cancel()

	u, err := h.Repo.FindByNormalizedEmail(ctx, email)
	h.writeOptional(w, r, "users.by_email", "user", email, u, err)
}

// ServeByLogin handles GET /users/by-login?provider=&key=. Provider and key
// are matched exactly.
func (h *Handler) ServeByLogin(w http.ResponseWriter, r *http.Request) {
	q := loginQuery{
		Provider: normalize.QueryParam(query.Get(r, "provider")),
		Key:      normalize.QueryParam(query.Get(r, "key")),
	}
	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.by_login")
	defer cancel()

	u, err := h.Repo.FindByLogin(ctx, q.Provider, q.Key)
	h.writeOptional(w, r, "users.by_login", "login", q.Provider+"/"+q.Key, u, err)
}

// ServeByClaim handles GET /users/by-claim?type=&value=.
func (h *Handler) ServeByClaim(w http.ResponseWriter, r *http.Request) {
	q := claimQuery{
		Type:  normalize.QueryParam(query.Get(r, "type")),
		Value: normalize.QueryParam(query.Get(r, "value")),
	}
	if res := inputval.Validate(q); res.HasErrors() {
		respond.BadRequest(w, r, res.All())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.by_claim")
	defer cancel()

	list, err := h.Repo.ListByClaim(ctx, q.Type, q.Value)
	if err != nil {
		respond.Error(w, r, h.Log, "users.by_claim", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.User]{Items: list})
}

// ServeByRole handles GET /users/by-role/{role}: users holding the role
// directly. An unknown role is an empty list.
func (h *Handler) ServeByRole(w http.ResponseWriter, r *http.Request) {
	role := normalize.RoleName(chi.URLParam(r, "role"))
	if role == "" {
		respond.BadRequest(w, r, "Role name is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.by_role")
	defer cancel()

	list, err := h.Repo.ListByNormalizedRoleName(ctx, role)
	if err != nil {
		respond.Error(w, r, h.Log, "users.by_role", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.User]{Items: list})
}

// writeOptional turns a nil result from an optional lookup into a 404 at the
// HTTP boundary; the repository itself reports a miss as nil, nil.
func (h *Handler) writeOptional(w http.ResponseWriter, r *http.Request, op, entity, key string, u *models.User, err error) {
	if err != nil {
		respond.Error(w, r, h.Log, op, err)
		return
	}
	if u == nil {
		respond.Error(w, r, h.Log, op, storeerr.NotFound(entity, key))
		return
	}
	respond.OK(w, r, u)
}
