// internal/app/features/users/roles.go
package users

import (
	"net/http"

	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeRoles handles GET /users/{id}/roles: effective roles, direct and
// OU-granted.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.roles")
	defer cancel()

	roles, err := h.Repo.Roles(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.roles", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.Role]{Items: roles})
}

// ServeRoleNames handles GET /users/{id}/role-names.
func (h *Handler) ServeRoleNames(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.role_names")
	defer cancel()

	names, err := h.Repo.RoleNames(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.role_names", err)
		return
	}
	respond.OK(w, r, itemsResponse[string]{Items: names})
}

// ServeRoleIDs handles GET /users/{id}/role-ids.
func (h *Handler) ServeRoleIDs(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.role_ids")
	defer cancel()

	ids, err := h.Repo.RoleIDs(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.role_ids", err)
		return
	}
	respond.OK(w, r, itemsResponse[primitive.ObjectID]{Items: ids})
}

// ServeOrganizationUnits handles GET /users/{id}/organization-units.
func (h *Handler) ServeOrganizationUnits(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.organization_units")
	defer cancel()

	ous, err := h.Repo.OrganizationUnits(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.organization_units", err)
		return
	}
	respond.OK(w, r, itemsResponse[models.OrganizationUnit]{Items: ous})
}

// ServeOrganizationUnitRoleNames handles
// GET /users/{id}/organization-unit-role-names. Units and roles are read
// across all workspaces; the user itself is still read in scope.
func (h *Handler) ServeOrganizationUnitRoleNames(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.ou_role_names")
	defer cancel()

	names, err := h.Repo.UnscopedOrganizationUnitRoleNames(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, "users.ou_role_names", err)
		return
	}
	h.Log.Debug("unscoped organization unit role read", zap.String("user_id", id.Hex()))
	respond.OK(w, r, itemsResponse[string]{Items: names})
}
