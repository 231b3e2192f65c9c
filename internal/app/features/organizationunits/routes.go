// internal/app/features/organizationunits/routes.go
package organizationunits

import "github.com/go-chi/chi/v5"

// Routes mounts the organization unit read API (typically under
// "/organization-units").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeChildren)
	r.Get("/users", h.ServeUsersInUnits)
	r.Get("/subtree", h.ServeSubtree)
	r.Get("/subtree/users", h.ServeSubtreeUsers)

	r.Get("/{id}", h.ServeGet)
	r.Get("/{id}/children", h.ServeChildren)
	r.Get("/{id}/users", h.ServeUsers)

	return r
}
