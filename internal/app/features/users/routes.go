// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes mounts the user read API (typically under "/users").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// LIST / COUNT
	r.Get("/", h.ServeList)
	r.Get("/count", h.ServeCount)

	// POINT LOOKUPS
	r.Get("/by-username/{name}", h.ServeByUserName)
	r.Get("/by-email/{email}", h.ServeByEmail)
	r.Get("/by-login", h.ServeByLogin)
	r.Get("/by-claim", h.ServeByClaim)
	r.Get("/by-role/{role}", h.ServeByRole)

	// ONE USER
	r.Route("/{id}", func(ur chi.Router) {
		ur.Get("/", h.ServeGet)
		ur.Get("/roles", h.ServeRoles)
		ur.Get("/role-names", h.ServeRoleNames)
		ur.Get("/role-ids", h.ServeRoleIDs)
		ur.Get("/organization-units", h.ServeOrganizationUnits)
		ur.Get("/organization-unit-role-names", h.ServeOrganizationUnitRoleNames)
	})

	return r
}
