// internal/app/features/status/routes.go
package status

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the status endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve) // mounted under /status
	return r
}
