// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/identityquery/internal/app/system/respond"
)

// Handler is the errors feature handler. It answers requests no route
// claimed, in the same JSON shape as every other error.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound is the router's fallback for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.ErrorMessage(w, r, http.StatusNotFound, "no route for "+r.URL.Path)
}

// MethodNotAllowed is the router's fallback for a known path with the wrong
// method. The API is read-only.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.ErrorMessage(w, r, http.StatusMethodNotAllowed, r.Method+" not allowed; this API is read-only")
}
