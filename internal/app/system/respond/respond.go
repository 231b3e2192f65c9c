// Package respond writes JSON bodies and maps read errors to HTTP statuses.
package respond

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/identityquery/internal/app/system/requestid"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// StatusClientClosedRequest is the de facto status for a request abandoned
// by its client (nginx's 499). Nothing reads the body; it is for logs and
// metrics.
const StatusClientClosedRequest = 499

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, r *http.Request, v any) {
	JSON(w, r, http.StatusOK, v)
}

// ErrorMessage writes {"error": msg} with status.
func ErrorMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, errorBody{Error: msg})
}

// BadRequest writes a 400 with msg.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	ErrorMessage(w, r, http.StatusBadRequest, msg)
}

// Status maps a read error to an HTTP status:
//
//	storeerr.ErrNotFound      404
//	context.Canceled          499
//	context.DeadlineExceeded  504
//	anything else             500
func Status(err error) int {
	switch {
	case storeerr.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as JSON with the status from Status. Store failures are
// logged with op and the request path and reported without driver detail.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, op string, err error) {
	status := Status(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.Error("store read failed",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestid.FromContext(r.Context())),
			zap.Error(err))
		msg = "internal error"
	case StatusClientClosedRequest, http.StatusGatewayTimeout:
		log.Warn("read abandoned",
			zap.String("op", op),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestid.FromContext(r.Context())),
			zap.Error(err))
	}
	ErrorMessage(w, r, status, msg)
}
