// internal/app/features/users/handler.go
package users

import (
	"github.com/dalemusser/identityquery/internal/app/identity"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for user reads.
type Handler struct {
	Repo *identity.Repository
	Log  *zap.Logger

	// DefaultTake is the page size when a list request gives none.
	DefaultTake int64
	// MaxTake caps take. Zero means no cap, and take=all is allowed.
	MaxTake int64
}

// NewHandler constructs a users Handler.
func NewHandler(repo *identity.Repository, defaultTake, maxTake int64, logger *zap.Logger) *Handler {
	return &Handler{
		Repo:        repo,
		Log:         logger,
		DefaultTake: defaultTake,
		MaxTake:     maxTake,
	}
}
