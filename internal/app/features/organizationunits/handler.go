// internal/app/features/organizationunits/handler.go
package organizationunits

import (
	"github.com/dalemusser/identityquery/internal/app/identity"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for organization unit reads.
type Handler struct {
	Repo *identity.Repository
	Log  *zap.Logger
}

// NewHandler constructs an organization units Handler.
func NewHandler(repo *identity.Repository, logger *zap.Logger) *Handler {
	return &Handler{
		Repo: repo,
		Log:  logger,
	}
}
