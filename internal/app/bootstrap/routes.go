// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/identityquery/internal/app/features/errors"
	healthfeature "github.com/dalemusser/identityquery/internal/app/features/health"
	oufeature "github.com/dalemusser/identityquery/internal/app/features/organizationunits"
	statusfeature "github.com/dalemusser/identityquery/internal/app/features/status"
	usersfeature "github.com/dalemusser/identityquery/internal/app/features/users"
	"github.com/dalemusser/identityquery/internal/app/identity"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/querymetrics"
	"github.com/dalemusser/identityquery/internal/app/system/ratelimit"
	"github.com/dalemusser/identityquery/internal/app/system/requestid"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Every request gets a request id and passes through the metrics middleware. API requests are then
// rate limited per client when rate_limit_per_minute is set, and pass the
// workspace middleware, which scopes reads to the X-Workspace-ID header when
// present. The read API is mounted under /users, /organization-units and
// /status.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	match, err := oucode.ParseMatch(appCfg.SubtreeMatch)
	if err != nil {
		return nil, err
	}

	repo := identity.New(deps.IdentityMongoDatabase, identity.Options{
		UserFilterCaseInsensitive: appCfg.UserFilterCaseInsensitive,
		SubtreeMatch:              match,
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(querymetrics.Instrument(routePattern))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.IdentityMongoClient, appCfg.MongoDatabase, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", querymetrics.Handler())

	var limiter *ratelimit.Limiter
	if appCfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.New(appCfg.RateLimitPerMinute, time.Minute)
	}

	r.Group(func(api chi.Router) {
		api.Use(ratelimit.Middleware(limiter, logger))
		api.Use(workspace.Middleware(logger))

		usersHandler := usersfeature.NewHandler(repo, appCfg.DefaultPageSize, appCfg.MaxPageSize, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler))

		ouHandler := oufeature.NewHandler(repo, logger)
		api.Mount("/organization-units", oufeature.Routes(ouHandler))

		statusHandler := statusfeature.NewHandler(deps.IdentityMongoDatabase, statusfeature.AppConfig{
			MongoDatabase:             appCfg.MongoDatabase,
			UserFilterCaseInsensitive: appCfg.UserFilterCaseInsensitive,
			DefaultPageSize:           appCfg.DefaultPageSize,
			MaxPageSize:               appCfg.MaxPageSize,
			SubtreeMatch:              match.String(),
		}, logger)
		api.Mount("/status", statusfeature.Routes(statusHandler))
	})

	return r, nil
}

// routePattern labels metrics with the matched chi pattern
// ("/users/{id}/roles") rather than the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
