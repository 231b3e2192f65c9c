// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/identityquery/internal/app/system/querymetrics"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	querymetrics.Register()

	tc := timeouts.Current()
	logger.Info("identityquery ready",
		zap.Bool("user_filter_case_insensitive", appCfg.UserFilterCaseInsensitive),
		zap.Int64("default_page_size", appCfg.DefaultPageSize),
		zap.Int64("max_page_size", appCfg.MaxPageSize),
		zap.String("subtree_match", appCfg.SubtreeMatch),
		zap.Int("rate_limit_per_minute", appCfg.RateLimitPerMinute),
		zap.Duration("timeout_short", tc.Short),
		zap.Duration("timeout_medium", tc.Medium),
		zap.Duration("timeout_long", tc.Long))
	return nil
}
