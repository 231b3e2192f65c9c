// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for identityquery.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, max_page_size, etc.
//   - Environment variables: IDENTITYQUERY_MONGO_URI, IDENTITYQUERY_MAX_PAGE_SIZE, etc.
//   - Command-line flags: --mongo_uri, --max_page_size, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "identity", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// User listing
	{Name: "user_filter_case_insensitive", Default: true, Desc: "Case-insensitive matching for the user list filter"},
	{Name: "default_page_size", Default: paging.DefaultTake, Desc: "Page size when a list request does not give take"},
	{Name: "max_page_size", Default: 500, Desc: "Largest take accepted; 0 also allows take=all"},

	// OU hierarchy
	{Name: "subtree_match", Default: "segment", Desc: "OU subtree prefix match: 'segment' (stop at '.') or 'text' (raw prefix)"},

	// Schema
	{Name: "ensure_indexes", Default: true, Desc: "Create or reconcile indexes at startup"},

	// Read deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health pings (e.g., 2s)"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for point lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list, count and subtree queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for effective-role resolution and index setup"},

	// Rate limiting
	{Name: "rate_limit_per_minute", Default: 0, Desc: "Requests per minute per client IP on the read API (0 = unlimited)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, IDENTITYQUERY_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "IDENTITYQUERY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		UserFilterCaseInsensitive: appValues.Bool("user_filter_case_insensitive"),
		DefaultPageSize:           int64(appValues.Int("default_page_size")),
		MaxPageSize:               int64(appValues.Int("max_page_size")),

		SubtreeMatch: appValues.String("subtree_match"),

		EnsureIndexes: appValues.Bool("ensure_indexes"),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.Defaults.Ping),
			Short:  appValues.Duration("timeout_short", timeouts.Defaults.Short),
			Medium: appValues.Duration("timeout_medium", timeouts.Defaults.Medium),
			Long:   appValues.Duration("timeout_long", timeouts.Defaults.Long),
		},

		RateLimitPerMinute: appValues.Int("rate_limit_per_minute"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here so a typo fails before the first
// connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be positive, got %d", appCfg.DefaultPageSize)
	}
	if appCfg.MaxPageSize < 0 {
		return fmt.Errorf("max_page_size must not be negative, got %d", appCfg.MaxPageSize)
	}
	if appCfg.MaxPageSize > 0 && appCfg.DefaultPageSize > appCfg.MaxPageSize {
		return fmt.Errorf("default_page_size (%d) exceeds max_page_size (%d)",
			appCfg.DefaultPageSize, appCfg.MaxPageSize)
	}

	if err := appCfg.Timeouts.Validate(); err != nil {
		return err
	}

	if appCfg.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute must not be negative, got %d", appCfg.RateLimitPerMinute)
	}

	if _, err := oucode.ParseMatch(appCfg.SubtreeMatch); err != nil {
		return fmt.Errorf("subtree_match %q: %w", appCfg.SubtreeMatch, err)
	}

	return nil
}
