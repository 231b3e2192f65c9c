// internal/app/bootstrap/appconfig.go
package bootstrap

import "github.com/dalemusser/identityquery/internal/app/system/timeouts"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, logging level
// and request limits live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name holding users, roles and organization_units
	MongoMaxPoolSize uint64 // Maximum connections in the driver pool
	MongoMinPoolSize uint64 // Connections the driver keeps warm

	// User listing
	UserFilterCaseInsensitive bool  // Fold case in the free-text user filter
	DefaultPageSize           int64 // take when a list request gives none
	MaxPageSize               int64 // upper bound on take; 0 allows take=all

	// OU subtree queries: "segment" or "text"
	SubtreeMatch string

	// Reconcile indexes during EnsureSchema
	EnsureIndexes bool

	// Store read deadlines per tier (ping, short, medium, long)
	Timeouts timeouts.Config

	// Per-client request limit on the read API; 0 disables limiting
	RateLimitPerMinute int
}
