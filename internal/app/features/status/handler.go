// internal/app/features/status/handler.go
package status

import (
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/identityquery/internal/app/store/metrics"
	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"github.com/dalemusser/identityquery/internal/app/system/timeouts"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AppConfig is the slice of application config the status page reports.
type AppConfig struct {
	MongoDatabase             string
	UserFilterCaseInsensitive bool
	DefaultPageSize           int64
	MaxPageSize               int64
	SubtreeMatch              string
}

// Handler serves GET /status.
type Handler struct {
	DB      *mongo.Database
	AppCfg  AppConfig
	Log     *zap.Logger
	started time.Time
}

// NewHandler constructs a status Handler.
func NewHandler(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		AppCfg:  appCfg,
		Log:     logger,
		started: time.Now(),
	}
}

type timeoutsView struct {
	Ping   string `json:"ping"`
	Short  string `json:"short"`
	Medium string `json:"medium"`
	Long   string `json:"long"`
}

type statusResponse struct {
	Database  string              `json:"database"`
	Workspace string              `json:"workspace,omitempty"`
	Uptime    string              `json:"uptime"`
	Counts    metricsstore.Counts `json:"counts"`
	Timeouts  timeoutsView        `json:"timeouts"`
	Listing   struct {
		CaseInsensitive bool  `json:"case_insensitive"`
		DefaultTake     int64 `json:"default_take"`
		MaxTake         int64 `json:"max_take"`
	} `json:"listing"`
	SubtreeMatch string `json:"subtree_match"`
}

// Serve reports collection counts (scoped to the request's workspace) and
// the effective read configuration.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "status counts")
	defer cancel()

	tc := timeouts.Current()
	resp := statusResponse{
		Database: h.AppCfg.MongoDatabase,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Counts:   metricsstore.FetchCounts(ctx, h.DB),
		Timeouts: timeoutsView{
			Ping:   tc.Ping.String(),
			Short:  tc.Short.String(),
			Medium: tc.Medium.String(),
			Long:   tc.Long.String(),
		},
		SubtreeMatch: h.AppCfg.SubtreeMatch,
	}
	if ws := workspace.FromContext(r.Context()); ws != nil {
		resp.Workspace = ws.ID.Hex()
	}
	resp.Listing.CaseInsensitive = h.AppCfg.UserFilterCaseInsensitive
	resp.Listing.DefaultTake = h.AppCfg.DefaultPageSize
	resp.Listing.MaxTake = h.AppCfg.MaxPageSize

	respond.OK(w, r, resp)
}
