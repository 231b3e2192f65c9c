// Package workspace carries the tenant scope of a read through its context.
//
// Stores call FilterCtx on every filter they build. When the context carries
// a workspace, workspace_id equality is added; when it carries none (host
// scope) or has been marked Unscoped, the filter is left alone.
package workspace

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/identityquery/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey string

const (
	workspaceKey ctxKey = "workspace"
	unscopedKey  ctxKey = "workspace_unscoped"
)

// Header is the request header naming the workspace for a request.
const Header = "X-Workspace-ID"

// Info holds workspace context for the current read.
type Info struct {
	ID primitive.ObjectID
}

// WithID returns a context scoped to workspace id.
func WithID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, workspaceKey, &Info{ID: id})
}

// FromContext returns the workspace info from the context, or nil.
func FromContext(ctx context.Context) *Info {
	if ws, ok := ctx.Value(workspaceKey).(*Info); ok {
		return ws
	}
	return nil
}

// Unscoped marks ctx so FilterCtx stops adding workspace_id. Queries issued
// with it may return documents from any workspace.
func Unscoped(ctx context.Context) context.Context {
	return context.WithValue(ctx, unscopedKey, true)
}

// IsUnscoped reports whether ctx was marked with Unscoped.
func IsUnscoped(ctx context.Context) bool {
	v, _ := ctx.Value(unscopedKey).(bool)
	return v
}

// FilterCtx adds workspace_id to filter when ctx is scoped to a workspace.
//
//	filter := bson.M{"normalized_name": name}
//	workspace.FilterCtx(ctx, filter)
func FilterCtx(ctx context.Context, filter map[string]interface{}) {
	if IsUnscoped(ctx) {
		return
	}
	ws := FromContext(ctx)
	if ws == nil {
		return
	}
	filter["workspace_id"] = ws.ID
}

// Middleware reads the workspace id from Header. Requests without the header
// run in host scope; a malformed id is rejected with 400.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(Header))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				logger.Warn("bad workspace header",
					zap.String("value", raw),
					zap.Error(err))
				respond.BadRequest(w, r, "invalid "+Header)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
