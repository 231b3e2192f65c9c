package metricsstore

import (
	"context"

	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals reported by the status endpoint.
type Counts struct {
	Users                 int64 `json:"users"`
	ActiveUsers           int64 `json:"active_users"`
	Roles                 int64 `json:"roles"`
	OrganizationUnits     int64 `json:"organization_units"`
	RootOrganizationUnits int64 `json:"root_organization_units"`
}

// FetchCounts returns collection totals for the status endpoint.
// Intentionally tolerant: on error it returns 0 for that counter.
// All counts are workspace-scoped when running in a workspace context.
func FetchCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	count := func(coll string, filter bson.M) int64 {
		workspace.FilterCtx(ctx, filter)
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			return 0
		}
		return n
	}

	out.Users = count("users", bson.M{})
	out.ActiveUsers = count("users", bson.M{"is_active": true})
	out.Roles = count("roles", bson.M{})
	out.OrganizationUnits = count("organization_units", bson.M{})
	out.RootOrganizationUnits = count("organization_units", bson.M{"parent_id": nil})

	return out
}
