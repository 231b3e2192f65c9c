// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec is the desired index set for one collection.
type Spec struct {
	Collection string
	Indexes    []mongo.IndexModel
}

// Identity lists the indexes the read paths depend on.
var Identity = []Spec{
	{
		Collection: "users",
		Indexes: []mongo.IndexModel{
			// Normalized lookup keys are unique across all users.
			named(bson.D{{Key: "normalized_user_name", Value: 1}}, "uniq_users_normalized_user_name", true),
			named(bson.D{{Key: "normalized_email", Value: 1}}, "uniq_users_normalized_email", true),
			// External login lookup ($elemMatch on provider + key)
			named(bson.D{{Key: "logins.login_provider", Value: 1}, {Key: "logins.provider_key", Value: 1}}, "idx_users_logins_provider_key", false),
			named(bson.D{{Key: "claims.claim_type", Value: 1}, {Key: "claims.claim_value", Value: 1}}, "idx_users_claims_type_value", false),
			// Membership intersections
			named(bson.D{{Key: "roles.role_id", Value: 1}}, "idx_users_roles_role_id", false),
			named(bson.D{{Key: "organization_units.organization_unit_id", Value: 1}}, "idx_users_ous_ou_id", false),
			// Default list sort + stable tiebreak
			named(bson.D{{Key: "workspace_id", Value: 1}, {Key: "user_name", Value: 1}, {Key: "_id", Value: 1}}, "idx_users_workspace_user_name__id", false),
		},
	},
	{
		Collection: "roles",
		Indexes: []mongo.IndexModel{
			named(bson.D{{Key: "workspace_id", Value: 1}, {Key: "normalized_name", Value: 1}}, "uniq_roles_workspace_normalized_name", true),
		},
	},
	{
		Collection: "organization_units",
		Indexes: []mongo.IndexModel{
			// Anchored prefix regexes on code walk these.
			named(bson.D{{Key: "workspace_id", Value: 1}, {Key: "code", Value: 1}}, "uniq_ous_workspace_code", true),
			named(bson.D{{Key: "code", Value: 1}}, "idx_ous_code", false),
			named(bson.D{{Key: "parent_id", Value: 1}}, "idx_ous_parent", false),
		},
	},
}

func named(keys bson.D, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// Report records what Reconcile did to one collection, by index name.
type Report struct {
	Reused    []string
	Created   []string
	Recreated []string
}

// EnsureAll reconciles every Identity spec. It is idempotent. Failures are
// collected across collections so one startup shows every problem.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var errs []error
	for _, spec := range Identity {
		rep, err := Reconcile(ctx, db.Collection(spec.Collection), spec.Indexes, logger)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.Collection, err))
			continue
		}
		logger.Info("indexes reconciled",
			zap.String("collection", spec.Collection),
			zap.Int("reused", len(rep.Reused)),
			zap.Int("created", len(rep.Created)),
			zap.Int("recreated", len(rep.Recreated)))
	}
	return errors.Join(errs...)
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// keySig renders index keys in order, e.g. "workspace_id:1,code:1".
func keySig(keys bson.D) string {
	var b strings.Builder
	for i, kv := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%v", kv.Key, kv.Value)
	}
	return b.String()
}

func existingBySig(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	var all []existingIndex
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}

	out := make(map[string]existingIndex, len(all))
	for _, idx := range all {
		out[keySig(idx.Key)] = idx
	}
	return out, nil
}

// Reconcile makes coll carry each desired index. An existing index with the
// same keys is kept when its name and uniqueness match, and is dropped and
// recreated otherwise.
func Reconcile(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel, logger *zap.Logger) (Report, error) {
	var rep Report

	existing, err := existingBySig(ctx, coll)
	if err != nil {
		// A missing collection lists as empty on current servers.
		logger.Warn("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []error
	for _, m := range desired {
		name := *m.Options.Name
		unique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))

		recreate := false
		if ex, ok := existing[sig]; ok {
			if ex.Name == name && ex.Unique == unique {
				log.Debug("reusing existing index")
				rep.Reused = append(rep.Reused, name)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Errorf("drop %s for %s: %w", ex.Name, name, err))
				continue
			}
			log.Info("dropped index for recreation", zap.String("from", ex.Name))
			recreate = true
		}

		start := time.Now()
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && mongo.IsDuplicateKeyError(err) {
				err = fmt.Errorf("cannot create unique index %s: duplicates present", name)
			} else {
				err = fmt.Errorf("create %s: %w", name, err)
			}
			log.Warn("index ensure failed", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		log.Info("index ensured", zap.Bool("unique", unique), zap.Duration("took", time.Since(start)))

		if recreate {
			rep.Recreated = append(rep.Recreated, name)
		} else {
			rep.Created = append(rep.Created, name)
		}
	}

	return rep, errors.Join(errs...)
}
