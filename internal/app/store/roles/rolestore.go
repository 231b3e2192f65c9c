package rolestore

import (
	"context"
	"time"

	"github.com/dalemusser/identityquery/internal/app/system/querymetrics"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "roles"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection)}
}

// FindByNormalizedName returns the role with this normalized name, or nil.
func (s *Store) FindByNormalizedName(ctx context.Context, normalizedName string) (_ *models.Role, err error) {
	defer querymetrics.Observe(collection, "find_by_normalized_name", time.Now(), &err)

	filter := bson.M{"normalized_name": normalizedName}
	workspace.FilterCtx(ctx, filter)

	var r models.Role
	found, err := storeerr.Optional(ctx, s.c.FindOne(ctx, filter).Decode(&r))
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// GetByIDs loads the roles whose ids are in ids. Ids that do not resolve are
// skipped. Results are ordered by name.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (_ []models.Role, err error) {
	if len(ids) == 0 {
		return []models.Role{}, nil
	}
	defer querymetrics.Observe(collection, "get_by_ids", time.Now(), &err)

	filter := bson.M{"_id": bson.M{"$in": ids}}
	workspace.FilterCtx(ctx, filter)

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	defer cur.Close(ctx)

	roles := []models.Role{}
	if err := cur.All(ctx, &roles); err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	return roles, nil
}

// NamesByIDs projects the names of the roles whose ids are in ids.
func (s *Store) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (_ []string, err error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	defer querymetrics.Observe(collection, "names_by_ids", time.Now(), &err)

	filter := bson.M{"_id": bson.M{"$in": ids}}
	workspace.FilterCtx(ctx, filter)

	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}
