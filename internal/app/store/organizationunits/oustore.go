package oustore

import (
	"context"
	"time"

	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/app/system/querymetrics"
	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/dalemusser/identityquery/internal/app/system/workspace"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "organization_units"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection)}
}

// GetByID loads an organization unit by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (_ *models.OrganizationUnit, err error) {
	defer querymetrics.Observe(collection, "get_by_id", time.Now(), &err)

	filter := bson.M{"_id": id}
	workspace.FilterCtx(ctx, filter)

	var ou models.OrganizationUnit
	if err := s.c.FindOne(ctx, filter).Decode(&ou); err != nil {
		return nil, storeerr.Required(ctx, err, "organization unit", id.Hex())
	}
	return &ou, nil
}

// FindByCode returns the unit with exactly this code, or nil.
func (s *Store) FindByCode(ctx context.Context, code string) (_ *models.OrganizationUnit, err error) {
	defer querymetrics.Observe(collection, "find_by_code", time.Now(), &err)

	filter := bson.M{"code": code}
	workspace.FilterCtx(ctx, filter)

	var ou models.OrganizationUnit
	found, err := storeerr.Optional(ctx, s.c.FindOne(ctx, filter).Decode(&ou))
	if err != nil || !found {
		return nil, err
	}
	return &ou, nil
}

// GetByIDs loads the units whose ids are in ids, ordered by code.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.OrganizationUnit, error) {
	if len(ids) == 0 {
		return []models.OrganizationUnit{}, nil
	}
	return s.find(ctx, "get_by_ids", bson.M{"_id": bson.M{"$in": ids}})
}

// ListSubtree returns the units whose code falls under prefix, ordered by
// code so parents precede their descendants.
func (s *Store) ListSubtree(ctx context.Context, prefix string, m oucode.Match) ([]models.OrganizationUnit, error) {
	return s.find(ctx, "list_subtree", subtreeFilter(prefix, m))
}

// ListChildren returns the direct children of parentID. A nil parentID lists
// the roots.
func (s *Store) ListChildren(ctx context.Context, parentID *primitive.ObjectID) ([]models.OrganizationUnit, error) {
	filter := bson.M{"parent_id": nil}
	if parentID != nil {
		filter["parent_id"] = *parentID
	}
	return s.find(ctx, "list_children", filter)
}

// IDsInSubtree projects only the ids of the units under prefix.
func (s *Store) IDsInSubtree(ctx context.Context, prefix string, m oucode.Match) (_ []primitive.ObjectID, err error) {
	defer querymetrics.Observe(collection, "ids_in_subtree", time.Now(), &err)

	filter := subtreeFilter(prefix, m)
	workspace.FilterCtx(ctx, filter)

	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func subtreeFilter(prefix string, m oucode.Match) bson.M {
	if prefix == "" {
		return bson.M{}
	}
	return bson.M{"code": primitive.Regex{Pattern: oucode.SubtreePattern(prefix, m)}}
}

func (s *Store) find(ctx context.Context, op string, filter bson.M) (_ []models.OrganizationUnit, err error) {
	defer querymetrics.Observe(collection, op, time.Now(), &err)

	workspace.FilterCtx(ctx, filter)

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	defer cur.Close(ctx)

	ous := []models.OrganizationUnit{}
	if err := cur.All(ctx, &ous); err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	return ous, nil
}
