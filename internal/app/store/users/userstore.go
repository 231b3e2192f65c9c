package userstore

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

const collection = "users"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection)}
}

// GetByID loads a user by ObjectID. A miss is a storeerr.ErrNotFound error.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (_ *models.User, err error) {
	defer querymetrics.Observe(collection, "get_by_id", time.Now(), &err)

	filter := bson.M{"_id": id}
	workspace.FilterCtx(ctx, filter)

	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, storeerr.Required(ctx, err, "user", id.Hex())
	}
	return &u, nil
}

// FindOne returns the first user matching filter, or nil when none does.
func (s *Store) FindOne(ctx context.Context, filter bson.M) (_ *models.User, err error) {
	defer querymetrics.Observe(collection, "find_one", time.Now(), &err)

	workspace.FilterCtx(ctx, filter)

	var u models.User
	found, err := storeerr.Optional(ctx, s.c.FindOne(ctx, filter).Decode(&u))
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// FindByNormalizedUserName is an exact match on normalized_user_name.
func (s *Store) FindByNormalizedUserName(ctx context.Context, normalizedUserName string) (*models.User, error) {
	return s.FindOne(ctx, bson.M{"normalized_user_name": normalizedUserName})
}

// FindByNormalizedEmail is an exact match on normalized_email.
func (s *Store) FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	return s.FindOne(ctx, bson.M{"normalized_email": normalizedEmail})
}

// FindByLogin matches provider and key within the same embedded login.
func (s *Store) FindByLogin(ctx context.Context, loginProvider, providerKey string) (*models.User, error) {
	return s.FindOne(ctx, bson.M{"logins": bson.M{"$elemMatch": bson.M{
		"login_provider": loginProvider,
		"provider_key":   providerKey,
	}}})
}

// Find returns users matching filter with optional find options. The caller
// builds the filter and options (sorting, skip/limit, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) (_ []models.User, err error) {
	defer querymetrics.Observe(collection, "find", time.Now(), &err)

	workspace.FilterCtx(ctx, filter)

	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, storeerr.Classify(ctx, err)
	}
	return users, nil
}

// Count returns the number of users matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (_ int64, err error) {
	defer querymetrics.Observe(collection, "count", time.Now(), &err)

	workspace.FilterCtx(ctx, filter)

	n, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, storeerr.Classify(ctx, err)
	}
	return n, nil
}

// ListByClaim returns every user holding a claim with this type and value.
func (s *Store) ListByClaim(ctx context.Context, claimType, claimValue string) ([]models.User, error) {
	return s.Find(ctx, bson.M{"claims": bson.M{"$elemMatch": bson.M{
		"claim_type":  claimType,
		"claim_value": claimValue,
	}}})
}

// ListByRoleID returns users directly assigned roleID. OU-inherited holders
// are not included.
func (s *Store) ListByRoleID(ctx context.Context, roleID primitive.ObjectID) ([]models.User, error) {
	return s.Find(ctx, bson.M{"roles.role_id": roleID})
}

// ListInOrganizationUnits returns users belonging to any of ouIDs.
func (s *Store) ListInOrganizationUnits(ctx context.Context, ouIDs []primitive.ObjectID) ([]models.User, error) {
	if len(ouIDs) == 0 {
		return []models.User{}, nil
	}
	return s.Find(ctx, bson.M{"organization_units.organization_unit_id": bson.M{"$in": ouIDs}})
}
