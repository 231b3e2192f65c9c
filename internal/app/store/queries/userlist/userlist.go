package userlist

import (
	"context"

	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserFinder is the slice of the user store a listing needs.
type UserFinder interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// List evaluates plan against users.
func List(ctx context.Context, users UserFinder, plan Plan) ([]models.User, error) {
	// take=0 asks for nothing; the driver would read 0 as "no limit".
	if plan.Take() == 0 {
		return []models.User{}, nil
	}
	return users.Find(ctx, plan.Filter(), plan.FindOptions())
}

// Count returns how many users plan's filter matches, ignoring sort and page.
func Count(ctx context.Context, users UserFinder, plan Plan) (int64, error) {
	return users.Count(ctx, plan.Filter())
}

// Result is a page of users with the total matching count.
type Result struct {
	Items []models.User `json:"items"`
	Total int64         `json:"total"`
}

// Page runs List and Count for the same plan.
func Page(ctx context.Context, users UserFinder, plan Plan) (Result, error) {
	items, err := List(ctx, users, plan)
	if err != nil {
		return Result{}, err
	}
	total, err := Count(ctx, users, plan)
	if err != nil {
		return Result{}, err
	}
	return Result{Items: items, Total: total}, nil
}
