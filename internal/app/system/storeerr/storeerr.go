// Package storeerr defines how read failures are reported to callers.
//
// Three outcomes matter:
//   - ErrNotFound: a required single-entity lookup matched nothing.
//   - the context's own error (context.Canceled / DeadlineExceeded): the
//     caller gave up; reported distinctly from a store failure.
//   - anything else: a store failure, returned unchanged.
//
// A list that matches nothing is not an error; it is an empty slice.
package storeerr

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned (wrapped) when a required entity does not exist.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the entity kind and key that missed.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Classify normalizes a driver error. When ctx is done the context error is
// returned so cancellation is never mistaken for a store failure; the driver
// wraps it inconsistently across server versions.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Required maps mongo.ErrNoDocuments to a NotFound error for entity/key and
// classifies everything else.
func Required(ctx context.Context, err error, entity string, key any) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound(entity, key)
	}
	return Classify(ctx, err)
}

// Optional turns mongo.ErrNoDocuments into (false, nil) so point lookups can
// report a miss without an error.
func Optional(ctx context.Context, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, Classify(ctx, err)
}
