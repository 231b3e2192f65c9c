// Package ouhierarchy answers "which users are in this part of the OU tree".
//
// Subtrees are selected by code prefix on the materialized path (see
// system/oucode) rather than by walking parent links: one query finds the unit
// ids, a second finds the users whose membership intersects them.
package ouhierarchy

import (
	"context"

	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/dalemusser/identityquery/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubtreeIndex finds the ids of the units under a code prefix.
type SubtreeIndex interface {
	IDsInSubtree(ctx context.Context, prefix string, m oucode.Match) ([]primitive.ObjectID, error)
}

// MemberLister finds users belonging to any of a set of units.
type MemberLister interface {
	ListInOrganizationUnits(ctx context.Context, ouIDs []primitive.ObjectID) ([]models.User, error)
}

type Resolver struct {
	ous   SubtreeIndex
	users MemberLister
	match oucode.Match
}

// New returns a resolver using match for UsersUnderSubtree.
func New(ous SubtreeIndex, users MemberLister, match oucode.Match) *Resolver {
	return &Resolver{ous: ous, users: users, match: match}
}

// Match reports the resolver's default subtree match mode.
func (r *Resolver) Match() oucode.Match { return r.match }

// UsersUnderSubtree returns the users in the unit whose code is codePrefix and
// in all of its descendants. The prefix need not be an existing unit's code.
// No matching unit yields an empty list, not an error.
func (r *Resolver) UsersUnderSubtree(ctx context.Context, codePrefix string) ([]models.User, error) {
	return r.UsersUnderSubtreeMatching(ctx, codePrefix, r.match)
}

// UsersUnderSubtreeMatching is UsersUnderSubtree with an explicit match mode.
func (r *Resolver) UsersUnderSubtreeMatching(ctx context.Context, codePrefix string, m oucode.Match) ([]models.User, error) {
	ids, err := r.ous.IDsInSubtree(ctx, codePrefix, m)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.users.ListInOrganizationUnits(ctx, ids)
}

// UsersInOrganizationUnit returns the members of exactly one unit.
func (r *Resolver) UsersInOrganizationUnit(ctx context.Context, ouID primitive.ObjectID) ([]models.User, error) {
	return r.users.ListInOrganizationUnits(ctx, []primitive.ObjectID{ouID})
}

// UsersInOrganizationUnits returns users belonging to any of ouIDs.
func (r *Resolver) UsersInOrganizationUnits(ctx context.Context, ouIDs []primitive.ObjectID) ([]models.User, error) {
	return r.users.ListInOrganizationUnits(ctx, ouIDs)
}
