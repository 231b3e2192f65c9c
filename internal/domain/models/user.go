// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an identity record. Logins, claims and the two membership sets are
// embedded and live and die with the user document.
//
// NOTE:
//   - Role and organization unit memberships hold ids only. Roles and OUs are
//     separate documents; nothing here guarantees the referenced ids exist.
//   - NormalizedUserName and NormalizedEmail are unique across users. The
//     unique indexes in system/indexes enforce it, not this package.
type User struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	WorkspaceID *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`

	UserName           string  `bson:"user_name" json:"user_name"`
	NormalizedUserName string  `bson:"normalized_user_name" json:"normalized_user_name"`
	Email              string  `bson:"email" json:"email"`
	NormalizedEmail    string  `bson:"normalized_email" json:"normalized_email"`
	Name               *string `bson:"name,omitempty" json:"name,omitempty"`
	Surname            *string `bson:"surname,omitempty" json:"surname,omitempty"`
	IsActive           bool    `bson:"is_active" json:"is_active"`

	Logins            []UserLogin            `bson:"logins" json:"logins"`
	Claims            []UserClaim            `bson:"claims" json:"claims"`
	Roles             []UserRole             `bson:"roles" json:"roles"`
	OrganizationUnits []UserOrganizationUnit `bson:"organization_units" json:"organization_units"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserLogin is an external login (e.g. "Google" + subject id).
type UserLogin struct {
	LoginProvider       string `bson:"login_provider" json:"login_provider"`
	ProviderKey         string `bson:"provider_key" json:"provider_key"`
	ProviderDisplayName string `bson:"provider_display_name,omitempty" json:"provider_display_name,omitempty"`
}

// UserClaim is a (type, value) pair. Claims are not unique across users.
type UserClaim struct {
	ClaimType  string `bson:"claim_type" json:"claim_type"`
	ClaimValue string `bson:"claim_value" json:"claim_value"`
}

// UserRole records a direct role assignment.
type UserRole struct {
	RoleID primitive.ObjectID `bson:"role_id" json:"role_id"`
}

// UserOrganizationUnit records membership in an organization unit.
type UserOrganizationUnit struct {
	OrganizationUnitID primitive.ObjectID `bson:"organization_unit_id" json:"organization_unit_id"`
}

// RoleIDs returns the ids of the user's direct role assignments.
func (u User) RoleIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.RoleID)
	}
	return ids
}

// OrganizationUnitIDs returns the ids of the OUs the user belongs to.
func (u User) OrganizationUnitIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(u.OrganizationUnits))
	for _, m := range u.OrganizationUnits {
		ids = append(ids, m.OrganizationUnitID)
	}
	return ids
}
