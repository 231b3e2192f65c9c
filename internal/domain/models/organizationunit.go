// internal/domain/models/organizationunit.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizationUnit is a node in the OU tree. Code is the materialized path
// ("00001.00002"); a child's code is always its parent's code, a dot, and one
// more segment. See system/oucode.
type OrganizationUnit struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	WorkspaceID *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Code        string              `bson:"code" json:"code"`
	DisplayName string              `bson:"display_name" json:"display_name"`

	// Roles granted to every member of this unit.
	Roles []OrganizationUnitRole `bson:"roles" json:"roles"`
}

// OrganizationUnitRole grants a role to members of an OU.
type OrganizationUnitRole struct {
	RoleID primitive.ObjectID `bson:"role_id" json:"role_id"`
}

// RoleIDs returns the ids of the roles this unit grants.
func (ou OrganizationUnit) RoleIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(ou.Roles))
	for _, r := range ou.Roles {
		ids = append(ids, r.RoleID)
	}
	return ids
}
