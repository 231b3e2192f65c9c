// internal/domain/models/role.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is referenced by id from users and organization units, never embedded.
type Role struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	WorkspaceID    *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	NormalizedName string              `bson:"normalized_name" json:"normalized_name"` // unique
	IsDefault      bool                `bson:"is_default" json:"is_default"`
	IsPublic       bool                `bson:"is_public" json:"is_public"`
}
