package organizationunits

import "github.com/dalemusser/identityquery/internal/domain/models"

type idParam struct {
	ID string `validate:"required,objectid" label:"Organization unit id"`
}

type idsQuery struct {
	IDs string `validate:"required,objectids" label:"Ids"`
}

// subtreeQuery selects a subtree by code prefix. An empty code selects every
// unit.
type subtreeQuery struct {
	Code  string `validate:"max=1024" label:"Code"`
	Match string `validate:"omitempty,oumatch" label:"Match"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// subtreeItem is a unit in a subtree listing with its position in the tree.
type subtreeItem struct {
	models.OrganizationUnit
	Depth      int    `json:"depth"`
	ParentCode string `json:"parent_code"`
}

// subtreeResponse carries the unit whose code equals the requested prefix, if
// any, and every unit under it ordered by code.
type subtreeResponse struct {
	Root  *models.OrganizationUnit `json:"root"`
	Items []subtreeItem            `json:"items"`
}
