package users

import (
	"github.com/dalemusser/identityquery/internal/app/system/paging"
	"github.com/dalemusser/identityquery/internal/domain/models"
)

// listQuery is the decoded query string of GET /users.
type listQuery struct {
	Filter string `validate:"max=256" label:"Filter"`
	Sort   string `validate:"omitempty,sortfield" label:"Sort"`
	Skip   int64  `validate:"min=0" label:"Skip"`
	Take   int64  `validate:"min=-1" label:"Take"`
}

type loginQuery struct {
	Provider string `validate:"required,max=128" label:"Provider"`
	Key      string `validate:"required,max=256" label:"Key"`
}

type claimQuery struct {
	Type  string `validate:"required,max=256" label:"Claim type"`
	Value string `validate:"required,max=1024" label:"Claim value"`
}

type idParam struct {
	ID string `validate:"required,objectid" label:"User id"`
}

// listResponse is the JSON body of GET /users.
type listResponse struct {
	Items []models.User `json:"items"`
	Total int64         `json:"total"`
	Skip  int64         `json:"skip"`
	Take  int64         `json:"take"`
	Range paging.Range  `json:"range"`
}

type countResponse struct {
	Total int64 `json:"total"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}
