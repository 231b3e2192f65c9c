package userlist

import (
	"errors"
	"strings"
)

// SortField is the closed set of fields a user list can be ordered by.
type SortField int

const (
	SortUserName SortField = iota // default
	SortEmail
	SortName
	SortSurname
	SortNormalizedUserName
	SortNormalizedEmail
	SortCreatedAt
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrDescendingSort   = errors.New("descending sort is not supported")
)

var sortFields = []struct {
	field SortField
	name  string
	key   string
}{
	{SortUserName, "UserName", "user_name"},
	{SortEmail, "Email", "email"},
	{SortName, "Name", "name"},
	{SortSurname, "Surname", "surname"},
	{SortNormalizedUserName, "NormalizedUserName", "normalized_user_name"},
	{SortNormalizedEmail, "NormalizedEmail", "normalized_email"},
	{SortCreatedAt, "CreatedAt", "created_at"},
}

// String returns the field's display name ("UserName").
func (f SortField) String() string {
	for _, sf := range sortFields {
		if sf.field == f {
			return sf.name
		}
	}
	return "UserName"
}

// Key returns the BSON key the field sorts on.
func (f SortField) Key() string {
	for _, sf := range sortFields {
		if sf.field == f {
			return sf.key
		}
	}
	return "user_name"
}

// ParseSortField resolves a caller-supplied name into a SortField. It accepts
// the display name in any case ("username", "UserName") or the BSON key
// ("user_name"), optionally followed by " asc". Empty means SortUserName.
func ParseSortField(s string) (SortField, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return SortUserName, nil
	case 1:
	case 2:
		switch strings.ToLower(fields[1]) {
		case "asc", "ascending":
		case "desc", "descending":
			return SortUserName, ErrDescendingSort
		default:
			return SortUserName, ErrUnknownSortField
		}
	default:
		return SortUserName, ErrUnknownSortField
	}

	name := fields[0]
	for _, sf := range sortFields {
		if strings.EqualFold(name, sf.name) || name == sf.key {
			return sf.field, nil
		}
	}
	return SortUserName, ErrUnknownSortField
}
