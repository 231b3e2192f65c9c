// Package inputval validates decoded request input with struct tags.
//
// Rules are go-playground/validator tags plus the custom rules registered
// here. A field's `label` tag names it in messages ("Take must be at most
// 500."); without one the Go field name is used.
package inputval

import (
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/identityquery/internal/app/store/queries/userlist"
	"github.com/dalemusser/identityquery/internal/app/system/oucode"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the field errors from Validate.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("objectids", func(fl validator.FieldLevel) bool {
			return IsValidObjectIDList(fl.Field().String())
		})
		_ = v.RegisterValidation("sortfield", func(fl validator.FieldLevel) bool {
			_, err := userlist.ParseSortField(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("oumatch", func(fl validator.FieldLevel) bool {
			_, err := oucode.ParseMatch(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Validate runs the struct's validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "min":
		return name + " must be at least " + fe.Param() + "."
	case "max":
		if fe.Kind() == reflect.String {
			return name + " must be at most " + fe.Param() + " characters."
		}
		return name + " must be at most " + fe.Param() + "."
	case "objectid":
		return name + " must be a 24-character hex id."
	case "objectids":
		return name + " must be a comma-separated list of 24-character hex ids."
	case "sortfield":
		return name + " is not a sortable field (descending order is not supported)."
	case "oumatch":
		return name + " must be \"segment\" or \"text\"."
	default:
		return name + " is invalid."
	}
}

// IsValidObjectID reports whether s (trimmed) is a 24-hex-digit ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidObjectIDList reports whether s is a non-empty comma-separated list
// of ObjectIDs. Blank entries are ignored.
func IsValidObjectIDList(s string) bool {
	_, err := ParseObjectIDList(s)
	return err == nil
}

// ParseObjectIDList parses a comma-separated list of ObjectIDs, ignoring
// blank entries. An empty list is an error.
func ParseObjectIDList(s string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, primitive.ErrInvalidHex
	}
	return ids, nil
}
