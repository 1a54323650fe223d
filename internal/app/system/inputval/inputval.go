// Package inputval validates decoded request bodies with struct tags.
//
// Fields are named in messages by their `label` tag, falling back to the
// json name:
//
//	type createBugInput struct {
//	    Title   string `json:"title" validate:"required,max=200" label:"Title"`
//	    GroupID string `json:"group" validate:"required,objectid" label:"Group"`
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dalemusser/bughub/internal/app/system/normalize"
	"github.com/dalemusser/bughub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func v() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && len(fl.Field().String()) <= n
		})
		// Blank passes the enumeration tags; pair them with required when
		// the field must be present.
		_ = validate.RegisterValidation("bugstatus", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.TrimSpace(s) == "" || normalize.BugStatus(s).Valid()
		})
		_ = validate.RegisterValidation("bugpriority", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.TrimSpace(s) == "" || normalize.BugPriority(s).Valid()
		})
		_ = validate.RegisterValidation("resolution", func(fl validator.FieldLevel) bool {
			s := normalize.RequestStatus(fl.Field().String())
			return s == models.RequestAccepted || s == models.RequestRejected
		})
	})
	return validate
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
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
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate runs the struct's validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := v().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required."
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "objectid":
		return label + " must be a valid id."
	case "bugstatus":
		return models.ErrBadBugStatus.Error()
	case "bugpriority":
		return models.ErrBadBugPriority.Error()
	case "resolution":
		return models.ErrBadResolution.Error()
	}
	return label + " is invalid."
}

// IsValidEmail reports whether s is a bare address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return v().Var(s, "email") == nil
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
