package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Report JSON field names so clients see the keys they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags and returns one
// FieldError per failed rule, or nil when s is valid
func Struct(s interface{}) []errs.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []errs.FieldError{{Message: err.Error()}}
	}

	fields := make([]errs.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errs.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return fields
}

// CreateComment checks a comment body: present and at most 500 characters
func CreateComment(req *models.CreateCommentRequest) error {
	if fields := Struct(req); fields != nil {
		return errs.InvalidInput(errs.MsgInvalidContent, fields)
	}
	return nil
}

// CreateProfile checks a profile body: a username of 3 to 50 characters
func CreateProfile(req *models.CreateProfileRequest) error {
	if fields := Struct(req); fields != nil {
		return errs.InvalidInput(errs.MsgInvalidUsername, fields)
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
