package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Validate checks struct fields against their `validate` tags.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// Var validates a single value against a tag expression.
func Var(v interface{}, tag string) error {
	return validate.Var(v, tag)
}
