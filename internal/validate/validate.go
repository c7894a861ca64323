// Package validate wraps struct validation for store inputs. Validation
// failures are raised before any network call and are never retried.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the validation failure for one input struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is makes every Errors value match every other Errors target, so callers
// can test errors.Is(err, validate.Errors{}) without knowing the fields.
func (e Errors) Is(target error) bool {
	_, ok := target.(Errors)
	return ok
}

// Struct validates s against its tags. Returns nil or an Errors value.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs Errors
	for _, fe := range err.(validator.ValidationErrors) {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must have at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must have at most %s", field, param)
		case "eqfield":
			message = fmt.Sprintf("%s must match %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		errs = append(errs, FieldError{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return errs
}
