package handler

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/monochrome/portal/internal/core/domain"
)

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Besides the built-in tags it knows strongpassword, budget and timeline.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("budget", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.BudgetOptions, fl.Field().String())
	})
	_ = v.RegisterValidation("timeline", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.TimelineOptions, fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// strongPassword requires six characters with upper and lower case letters,
// a digit and a special character.
func strongPassword(pw string) bool {
	return len(pw) >= 6 &&
		hasUpper.MatchString(pw) &&
		hasLower.MatchString(pw) &&
		hasDigit.MatchString(pw) &&
		hasSpecial.MatchString(pw)
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "strongpassword":
		return "password must be at least 6 characters and contain upper and lower case letters, a number and a special character"
	case "budget":
		return "budget must be one of: " + strings.Join(domain.BudgetOptions, ", ")
	case "timeline":
		return "timeline must be one of: " + strings.Join(domain.TimelineOptions, ", ")
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
