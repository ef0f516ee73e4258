package service

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "mealplan/internal/errors"
)

// Validation tags for profile fields. Request DTOs carry the same tags.
const (
	UsernameRules = "required,min=3,max=20,nowhitespace"
	PasswordRules = "required,min=5"
	NameRules     = "required,alpha"
	EmailRules    = "required,email"
)

// NewStructValidator returns a validator with the custom rules profile fields use.
func NewStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

var profileValidate = NewStructValidator()

// ProfileValidator validates user profile fields.
type ProfileValidator struct {
	validate *validator.Validate
}

// NewProfileValidator creates a new profile validator.
func NewProfileValidator() *ProfileValidator {
	return &ProfileValidator{validate: profileValidate}
}

func (v *ProfileValidator) check(value, rules, message string) error {
	if err := v.validate.Var(value, rules); err != nil {
		return apperrors.NewValidationError(message)
	}
	return nil
}

// ValidateUsername checks the username length bounds and rejects whitespace.
func (v *ProfileValidator) ValidateUsername(username string) error {
	return v.check(username, UsernameRules, "username must be 3 to 20 characters without whitespace")
}

// ValidatePassword checks the minimum password length.
func (v *ProfileValidator) ValidatePassword(password string) error {
	return v.check(password, PasswordRules, "password must be at least 5 characters")
}

// ValidateName checks that a first or last name is alphabetic.
func (v *ProfileValidator) ValidateName(field, name string) error {
	return v.check(name, NameRules, field+" must contain letters only")
}

// ValidateEmail checks the address format.
func (v *ProfileValidator) ValidateEmail(email string) error {
	return v.check(email, EmailRules, "email is invalid")
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
