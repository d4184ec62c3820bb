package validator

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New(validator.WithRequiredStructEnabled())
	loginRegex = regexp.MustCompile(`^[a-zA-Z0-9._@-]{3,64}$`)
)

// Struct checks `validate` tags of request payloads.
func Struct(v any) error {
	return validate.Struct(v)
}

func IsValidLogin(login string) bool {
	return loginRegex.MatchString(login)
}

// IsValidPassword requires at least 8 characters with a letter and a digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 72 {
		return false
	}

	var hasLetter, hasDigit bool

	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
