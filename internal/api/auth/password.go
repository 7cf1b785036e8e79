package auth

import (
	"errors"
	"strings"
	"unicode"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 12

// passwordSpecials are the accepted special characters.
const passwordSpecials = "!@#$%^&*()-_=+[]{}|;:',.<>?/`~\"\\"

// PasswordValidationError lists every failed password requirement.
type PasswordValidationError struct {
	Messages []string
}

func (e *PasswordValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// passwordRules are the character-class requirements, checked per rune.
var passwordRules = []struct {
	message string
	match   func(rune) bool
}{
	{"password must contain at least 1 uppercase letter", unicode.IsUpper},
	{"password must contain at least 1 lowercase letter", unicode.IsLower},
	{"password must contain at least 1 digit", unicode.IsDigit},
	{"password must contain at least 1 special character (!@#$%^&*...)", func(r rune) bool {
		return strings.ContainsRune(passwordSpecials, r)
	}},
}

// ValidatePassword checks if a password meets complexity requirements:
// at least 12 characters with an uppercase letter, a lowercase letter,
// a digit, and a special character. The returned error reports every
// failed requirement, not just the first.
func ValidatePassword(password string) error {
	var messages []string

	if len(password) < minPasswordLength {
		messages = append(messages, "password must be at least 12 characters")
	}

	for _, rule := range passwordRules {
		if !strings.ContainsFunc(password, rule.match) {
			messages = append(messages, rule.message)
		}
	}

	if len(messages) > 0 {
		return &PasswordValidationError{Messages: messages}
	}
	return nil
}

// ValidatePasswordOrError returns an error suitable for API responses,
// carrying only the first failed requirement.
func ValidatePasswordOrError(password string) error {
	err := ValidatePassword(password)
	if err == nil {
		return nil
	}
	var validErr *PasswordValidationError
	if errors.As(err, &validErr) {
		return errors.New(validErr.Messages[0])
	}
	return err
}
