package validation

import (
	"fmt"
	"unicode/utf8"

	dErrors "signup/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (16 KB).
	// A full sign-up form is a dozen short strings.
	MaxBodySize = 16 * 1024
)

// Field length limits
const (
	// MaxNameLength bounds first and last names.
	MaxNameLength = 64

	// MaxUsernameLength bounds the desired username.
	MaxUsernameLength = 64

	// MaxPasswordLength bounds both password inputs in runes.
	MaxPasswordLength = 72

	// MaxPasswordBytes is bcrypt's input limit. Multibyte passwords reach it before MaxPasswordLength.
	MaxPasswordBytes = 72

	// MaxZipLength bounds zip codes, including ZIP+4 forms.
	MaxZipLength = 10

	// MaxStateLength bounds state codes.
	MaxStateLength = 2

	// MaxCountyLength bounds county names.
	MaxCountyLength = 64

	// MaxFieldValueLength is the generic upper bound for any single field value.
	MaxFieldValueLength = 128
)

// Suggested password bounds
const (
	MinSuggestedPasswordLength = 6
	MaxSuggestedPasswordLength = 64
)

// CheckStringLength validates that a string does not exceed the maximum length in runes.
func CheckStringLength(fieldName, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckByteLength validates that a string's UTF-8 encoding does not exceed max bytes.
func CheckByteLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max size of %d bytes", fieldName, max))
	}
	return nil
}

// CheckRange validates that n lies within [min, max].
func CheckRange(fieldName string, n, min, max int) error {
	if n < min || n > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be between %d and %d", fieldName, min, max))
	}
	return nil
}
