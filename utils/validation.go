package utils

import "fmt"

// defaultAllowed is the character set accepted in storage names and key namespaces
const defaultAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-:.@+"

var allowedCharsArray [128]bool

func init() {
	for _, c := range defaultAllowed {
		allowedCharsArray[c] = true
	}
}

// ValidationOptions defines the validation rules for a string
type ValidationOptions struct {
	FieldName              string // Name of the field for error messages
	MaxLength              int    // Maximum allowed length in bytes, 0 means unlimited
	EmptyAllowed           bool   // Whether empty strings are allowed
	AdditionalAllowedChars string // ASCII characters accepted beyond the default set
}

// ValidateString validates a string against the given options
func ValidateString(value string, opts ValidationOptions) error {
	if len(value) == 0 {
		if opts.EmptyAllowed {
			return nil
		}
		return fmt.Errorf("%s cannot be empty", opts.FieldName)
	}

	if opts.MaxLength > 0 && len(value) > opts.MaxLength {
		return fmt.Errorf("%s cannot exceed %d bytes, got %d bytes", opts.FieldName, opts.MaxLength, len(value))
	}

	const hint = "Only alphanumeric ASCII, underscore (_), hyphen (-), colon (:), period (.), at (@), and plus (+) are allowed"

	for i, r := range value {
		if r < 128 && (allowedCharsArray[r] || containsRune(opts.AdditionalAllowedChars, r)) {
			continue
		}
		return fmt.Errorf("%s contains invalid character '%c' at position %d. %s", opts.FieldName, r, i, hint)
	}
	return nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// ValidateNamespace validates a key namespace produced from a resolved storage name.
func ValidateNamespace(namespace string) error {
	return ValidateString(namespace, ValidationOptions{
		FieldName: "namespace",
		MaxLength: 128,
	})
}
