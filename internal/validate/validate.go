// Package validate holds the input rules shared by every account entry point.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinNameLength is the shortest accepted display name after trimming.
	MinNameLength = 2
	// MaxNameLength is the longest accepted display name after trimming.
	MaxNameLength = 50
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// PasswordSymbols lists the characters that satisfy the symbol rule.
	PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidName reports whether the trimmed name is between 2 and 50 characters.
func IsValidName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= MinNameLength && n <= MaxNameLength
}

// IsValidEmail is a syntactic local@domain.tld check. It says nothing about
// deliverability.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword requires an uppercase letter, a lowercase letter, a digit,
// a symbol from PasswordSymbols and at least eight characters.
func IsStrongPassword(password string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol && utf8.RuneCountInString(password) >= MinPasswordLength
}
