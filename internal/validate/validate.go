// Package validate checks the syntax of form inputs before they are sent to
// the backend.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	mailRe  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,9})+$`)
	phoneRe = regexp.MustCompile(`^(((\+|00)32[ ]?(?:\(0\)[ ]?)?)|0){1}(4(60|[789]\d)/?(\s?\d{2}\.?){2}(\s?\d{2})|(\d/?\s?\d{3}|\d{2}/?\s?\d{2})(\.?\s?\d{2}){2})$`)
)

// passwordSpecials are the characters accepted as "special".
const passwordSpecials = `!@#$%^&*()_+{}[]:;<>,.?~\-`

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Mail reports whether s looks like an e-mail address.
func Mail(s string) bool {
	return mailRe.MatchString(s)
}

// Password reports whether s has at least 8 characters with a digit, a
// lower-case letter, an upper-case letter and a special character.
func Password(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	var digit, lower, upper, special bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return digit && lower && upper && special
}

// Phone reports whether s is a Belgian landline or mobile number, with or
// without the +32 / 0032 prefix.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// Blank reports whether s is empty once trimmed.
func Blank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
