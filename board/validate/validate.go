// Package validate holds the form predicates checked before any network
// call is made.
package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) bool {
	if len(email) < 5 {
		return false
	}
	return emailRe.MatchString(email)
}

// Password enforces 8-20 characters with at least one upper-case letter,
// one lower-case letter, one digit and one special character.
func Password(pw string) bool {
	n := utf8.RuneCountInString(pw)
	if n < 8 || n > 20 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// Nickname checks the nickname rules and returns a user-facing message on
// failure: required, no whitespace, at most 10 characters.
func Nickname(nick string) (ok bool, msg string) {
	if nick == "" {
		return false, "please enter a nickname"
	}
	if strings.IndexFunc(nick, unicode.IsSpace) >= 0 {
		return false, "nickname cannot contain spaces"
	}
	if utf8.RuneCountInString(nick) > 10 {
		return false, "nickname can be at most 10 characters"
	}
	return true, ""
}
