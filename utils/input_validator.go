package utils

import (
	"errors"
	"regexp"
	"strings"
)

// Usernames are stored lowercase; validate after normalization.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

var urlPattern = regexp.MustCompile(`^https?://`)

// NormalizeIdentifier lowercases and trims usernames and emails.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername checks the normalized username: 3-30 characters, letters,
// numbers, underscore, dot.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 3-30 chars (letters, numbers, underscore, dot)")
	}
	return nil
}

// ValidateURL accepts empty values; non-empty values must be http(s).
func ValidateURL(field, value string) error {
	if value == "" {
		return nil
	}
	if !urlPattern.MatchString(strings.ToLower(value)) {
		return errors.New(field + " must be http(s)")
	}
	return nil
}

// ValidateVisibility accepts empty (caller applies the default) or one of
// the three post visibility levels.
func ValidateVisibility(v string) error {
	switch v {
	case "", "public", "friends", "private":
		return nil
	default:
		return errors.New("visibility must be public, friends, or private")
	}
}
