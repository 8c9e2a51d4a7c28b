// Package validate holds the field-format policy consumed by the entity
// services. Validation runs before any storage access; in particular it is
// the boundary that keeps the flat-file delimiter and line breaks out of
// stored fields, so the storage codec never needs to escape.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jotterhq/jotter/pkg/types"
)

var (
	usernameRe = regexp.MustCompile(`^\w{3,32}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	idRe       = regexp.MustCompile(`^[a-f0-9]{16}$`)
	titleRe    = regexp.MustCompile(`^[a-zA-Z0-9 ]{1,100}$`)
	filenameRe = regexp.MustCompile(`^[\w\-. !@#$%^&*()+]{1,255}$`)
	mimeRe      = regexp.MustCompile(`^[a-z]+/[a-zA-Z0-9.+-]+$`)
	localeRe    = regexp.MustCompile(`^[a-zA-Z]{2,3}(_[a-zA-Z]{2,4})?$`)
	letterNumRe = regexp.MustCompile(`[a-zA-Z0-9]`)
)

// Free-text length caps.
const (
	maxDescription = 500
	maxContent     = 2000
)

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", types.ErrInvalidArgument, field, reason)
}

// Username accepts 3 to 32 word characters.
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return invalid("username", "must be 3-32 letters, digits, or underscores")
	}
	return nil
}

// Password requires at least 8 characters including a letter or digit.
func Password(s string) error {
	if len(s) < 8 || !letterNumRe.MatchString(s) {
		return invalid("password", "must be at least 8 characters and contain letters or numbers")
	}
	return nil
}

// Email checks the address shape.
func Email(s string) error {
	if !emailRe.MatchString(s) {
		return invalid("email", "has an invalid format")
	}
	return nil
}

// ID accepts exactly 16 lowercase hex digits.
func ID(s string) error {
	if !idRe.MatchString(s) {
		return invalid("id", "must be 16 hex digits")
	}
	return nil
}

// Title accepts 1 to 100 letters, digits, or spaces. The character class
// excludes the storage delimiter by construction.
func Title(s string) error {
	if !titleRe.MatchString(s) {
		return invalid("title", "must be 1-100 letters, digits, or spaces")
	}
	return nil
}

// Description bounds task descriptions and keeps them line-safe.
func Description(s string) error {
	return freeText("description", s, maxDescription)
}

// Content bounds note content and keeps it line-safe.
func Content(s string) error {
	if s == "" {
		return invalid("content", "must not be empty")
	}
	return freeText("content", s, maxContent)
}

// Filename accepts the character set permitted for uploaded names. The
// class excludes path separators and the storage delimiter.
func Filename(s string) error {
	if !filenameRe.MatchString(s) || strings.Contains(s, "..") {
		return invalid("filename", "contains unsupported characters")
	}
	return nil
}

// MIME accepts a declared media type such as "image/png". Sniffing the
// actual content is outside this policy table.
func MIME(s string) error {
	if !mimeRe.MatchString(s) {
		return invalid("mime type", "has an invalid format")
	}
	return nil
}

// Locale accepts short language tags such as "en" or "pt_BR".
func Locale(s string) error {
	if !localeRe.MatchString(s) {
		return invalid("locale", "must be a short language tag")
	}
	return nil
}

// Theme accepts the two supported themes.
func Theme(s string) error {
	if s != "light" && s != "dark" {
		return invalid("theme", "must be light or dark")
	}
	return nil
}

// freeText rejects the delimiter and line breaks and enforces the cap.
func freeText(field, s string, max int) error {
	if len(s) > max {
		return invalid(field, fmt.Sprintf("must be at most %d characters", max))
	}
	if strings.ContainsAny(s, ":\n\r") {
		return invalid(field, "must not contain colons or line breaks")
	}
	return nil
}
