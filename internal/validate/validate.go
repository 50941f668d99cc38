// Package validate holds the pure input checks every data module routes
// external input through before touching storage. Each check returns the
// normalized value or a *ValidationError carrying the offending field name.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError reports a malformed or out-of-range input value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
)

// ID checks a document identifier: non-empty after trimming and a valid
// ObjectId hex string. Returns the trimmed id.
func ID(id, field string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fail(field, "cannot be empty")
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return "", fail(field, "is not a valid object id")
	}
	return id, nil
}

// String checks for a non-empty string and returns it trimmed.
func String(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fail(field, "cannot be empty")
	}
	return s, nil
}

// Number rejects NaN and infinities.
func Number(n float64, field string) (float64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fail(field, "must be a valid number")
	}
	return n, nil
}

// PositiveInt rejects values below one.
func PositiveInt(n int, field string) (int, error) {
	if n <= 0 {
		return 0, fail(field, "must be a positive integer")
	}
	return n, nil
}

// Date checks YYYY-MM-DD format and that the value is a real calendar date.
// time.Parse already rejects rolled-over dates such as 2023-02-30.
func Date(s, field string) (string, error) {
	s, err := String(s, field)
	if err != nil {
		return "", err
	}
	if !dateRe.MatchString(s) {
		return "", fail(field, "must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fail(field, "is not a valid date")
	}
	return s, nil
}

// PastDate is Date plus a not-in-the-future check, used for arrest dates.
func PastDate(s, field string) (string, error) {
	s, err := Date(s, field)
	if err != nil {
		return "", err
	}
	d, _ := time.Parse("2006-01-02", s)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if d.After(today) {
		return "", fail(field, "cannot be in the future")
	}
	return s, nil
}

// Password enforces the full password policy: at least 8 characters with an
// upper-case letter, a digit, and one punctuation character.
func Password(s string) (string, error) {
	if len(s) < 8 {
		return "", fail("password", "must be at least 8 characters long")
	}
	var hasUpper, hasDigit, hasPunct bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{};:,.?", r):
			hasPunct = true
		}
	}
	if !hasUpper {
		return "", fail("password", "must contain an upper-case letter")
	}
	if !hasDigit {
		return "", fail("password", "must contain a digit")
	}
	if !hasPunct {
		return "", fail("password", "must contain a punctuation character")
	}
	return s, nil
}

// Username enforces 3-20 characters, alphanumeric plus underscore, and folds
// to lower case for storage comparisons.
func Username(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !usernameRe.MatchString(s) {
		return "", fail("username", "must be 3-20 characters, letters, digits or underscore")
	}
	return strings.ToLower(s), nil
}

// Email checks for a single @ with a dotted domain and folds to lower case.
func Email(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fail("email", "cannot be empty")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return "", fail("email", "must contain a single @")
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return "", fail("email", "must have a valid domain")
	}
	return strings.ToLower(s), nil
}

// SanitizeText trims the input and strips markup so stored comment text is
// safe to echo back. Stripping (rather than escaping) keeps the operation
// idempotent: sanitizing twice gives the same result.
func SanitizeText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}
