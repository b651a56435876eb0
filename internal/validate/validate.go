package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	rePhone = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	reCode  = regexp.MustCompile(`^[0-9]{4,6}$`)
	reSlug  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Phone accepts E.164-ish numbers: optional plus, 7-15 digits.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// SmsCode accepts the 4-6 digit verification codes the SMS flow issues.
func SmsCode(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reCode.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PublicID accepts any canonical UUID string.
func PublicID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}

// Slug accepts lowercase kebab-case taxonomy codes.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 64 && reSlug.MatchString(s)
}

// Qty clamps an order quantity into 1..100.
func Qty(n int64) int64 {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

// Limit clamps a page size into 1..100, defaulting to 20.
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

// Offset parses a non-negative offset, defaulting to 0.
func Offset(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ID parses a positive integer identifier from a query parameter; zero means
// "absent" and disables the filter.
func ID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
