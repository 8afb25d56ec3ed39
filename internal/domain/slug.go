package domain

import (
	"regexp"
	"strings"
)

var slugRe = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

const errSlug = "Invalid domain name. Use 3-30 chars: letters, numbers, hyphen."

// NormalizeSlug trims and lowercases s and checks it against the slug alphabet.
func NormalizeSlug(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slugRe.MatchString(s) {
		return "", Errorf(ErrInvalidInput, errSlug)
	}
	return s, nil
}
