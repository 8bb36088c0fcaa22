package util

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens a client-supplied name into a single path
// segment. Separators and control characters become '_'; traversal
// sequences are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	return s, nil
}
