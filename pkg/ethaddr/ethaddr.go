// Package ethaddr validates and normalizes hex-encoded blockchain account
// identifiers.
package ethaddr

import (
	"regexp"
	"strings"
)

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s is a well-formed 20-byte hex account address.
// Checksum casing is not enforced; addresses are stored lower-cased.
func IsAddress(s string) bool {
	return addressRe.MatchString(s)
}

// Normalize lower-cases an address for canonical storage and comparison.
func Normalize(s string) string {
	return strings.ToLower(s)
}
