package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// appIdRgx is the regular expression used to validate app ids: lowercase
// letters, digits and hyphens, at least MinAppIdLength characters long.
var appIdRgx = regexp.MustCompile(`^[a-z0-9\-]{5,}$`)

// RandBytes generates a cryptographically secure random byte slice of length
// n. It returns nil if n is less than 1. It is safe for concurrent use.
func RandBytes(n int) []byte {
	if n < 1 {
		return nil
	}
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms, it
	// crashes the program irrecoverably instead
	_, _ = rand.Read(b)
	return b
}

// RandHex generates n random bytes and returns them encoded as a hexadecimal
// string, so the resulting string has a length of 2*n. It returns an empty
// string if n is less than 1.
func RandHex(n int) string {
	return hex.EncodeToString(RandBytes(n))
}

// Hash generates a hash of the input string using SHA-256 algorithm and
// returns the full digest as a hexadecimal string of 64 characters.
func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashParts joins the parts provided with the hash input separator and
// returns the SHA-256 hash of the result as a hexadecimal string.
func HashParts(parts ...string) string {
	return Hash(strings.Join(parts, HashInputSeparator))
}

// ValidAppId returns true if the app id provided only contains lowercase
// letters, digits and hyphens and it has at least MinAppIdLength characters.
func ValidAppId(appId string) bool {
	return appIdRgx.MatchString(appId)
}

// GroupedAppId composes an app id prefixing the app name with the group
// provided. If the group is empty, the name is returned as it is.
func GroupedAppId(group, name string) string {
	if group == "" {
		return name
	}
	return strings.Join([]string{group, name}, AppGroupSeparator)
}
