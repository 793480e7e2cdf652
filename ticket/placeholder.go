package ticket

import (
	"strings"

	"github.com/simpleauthlink/appticket/helpers"
)

const placeholderPrefix = "error"

// placeholder returns the value handed out instead of a secret, a proof or a
// ticket when they can not be generated. It is tagged with the reason and it
// includes a long random part, so it never collides with a real value and it
// never decodes as a ticket because it does not contain the separator.
func placeholder(reason string) string {
	return strings.Join([]string{placeholderPrefix, reason, helpers.RandHex(helpers.PlaceholderSize)}, ":")
}

// IsPlaceholder returns true if the value provided was returned by a failed
// derivation, signature or issuance.
func IsPlaceholder(value string) bool {
	return strings.HasPrefix(value, placeholderPrefix+":")
}
