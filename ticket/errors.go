package ticket

import "fmt"

var (
	// ErrConfig error is returned when the master secret is not configured.
	// No usable secret or ticket is generated when it happens.
	ErrConfig = fmt.Errorf("missing master secret")
	// ErrFormat error is returned when the app id does not match the app id
	// format: lowercase letters, digits and hyphens, at least 5 characters.
	ErrFormat = fmt.Errorf("bad format appid")
	// ErrMissingParam error is returned when a required param to sign a
	// ticket (timestamp, salt or app secret) is missing or zero.
	ErrMissingParam = fmt.Errorf("missing params")
	// ErrMalformedTicket error is returned when the ticket can not be
	// decomposed into exactly six non-empty fields.
	ErrMalformedTicket = fmt.Errorf("malformed ticket")
	// ErrUnsupportedAlgorithm error is returned when the algorithm or the
	// version of the ticket is not supported.
	ErrUnsupportedAlgorithm = fmt.Errorf("unsupported algorithm")
	// ErrInvalidProof error is returned when the proof of the ticket does not
	// match the expected one.
	ErrInvalidProof = fmt.Errorf("invalid proof")
	// ErrExpiredTicket error is returned when the timestamp of the ticket is
	// out of the allowed time window.
	ErrExpiredTicket = fmt.Errorf("ticket out of time window")
)
