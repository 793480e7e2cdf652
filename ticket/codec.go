package ticket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/simpleauthlink/appticket/helpers"
)

// Ticket struct represents a decoded ticket. The wire format is a string with
// its six fields joined by the ticket separator in the following order:
//
//	[algorithm].[version].[appId].[timestamp].[salt].[proof]
//
// The separator is not escaped, so none of the fields can contain it.
type Ticket struct {
	Algorithm string `json:"algorithm"`
	Version   string `json:"version"`
	AppId     string `json:"appid"`
	Timestamp int64  `json:"timestamp"`
	Salt      string `json:"salt"`
	Proof     string `json:"proof"`
}

// Time method returns the timestamp of the ticket as a time.Time.
func (t *Ticket) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// checkAlgorithm method returns ErrUnsupportedAlgorithm if the algorithm or
// the version of the ticket are not the supported ones.
func (t *Ticket) checkAlgorithm() error {
	if t.Algorithm != helpers.AlgorithmSHA256 || t.Version != helpers.VersionTicketV1 {
		return fmt.Errorf("%w: algorithm=%q, version=%q", ErrUnsupportedAlgorithm, t.Algorithm, t.Version)
	}
	return nil
}

// Encode function serializes the ticket provided into its wire format. It
// returns ErrUnsupportedAlgorithm if the algorithm or the version are not
// supported and ErrMalformedTicket if any field is empty or contains the
// ticket separator.
func Encode(t *Ticket) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil ticket", ErrMalformedTicket)
	}
	if err := t.checkAlgorithm(); err != nil {
		return "", err
	}
	fields := []string{
		t.Algorithm,
		t.Version,
		t.AppId,
		strconv.FormatInt(t.Timestamp, 10),
		t.Salt,
		t.Proof,
	}
	for i, field := range fields {
		if field == "" {
			return "", fmt.Errorf("%w: empty field %d", ErrMalformedTicket, i)
		}
		if strings.Contains(field, helpers.TicketSeparator) {
			return "", fmt.Errorf("%w: field %d contains the separator", ErrMalformedTicket, i)
		}
	}
	return strings.Join(fields, helpers.TicketSeparator), nil
}

// Decode function parses the ticket string provided. It splits it by the
// ticket separator and returns ErrMalformedTicket if it does not result in
// exactly six non-empty fields or if the timestamp is not a positive decimal
// integer in its canonical form, without sign or leading zeros.
// The algorithm and the version are not checked. It never panics, any
// unexpected failure is returned as ErrMalformedTicket.
func Decode(raw string) (t *Ticket, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: %v", ErrMalformedTicket, r)
		}
	}()
	if raw == "" {
		return nil, fmt.Errorf("%w: empty ticket", ErrMalformedTicket)
	}
	parts := strings.Split(raw, helpers.TicketSeparator)
	if len(parts) != helpers.TicketParts {
		return nil, fmt.Errorf("%w: expected %d parts, got %d", ErrMalformedTicket,
			helpers.TicketParts, len(parts))
	}
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty field %d", ErrMalformedTicket, i)
		}
	}
	// the proof is computed over the canonical decimal form, so any other
	// spelling of the same number is rejected
	timestamp, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil || timestamp <= 0 || parts[3] != strconv.FormatInt(timestamp, 10) {
		return nil, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedTicket, parts[3])
	}
	return &Ticket{
		Algorithm: parts[0],
		Version:   parts[1],
		AppId:     parts[2],
		Timestamp: timestamp,
		Salt:      parts[4],
		Proof:     parts[5],
	}, nil
}

// DecodeValue function decodes a ticket received as an untyped value, for
// example from a JSON document. Only strings and byte slices can be decoded,
// any other value returns ErrMalformedTicket.
func DecodeValue(value any) (*Ticket, error) {
	switch v := value.(type) {
	case string:
		return Decode(v)
	case []byte:
		return Decode(string(v))
	default:
		return nil, fmt.Errorf("%w: unexpected type %T", ErrMalformedTicket, value)
	}
}
