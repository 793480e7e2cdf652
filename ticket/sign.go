package ticket

import (
	"fmt"
	"strconv"

	"github.com/simpleauthlink/appticket/helpers"
)

// Sign function computes the proof that binds the app id, the timestamp and
// the salt provided to the app secret. The timestamp are the milliseconds
// since the epoch. It returns ErrFormat if the app id does not have the
// expected format and ErrMissingParam if the timestamp is not positive or the
// salt or the app secret are empty. On error, the returned string is a random
// tagged placeholder.
func Sign(appId string, timestamp int64, salt, appSecret string) (string, error) {
	if !helpers.ValidAppId(appId) {
		return placeholder("bad-format-appid"), fmt.Errorf("%w: %q", ErrFormat, appId)
	}
	if timestamp <= 0 || salt == "" || appSecret == "" {
		return placeholder("missing-params"), ErrMissingParam
	}
	return helpers.HashParts(helpers.AlgorithmSHA256, strconv.FormatInt(timestamp, 10),
		salt, appSecret, appId), nil
}

// SignTicket function computes the proof of the ticket provided with the app
// secret, sets it and returns the encoded ticket. The algorithm and version of
// the ticket are checked before signing, so unsupported ones return
// ErrUnsupportedAlgorithm. If the version is empty, the current one is used.
// On error, the returned string is a random tagged placeholder.
func SignTicket(t *Ticket, appSecret string) (string, error) {
	if t == nil {
		return placeholder("missing-params"), ErrMissingParam
	}
	if t.Version == "" {
		t.Version = helpers.VersionTicketV1
	}
	if err := t.checkAlgorithm(); err != nil {
		return placeholder("unsupported-algorithm"), err
	}
	proof, err := Sign(t.AppId, t.Timestamp, t.Salt, appSecret)
	if err != nil {
		return proof, err
	}
	t.Proof = proof
	encoded, err := Encode(t)
	if err != nil {
		return placeholder("malformed-ticket"), err
	}
	return encoded, nil
}
