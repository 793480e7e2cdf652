package ticket

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/simpleauthlink/appticket/helpers"
)

// Result struct contains the result of a ticket verification. The ticket is
// valid only if both the proof and the time window checks succeed, but both
// checks are exposed to allow the caller to know which one failed. The app id
// is only set if the ticket is valid. Err contains the reason of the failure,
// it can be checked with errors.Is against the package errors.
type Result struct {
	Valid        bool    `json:"valid"`
	AppId        string  `json:"appid,omitempty"`
	ProofOk      bool    `json:"proof_ok"`
	TimeWindowOk bool    `json:"time_window_ok"`
	Ticket       *Ticket `json:"-"`
	Err          error   `json:"-"`
}

// Reason method returns the description of the verification failure or an
// empty string if the ticket is valid.
func (r *Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// failed returns a result for a ticket that could not be checked.
func failed(t *Ticket, err error) *Result {
	return &Result{Ticket: t, Err: err}
}

// Verify function checks the ticket string provided using the master secret.
// It decodes the ticket, checks its algorithm and version, derives the secret
// of the app from the ticket app id and recomputes the expected proof. The
// ticket is valid if the proof matches and the distance between now and the
// ticket timestamp is strictly lower than the max time window. If the max
// time window is not positive, the default one is used. It never panics.
func Verify(raw, masterSecret string, now time.Time, maxTimeWindow time.Duration) *Result {
	t, err := Decode(raw)
	if err != nil {
		return failed(nil, err)
	}
	return verifyTicket(t, masterSecret, now, maxTimeWindow)
}

func verifyTicket(t *Ticket, masterSecret string, now time.Time, maxTimeWindow time.Duration) *Result {
	if err := t.checkAlgorithm(); err != nil {
		return failed(t, err)
	}
	if t.Timestamp <= 0 {
		return failed(t, fmt.Errorf("%w: invalid timestamp %d", ErrMalformedTicket, t.Timestamp))
	}
	appSecret, err := DeriveAppSecret(t.AppId, masterSecret)
	if err != nil {
		return failed(t, err)
	}
	expected, err := Sign(t.AppId, t.Timestamp, t.Salt, appSecret)
	if err != nil {
		return failed(t, err)
	}
	if maxTimeWindow <= 0 {
		maxTimeWindow = helpers.DefaultMaxTimeWindow
	}
	res := &Result{
		Ticket:       t,
		ProofOk:      subtle.ConstantTimeCompare([]byte(expected), []byte(t.Proof)) == 1,
		TimeWindowOk: inTimeWindow(t.Timestamp, now, maxTimeWindow),
	}
	if !res.ProofOk {
		res.Err = ErrInvalidProof
	}
	if !res.TimeWindowOk {
		res.Err = errors.Join(res.Err, fmt.Errorf("%w: issued at %d, checked at %d",
			ErrExpiredTicket, t.Timestamp, now.UnixMilli()))
	}
	if res.Err == nil {
		res.Valid = true
		res.AppId = t.AppId
	}
	return res
}

// inTimeWindow returns true if the distance between the timestamp and now is
// strictly lower than the window, so a timestamp just at the boundary is out.
func inTimeWindow(timestamp int64, now time.Time, window time.Duration) bool {
	diff := now.UnixMilli() - timestamp
	if diff < 0 {
		diff = -diff
	}
	return diff < window.Milliseconds()
}
