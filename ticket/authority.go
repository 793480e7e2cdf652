package ticket

import (
	"time"

	"github.com/simpleauthlink/appticket/helpers"
)

// AuthorityConfig struct includes the configuration of an Authority. The
// master secret is required. If the max time window is not positive, the
// default one is used. Now allows to replace the clock used to issue and
// verify tickets, if it is nil, time.Now is used.
type AuthorityConfig struct {
	MasterSecret  string
	MaxTimeWindow time.Duration
	Now           func() time.Time
}

// Authority struct represents the server side of the ticket scheme. It holds
// the master secret, so it can derive the secret of any app, issue tickets on
// behalf of them and verify the tickets they issue. It is immutable and safe
// for concurrent use. A zero Authority has no master secret, so every
// operation fails with ErrConfig.
type Authority struct {
	masterSecret string
	window       time.Duration
	nowF         func() time.Time
}

// NewAuthority function creates a new Authority with the configuration
// provided. It returns ErrConfig if the configuration or the master secret
// are missing.
func NewAuthority(cfg *AuthorityConfig) (*Authority, error) {
	if cfg == nil || cfg.MasterSecret == "" {
		return nil, ErrConfig
	}
	window := cfg.MaxTimeWindow
	if window <= 0 {
		window = helpers.DefaultMaxTimeWindow
	}
	return &Authority{
		masterSecret: cfg.MasterSecret,
		window:       window,
		nowF:         cfg.Now,
	}, nil
}

func (a *Authority) now() time.Time {
	if a.nowF == nil {
		return time.Now()
	}
	return a.nowF()
}

// MaxTimeWindow method returns the max time window used to verify tickets.
func (a *Authority) MaxTimeWindow() time.Duration {
	if a.window <= 0 {
		return helpers.DefaultMaxTimeWindow
	}
	return a.window
}

// AppSecret method derives the secret of the app identified by the app id
// provided. It is the secret that must be handed to the app to allow it to
// issue its own tickets.
func (a *Authority) AppSecret(appId string) (string, error) {
	return DeriveAppSecret(appId, a.masterSecret)
}

// ServerTicket method issues a ticket on behalf of the app identified by the
// app id provided, deriving the app secret itself. The resulting ticket is
// identical to the one the app would issue with ClientTicket for the same
// timestamp and salt. On error, the returned string is a random tagged
// placeholder instead of a ticket.
func (a *Authority) ServerTicket(appId string, timestamp int64, salt string) (string, error) {
	appSecret, err := a.AppSecret(appId)
	if err != nil {
		return appSecret, err
	}
	return ClientTicket(appId, appSecret, timestamp, salt)
}

// NewServerTicket method issues a ticket like ServerTicket using the current
// time of the authority as timestamp and a fresh random salt.
func (a *Authority) NewServerTicket(appId string) (string, error) {
	return a.ServerTicket(appId, a.now().UnixMilli(), helpers.RandHex(helpers.SaltSize))
}

// Verify method verifies the ticket string provided against the master
// secret, the current time and the max time window of the authority.
func (a *Authority) Verify(raw string) *Result {
	return Verify(raw, a.masterSecret, a.now(), a.MaxTimeWindow())
}

// VerifyValue method verifies a ticket received as an untyped value. Values
// that are not strings or byte slices are malformed tickets.
func (a *Authority) VerifyValue(value any) *Result {
	t, err := DecodeValue(value)
	if err != nil {
		return failed(nil, err)
	}
	return verifyTicket(t, a.masterSecret, a.now(), a.MaxTimeWindow())
}

// VerifyProof method verifies the parts of a ticket without decoding it. It
// allows to check tickets that are received split in several fields.
func (a *Authority) VerifyProof(appId string, timestamp int64, salt, proof string) *Result {
	return verifyTicket(&Ticket{
		Algorithm: helpers.AlgorithmSHA256,
		Version:   helpers.VersionTicketV1,
		AppId:     appId,
		Timestamp: timestamp,
		Salt:      salt,
		Proof:     proof,
	}, a.masterSecret, a.now(), a.MaxTimeWindow())
}
