package ticket

import (
	"time"

	"github.com/simpleauthlink/appticket/helpers"
)

// ClientTicket function issues a ticket for the app identified by the app id
// provided, using the app secret previously obtained by the app. It is the
// function used by apps, which do not know the master secret. The timestamp
// are the milliseconds since the epoch. On error, the returned string is a
// random tagged placeholder instead of a ticket.
func ClientTicket(appId, appSecret string, timestamp int64, salt string) (string, error) {
	return SignTicket(&Ticket{
		Algorithm: helpers.AlgorithmSHA256,
		Version:   helpers.VersionTicketV1,
		AppId:     appId,
		Timestamp: timestamp,
		Salt:      salt,
	}, appSecret)
}

// NewClientTicket function issues a ticket like ClientTicket using the
// current time as timestamp and a fresh random salt.
func NewClientTicket(appId, appSecret string) (string, error) {
	return ClientTicket(appId, appSecret, time.Now().UnixMilli(), helpers.RandHex(helpers.SaltSize))
}
