// Package ticket implements stateless, multi-tenant app authentication based on
// short lived tickets. A server holds a single master secret and derives the
// secret of every app from it, so no per-app secret is ever stored:
//
//	appSecret = sha256("sha256|<appid>|<master>|<appid>|<master>")
//	proof     = sha256("sha256|<timestamp>|<salt>|<appSecret>|<appid>")
//	ticket    = "sha256.ticketv1.<appid>.<timestamp>.<salt>.<proof>"
//
// Apps that know their app secret issue tickets with ClientTicket, while a
// trusted server process issues them with Authority.ServerTicket, deriving the
// secret itself. Both produce byte-identical tickets for the same inputs.
//
// Verification only checks the proof and that the ticket timestamp is within
// the allowed time window of the verification time. A ticket can be replayed
// as many times as wanted inside that window, there is no nonce store.
// Rotating the master secret invalidates every app secret and every ticket.
package ticket
