package api

import (
	"net/http"

	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

// TicketFromRequest function extracts the ticket from the request provided.
// It looks for it, in order, in the ticket query param, the ticket header and
// the x-ticket header. The first non-empty value is returned. If none of them
// is found, it returns an empty string.
func TicketFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if r.URL != nil {
		if t := r.URL.Query().Get(helpers.TicketQueryParam); t != "" {
			return t
		}
	}
	if t := r.Header.Get(helpers.TicketHeader); t != "" {
		return t
	}
	return r.Header.Get(helpers.AltTicketHeader)
}

// VerifyRequest function extracts the ticket from the request provided and
// verifies it with the authority provided. The result of the verification is
// returned as it is, a request without ticket results in a malformed ticket.
func VerifyRequest(authority *ticket.Authority, r *http.Request) *ticket.Result {
	return authority.Verify(TicketFromRequest(r))
}
