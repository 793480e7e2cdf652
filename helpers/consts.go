package helpers

import "time"

const (
	// TicketSeparator constant is the separator used to split the ticket into
	// its six parts. It is a string with a value of ".".
	TicketSeparator = "."
	// TicketParts constant is the number of fields of a well-formed ticket.
	TicketParts = 6
	// AlgorithmSHA256 constant is the only algorithm tag currently supported
	// to sign and verify tickets.
	AlgorithmSHA256 = "sha256"
	// VersionTicketV1 constant is the only protocol version tag currently
	// supported.
	VersionTicketV1 = "ticketv1"
	// HashInputSeparator constant joins the fields hashed to derive app
	// secrets and proofs.
	HashInputSeparator = "|"
	// TicketQueryParam constant is the query parameter used to send the ticket
	// in the request. It is a string with a value of "ticket".
	TicketQueryParam = "ticket"
	// TicketHeader constant is the main header used to send the ticket.
	TicketHeader = "ticket"
	// AltTicketHeader constant is the alternative header used to send the
	// ticket. It is a string with a value of "x-ticket".
	AltTicketHeader = "x-ticket"
	// AdminKeyHeader constant is the header used to send the admin key to the
	// admin endpoints of the API.
	AdminKeyHeader = "x-admin-key"
	// DefaultMaxTimeWindow constant is the maximum allowed distance between
	// the ticket timestamp and the verification time, 300000 ms.
	DefaultMaxTimeWindow = 5 * time.Minute
	// SaltSize constant is the size of the random salt generated for every
	// ticket, which is an integer with a value of 16 (bytes).
	SaltSize = 16
	// PlaceholderSize constant is the size of the random part of the value
	// returned instead of a ticket or a secret when they cannot be generated,
	// which is an integer with a value of 64 (bytes).
	PlaceholderSize = 64
	// MinAppIdLength constant is the minimum length of an app id.
	MinAppIdLength = 5
	// AppGroupSeparator constant joins the app group and the app name to
	// compose a grouped app id.
	AppGroupSeparator = "-"
	// DefaultAPIEndpoint constant is the default API endpoint used by the
	// client.
	DefaultAPIEndpoint = "http://localhost:8080/"
	// HealthCheckPath constant is the path used to check the health of the API
	// server. It is a string with a value of "/health".
	HealthCheckPath = "/health"
	// VerifyEndpointPath constant is the path used to verify tickets.
	VerifyEndpointPath = "/verify"
	// AppEndpointPath constant is the path used to API endpoints related to
	// apps. It is a string with a value of "/app".
	AppEndpointPath = "/app"
	// TicketEndpointPath constant is the path used to issue server tickets.
	TicketEndpointPath = "/ticket"
	// AuditEndpointPath constant is the path used to list the audit records.
	AuditEndpointPath = "/audit"
)
