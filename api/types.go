package api

import "time"

// VerifyBody struct includes the ticket to verify when it is sent in the
// body of the request. The ticket is decoded as an untyped value, any value
// that is not a string is a malformed ticket.
type VerifyBody struct {
	Ticket any `json:"ticket"`
}

// VerifyResponse struct includes the result of a ticket verification. The app
// id is only included if the ticket is valid. The proof and time window checks
// are included separately to allow the client to know which one failed.
type VerifyResponse struct {
	Valid        bool   `json:"valid"`
	AppId        string `json:"appid,omitempty"`
	ProofOk      bool   `json:"proof_ok"`
	TimeWindowOk bool   `json:"time_window_ok"`
	Error        string `json:"error,omitempty"`
}

// AppRequest struct includes the required information by the API service to
// provision an app: the app name, that will be prefixed by the app group if it
// is provided to compose the app id, and the email of the app admin, which
// receives the app secret if the service can send emails.
type AppRequest struct {
	Group      string `json:"group,omitempty"`
	Name       string `json:"name"`
	AdminEmail string `json:"admin_email,omitempty"`
}

// AppResponse struct includes the information of a provisioned app. The
// secret is only included when the app is provisioned.
type AppResponse struct {
	AppId      string    `json:"appid"`
	Secret     string    `json:"secret,omitempty"`
	Name       string    `json:"name"`
	Group      string    `json:"group,omitempty"`
	AdminEmail string    `json:"admin_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketRequest struct includes the app id of the app on behalf of which the
// service issues a ticket.
type TicketRequest struct {
	AppId string `json:"appid"`
}

// TicketResponse struct includes a ticket issued by the service.
type TicketResponse struct {
	Ticket string `json:"ticket"`
}

// AuditRecord struct represents a ticket verification in the audit log.
type AuditRecord struct {
	Id         string    `json:"id"`
	AppId      string    `json:"appid"`
	IssuedAt   int64     `json:"issued_at"`
	VerifiedAt time.Time `json:"verified_at"`
	Valid      bool      `json:"valid"`
	Reason     string    `json:"reason,omitempty"`
	Remote     string    `json:"remote,omitempty"`
}
