package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/simpleauthlink/appticket/db"
	"github.com/simpleauthlink/appticket/email"
	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

// maxBodySize is the maximum size of the request bodies accepted.
const maxBodySize = 1 << 16

// healthHandler method sends an "Ok" response if the service is running.
func (s *Service) healthHandler(w http.ResponseWriter, _ *http.Request) {
	if _, err := w.Write([]byte("Ok")); err != nil {
		log.Println("ERR: error sending response:", err)
	}
}

// verifyHandler method verifies the ticket of the request. It gets the ticket
// from the ticket query param, the ticket header or the x-ticket header, in
// that order. It stores the result in the audit log and sends it as JSON. If
// the ticket is valid, the response status is Ok, otherwise it is
// Unauthorized, including when the ticket is missing.
func (s *Service) verifyHandler(w http.ResponseWriter, r *http.Request) {
	res := VerifyRequest(s.authority, r)
	s.recordAudit(res, r)
	s.sendVerifyResult(w, res)
}

// verifyBodyHandler method verifies the ticket included in the JSON body of
// the request. The ticket can be any JSON value, but only strings can be
// valid tickets. It responds like verifyHandler. If the body can not be read
// or parsed, it sends a bad request response.
func (s *Service) verifyBodyHandler(w http.ResponseWriter, r *http.Request) {
	req := &VerifyBody{}
	if !readJSONBody(w, r, req) {
		return
	}
	res := s.authority.VerifyValue(req.Ticket)
	s.recordAudit(res, r)
	s.sendVerifyResult(w, res)
}

func (s *Service) sendVerifyResult(w http.ResponseWriter, res *ticket.Result) {
	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnauthorized
	}
	sendJSON(w, status, &VerifyResponse{
		Valid:        res.Valid,
		AppId:        res.AppId,
		ProofOk:      res.ProofOk,
		TimeWindowOk: res.TimeWindowOk,
		Error:        res.Reason(),
	})
}

// appHandler method provisions a new app. It is an admin endpoint, so the
// admin key must be provided in the x-admin-key header. It composes the app
// id with the group and the name of the request body, derives the secret of
// the app and stores the app metadata in the database. The admin email is
// validated before storing anything. If the service can send emails and the
// request includes the admin email, the secret is also sent to it, and if it
// fails the previous state of the app is restored. The secret is included in
// the response. If the app id or the admin email have a bad format it sends a
// bad request response.
func (s *Service) appHandler(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, "invalid admin key", http.StatusUnauthorized)
		return
	}
	req := &AppRequest{}
	if !readJSONBody(w, r, req) {
		return
	}
	appId := helpers.GroupedAppId(req.Group, req.Name)
	secret, err := s.authority.AppSecret(appId)
	if err != nil {
		if errors.Is(err, ticket.ErrFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Println("ERR: error deriving app secret:", err)
		http.Error(w, "error deriving app secret", http.StatusInternalServerError)
		return
	}
	adminEmail := req.AdminEmail
	if adminEmail != "" {
		if adminEmail, err = email.ParseAddress(adminEmail); err != nil {
			http.Error(w, "invalid admin email", http.StatusBadRequest)
			return
		}
	}
	// compose the email before storing the app
	var secretEmail *email.Email
	if s.emailQueue != nil && adminEmail != "" {
		data := email.NewAppEmailData(appId, req.Name, secret, s.authority.MaxTimeWindow().String(), adminEmail)
		if secretEmail, err = email.AppSecretEmail(adminEmail, data); err != nil {
			log.Println("ERR: error composing email:", err)
			http.Error(w, "error composing email", http.StatusInternalServerError)
			return
		}
	}
	// keep the current app, if any, to restore it if the email can not be
	// queued
	previous, err := s.db.AppById(appId)
	if err != nil && !errors.Is(err, db.ErrAppNotFound) {
		log.Println("ERR: error getting app:", err)
		http.Error(w, "error getting app", http.StatusInternalServerError)
		return
	}
	app := &db.App{
		Id:         appId,
		Name:       req.Name,
		Group:      req.Group,
		AdminEmail: adminEmail,
		CreatedAt:  s.now(),
	}
	if err := s.db.SetApp(app); err != nil {
		log.Println("ERR: error storing app:", err)
		http.Error(w, "error storing app", http.StatusInternalServerError)
		return
	}
	// push the email to the queue to be sent, if it fails, restore the
	// previous app, log the error and send an error response
	if secretEmail != nil {
		if err := s.emailQueue.Push(secretEmail); err != nil {
			log.Println("ERR: error sending email:", err)
			if err := s.restoreApp(appId, previous); err != nil {
				log.Println("ERR: error restoring app:", err)
			}
			http.Error(w, "error sending email", http.StatusInternalServerError)
			return
		}
	}
	sendJSON(w, http.StatusOK, appResponse(app, secret))
}

// restoreApp stores the previous app provided or, if there was none, deletes
// the app identified by the app id.
func (s *Service) restoreApp(appId string, previous *db.App) error {
	if previous != nil {
		return s.db.SetApp(previous)
	}
	return s.db.DeleteApp(appId)
}

// getAppHandler method sends the metadata of the app identified by the appid
// query param. It is an admin endpoint. The app secret is not included. If
// the app is not found it sends a not found response.
func (s *Service) getAppHandler(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, "invalid admin key", http.StatusUnauthorized)
		return
	}
	appId := r.URL.Query().Get("appid")
	if appId == "" {
		http.Error(w, "missing appid", http.StatusBadRequest)
		return
	}
	app, err := s.db.AppById(appId)
	if err != nil {
		if errors.Is(err, db.ErrAppNotFound) {
			http.Error(w, "app not found", http.StatusNotFound)
			return
		}
		log.Println("ERR: error getting app:", err)
		http.Error(w, "error getting app", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, appResponse(app, ""))
}

// ticketHandler method issues a ticket on behalf of the app of the request
// body, deriving its secret with the master secret. It is an admin endpoint.
// If the app id has a bad format it sends a bad request response.
func (s *Service) ticketHandler(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, "invalid admin key", http.StatusUnauthorized)
		return
	}
	req := &TicketRequest{}
	if !readJSONBody(w, r, req) {
		return
	}
	t, err := s.authority.NewServerTicket(req.AppId)
	if err != nil {
		if errors.Is(err, ticket.ErrFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Println("ERR: error issuing ticket:", err)
		http.Error(w, "error issuing ticket", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, &TicketResponse{Ticket: t})
}

// auditHandler method sends the audit records of the app identified by the
// appid query param, the newest first. The number of records can be limited
// with the limit query param. It is an admin endpoint.
func (s *Service) auditHandler(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, "invalid admin key", http.StatusUnauthorized)
		return
	}
	query := r.URL.Query()
	appId := query.Get("appid")
	if appId == "" {
		http.Error(w, "missing appid", http.StatusBadRequest)
		return
	}
	limit := 0
	if rawLimit := query.Get("limit"); rawLimit != "" {
		var err error
		if limit, err = strconv.Atoi(rawLimit); err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}
	records, err := s.db.AuditByApp(appId, limit)
	if err != nil {
		log.Println("ERR: error getting audit records:", err)
		http.Error(w, "error getting audit records", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, auditResponse(records))
}

// isAdmin method returns true if the request includes the admin key of the
// service. If the service has no admin key, no request is admin.
func (s *Service) isAdmin(r *http.Request) bool {
	key := r.Header.Get(helpers.AdminKeyHeader)
	if s.cfg.AdminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminKey)) == 1
}

func appResponse(app *db.App, secret string) *AppResponse {
	return &AppResponse{
		AppId:      app.Id,
		Secret:     secret,
		Name:       app.Name,
		Group:      app.Group,
		AdminEmail: app.AdminEmail,
		CreatedAt:  app.CreatedAt,
	}
}

// readJSONBody reads and decodes the body of the request into the value
// provided. If something fails, it sends the error response and returns
// false.
func readJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Println("ERR: error reading request body:", err)
		http.Error(w, "error reading request body", http.StatusInternalServerError)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "error parsing request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sendJSON encodes the value provided as JSON and sends it with the status
// provided.
func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("ERR: error sending response:", err)
	}
}
