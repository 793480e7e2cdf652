package api

import (
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/simpleauthlink/appticket/db"
	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

// recordAudit function stores the result of a ticket verification in the
// audit log, using the app id claimed by the ticket. Results of tickets that
// could not be decoded or that claim a malformed app id are not recorded. If
// something fails, the error is logged but the verification is not affected.
func (s *Service) recordAudit(res *ticket.Result, r *http.Request) {
	if res == nil || res.Ticket == nil || !helpers.ValidAppId(res.Ticket.AppId) {
		return
	}
	record := &db.AuditRecord{
		Id:         uuid.NewString(),
		AppId:      res.Ticket.AppId,
		IssuedAt:   res.Ticket.Timestamp,
		VerifiedAt: s.now(),
		Valid:      res.Valid,
		Reason:     res.Reason(),
		Remote:     r.RemoteAddr,
	}
	if err := s.db.AddAudit(record); err != nil {
		log.Println("ERR: error storing audit record:", err)
	}
}

// auditCleaner function starts a goroutine that deletes the audit records
// older than the audit retention every time the cooldown time is reached. It
// uses a ticker to check the cooldown time and the service context to stop
// the goroutine when the service is stopped. If something goes wrong during
// the process, it logs the error.
func (s *Service) auditCleaner() {
	cooldown := s.cfg.CleanerCooldown
	if cooldown <= 0 {
		cooldown = defaultCleanerCooldown
	}
	s.wait.Add(1)
	go func() {
		defer s.wait.Done()
		ticker := time.NewTicker(cooldown)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.cleanAudit(); err != nil {
					log.Println("ERR: error deleting old audit records:", err)
				}
			}
		}
	}()
}

// cleanAudit deletes the audit records verified before the retention limit.
func (s *Service) cleanAudit() error {
	limit := s.now().Add(-s.cfg.AuditRetention)
	if err := s.db.DeleteAuditBefore(limit); err != nil {
		return err
	}
	log.Printf("audit records verified before %s deleted", humanize.Time(limit))
	return nil
}

func auditResponse(records []*db.AuditRecord) []*AuditRecord {
	res := make([]*AuditRecord, 0, len(records))
	for _, record := range records {
		res = append(res, &AuditRecord{
			Id:         record.Id,
			AppId:      record.AppId,
			IssuedAt:   record.IssuedAt,
			VerifiedAt: record.VerifiedAt,
			Valid:      record.Valid,
			Reason:     record.Reason,
			Remote:     record.Remote,
		})
	}
	return res
}
