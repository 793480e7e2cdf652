package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lucasmenendez/apihandler"
	"github.com/simpleauthlink/appticket/db"
	"github.com/simpleauthlink/appticket/email"
	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

const (
	// defaultCleanerCooldown is the time between audit retention cleanups if
	// no other is configured.
	defaultCleanerCooldown = 30 * time.Minute
	// shutdownTimeout is the time the service waits for the in-flight
	// requests when it is stopped.
	shutdownTimeout = 10 * time.Second
)

// Config struct includes the configuration of the service. The master secret
// is required, it is the root of every app secret. The admin key protects the
// admin endpoints, if it is empty they reject every request. If the audit
// retention is positive, the audit records older than it are deleted every
// cleaner cooldown.
type Config struct {
	EmailConfig     email.EmailConfig
	Server          string
	ServerPort      int
	MasterSecret    string
	AdminKey        string
	MaxTimeWindow   time.Duration
	AuditRetention  time.Duration
	CleanerCooldown time.Duration
}

// Service struct represents the ticket verification service. It holds the
// ticket authority, the database for app metadata and audit records, the
// email queue to deliver app secrets and the api handler.
type Service struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wait       sync.WaitGroup
	cfg        *Config
	db         db.DB
	authority  *ticket.Authority
	emailQueue *email.EmailQueue
	handler    *apihandler.Handler
	httpServer *http.Server
	now        func() time.Time
}

// New function creates a new service with the database and the configuration
// provided. It returns an error if the master secret is missing, so the
// service never starts without being able to verify tickets.
func New(ctx context.Context, database db.DB, cfg *Config) (*Service, error) {
	if cfg == nil || database == nil {
		return nil, fmt.Errorf("config and database are required")
	}
	srv := &Service{
		cfg:     cfg,
		db:      database,
		handler: apihandler.NewHandler(true),
		now:     time.Now,
	}
	var err error
	srv.authority, err = ticket.NewAuthority(&ticket.AuthorityConfig{
		MasterSecret:  cfg.MasterSecret,
		MaxTimeWindow: cfg.MaxTimeWindow,
		Now:           func() time.Time { return srv.now() },
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket authority: %w", err)
	}
	srv.ctx, srv.cancel = context.WithCancel(ctx)
	// the email queue is optional, without it the app secrets are only
	// returned to the admin in the response
	if cfg.EmailConfig.Enabled() {
		if srv.emailQueue, err = email.NewEmailQueue(srv.ctx, &cfg.EmailConfig); err != nil {
			srv.cancel()
			return nil, fmt.Errorf("error creating email queue: %w", err)
		}
	}
	// set the api handlers
	srv.handler.Get(helpers.HealthCheckPath, srv.healthHandler)
	srv.handler.Get(helpers.VerifyEndpointPath, srv.verifyHandler)
	srv.handler.Post(helpers.VerifyEndpointPath, srv.verifyBodyHandler)
	srv.handler.Post(helpers.AppEndpointPath, srv.appHandler)
	srv.handler.Get(helpers.AppEndpointPath, srv.getAppHandler)
	srv.handler.Post(helpers.TicketEndpointPath, srv.ticketHandler)
	srv.handler.Get(helpers.AuditEndpointPath, srv.auditHandler)
	// start the audit retention cleaner
	if cfg.AuditRetention > 0 {
		srv.auditCleaner()
	}
	return srv, nil
}

// Authority method returns the ticket authority of the service.
func (s *Service) Authority() *ticket.Authority {
	return s.authority
}

// Handler method returns the http handler of the service.
func (s *Service) Handler() http.Handler {
	return s.handler
}

// Start method starts the email queue and the api server. It blocks until the
// server is stopped.
func (s *Service) Start() error {
	if s.emailQueue != nil {
		s.emailQueue.Start()
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.ServerPort),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("service listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop method stops the api server, the background processes and closes the
// database.
func (s *Service) Stop() error {
	s.cancel()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Println("ERR: error shutting down server:", err)
		}
	}
	if s.emailQueue != nil {
		s.emailQueue.Stop()
	}
	s.wait.Wait()
	// close the database
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("error closing db: %w", err)
	}
	return nil
}

// WaitToShutdown method blocks until the process receives an interrupt or a
// termination signal, or the service context is done, and then stops it.
func (s *Service) WaitToShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	select {
	case sig := <-sigs:
		log.Printf("received %s, shutting down", sig)
	case <-s.ctx.Done():
	}
	if err := s.Stop(); err != nil {
		log.Println("ERR: error stopping service:", err)
	}
}
