package db

import (
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig error is returned when the provided database
	// configuration is missing or invalid.
	ErrInvalidConfig = fmt.Errorf("invalid database config")
	// ErrOpenConn error is returned when the database connection can't be
	// opened with the provided configuration.
	ErrOpenConn = fmt.Errorf("error opening database")
	// ErrCloseConn error is returned when the database connection can't be
	// closed.
	ErrCloseConn = fmt.Errorf("error closing database")
	// ErrAppNotFound error is returned when the desired app is not found in the
	// database.
	ErrAppNotFound = fmt.Errorf("app not found")
	// ErrGetApp error is returned when something fails getting a app from the
	// database.
	ErrGetApp = fmt.Errorf("error getting the app from database")
	// ErrSetApp error is returned when something fails storing a app in the
	// database.
	ErrSetApp = fmt.Errorf("error storing the app in database")
	// ErrDelApp error is returned when something fails deleting a app from the
	// database.
	ErrDelApp = fmt.Errorf("error deleting the app from database")
	// ErrGetAudit error is returned when something fails getting audit
	// records from the database.
	ErrGetAudit = fmt.Errorf("error getting the audit records from database")
	// ErrSetAudit error is returned when something fails storing an audit
	// record in the database.
	ErrSetAudit = fmt.Errorf("error storing the audit record in database")
	// ErrDelAudit error is returned when something fails deleting audit
	// records from the database.
	ErrDelAudit = fmt.Errorf("error deleting the audit records from database")
)

// App struct represents the public information of a provisioned app that is
// stored in the database. The app secret is never stored, it is derived from
// the app id and the master secret every time it is needed.
type App struct {
	Id         string
	Name       string
	Group      string
	AdminEmail string
	CreatedAt  time.Time
}

// AuditRecord struct represents a ticket verification. It includes the app id
// claimed by the ticket, the ticket timestamp, the verification time, the
// result of the verification, the reason of the failure if any and the
// address of the requester.
type AuditRecord struct {
	Id         string
	AppId      string
	IssuedAt   int64
	VerifiedAt time.Time
	Valid      bool
	Reason     string
	Remote     string
}

type DB interface {
	// Init method allows to the interface implementation to receive some config
	// information and init the database connection. It returns an error if the
	// config is invalid or the connection can't be opened.
	Init(config any) error
	// Close method allows to the interface implementation to close the database
	// connection. It returns an error if something fails during the closing.
	Close() error
	// AppById method gets an app from the database based on the app id. It
	// returns the app and an error if something goes wrong.
	AppById(appId string) (*App, error)
	// SetApp method stores an app in the database, replacing the previous one
	// with the same id. It returns an error if something goes wrong.
	SetApp(app *App) error
	// DeleteApp method deletes an app from the database. It returns an error if
	// something goes wrong.
	DeleteApp(appId string) error
	// AddAudit method stores an audit record in the database. It returns an
	// error if something goes wrong.
	AddAudit(record *AuditRecord) error
	// AuditByApp method gets the audit records of the app provided, sorted by
	// verification time, the newest first. If limit is positive, it returns
	// at most limit records. It returns an error if something goes wrong.
	AuditByApp(appId string, limit int) ([]*AuditRecord, error)
	// DeleteAuditBefore method deletes all the audit records verified before
	// the time provided. It returns an error if something goes wrong.
	DeleteAuditBefore(t time.Time) error
}
