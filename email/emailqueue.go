package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/smtp"
	"sync"
	"time"
)

// plainTemplate is the template used to compose the email message. It includes
// the subject and the body of the email.
const plainTemplate = "Subject: %s\r\n\r\n%s\r\n"

const (
	// retries is the number of retries to send the email.
	retries = 3
	// cooldown is the time the queue waits between iterations.
	cooldown = time.Second
)

// EmailConfig struct represents the email configuration that is needed to send
// an email using and SMTP server. It includes the email address (used as the
// sender address but also as the username for the SMTP server), the email
// server hostname, its port and the password.
type EmailConfig struct {
	Address   string
	EmailHost string
	EmailPort int
	Password  string
}

// Enabled method returns true if the configuration includes the information
// required to send emails.
func (cfg *EmailConfig) Enabled() bool {
	return cfg != nil && cfg.Address != "" && cfg.EmailHost != "" && cfg.EmailPort > 0
}

// Email struct represents the email that is going to be sent. It includes the
// recipient email address, the subject and the body of the email.
type Email struct {
	To      string
	Subject string
	Body    string
}

// sendFunc is the function used to deliver a composed message.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailQueue struct represents the email queue. It includes the context and the
// cancel function to stop the queue, the configuration of the server to send
// the email, the list of emails to send, and the waiter to wait for the
// background process to finish.
type EmailQueue struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *EmailConfig
	items    []*Email
	itemsMtx sync.Mutex
	waiter   sync.WaitGroup
	send     sendFunc
}

// NewEmailQueue creates a new EmailQueue with the provided configuration. It
// returns ErrInvalidConfig if the configuration does not allow to send emails.
func NewEmailQueue(ctx context.Context, cfg *EmailConfig) (*EmailQueue, error) {
	if !cfg.Enabled() {
		return nil, ErrInvalidConfig
	}
	internalCtx, cancel := context.WithCancel(ctx)
	return &EmailQueue{
		ctx:    internalCtx,
		cancel: cancel,
		cfg:    cfg,
		items:  []*Email{},
		send:   smtp.SendMail,
	}, nil
}

// Start method starts the email queue. It listens for new emails in the queue
// and sends them using the provided configuration. The emails that can not be
// sent are discarded after logging the error.
func (eq *EmailQueue) Start() {
	eq.waiter.Add(1)
	go func() {
		defer eq.waiter.Done()
		for {
			select {
			case <-eq.ctx.Done():
				return
			case <-time.After(cooldown):
				for e := eq.Pop(); e != nil; e = eq.Pop() {
					if err := eq.Send(e); err != nil {
						log.Println("ERR: error sending email:", err)
					}
				}
			}
		}
	}()
}

// Stop method stops the background process of the queue and waits for it.
func (eq *EmailQueue) Stop() {
	eq.cancel()
	eq.waiter.Wait()
}

// Push method validates the recipient of the email and adds it to the queue.
// The recipient is replaced by its bare address, without display name.
func (eq *EmailQueue) Push(e *Email) error {
	if e == nil {
		return ErrInvalidEmail
	}
	to, err := ParseAddress(e.To)
	if err != nil {
		return err
	}
	if eq.ctx.Err() != nil {
		return ErrQueueStopped
	}
	e.To = to
	eq.itemsMtx.Lock()
	eq.items = append(eq.items, e)
	eq.itemsMtx.Unlock()
	return nil
}

// Len method returns the number of emails in the queue.
func (eq *EmailQueue) Len() int {
	eq.itemsMtx.Lock()
	defer eq.itemsMtx.Unlock()
	return len(eq.items)
}

// Pop method removes the first email in the queue and returns it.
func (eq *EmailQueue) Pop() *Email {
	eq.itemsMtx.Lock()
	defer eq.itemsMtx.Unlock()
	if len(eq.items) == 0 {
		return nil
	}
	e := eq.items[0]
	eq.items = eq.items[1:]
	return e
}

// Send method sends the email using the queue configuration. It uses the
// email address as the sender address and the username for the SMTP server.
// It composes the email message, creates the auth object with the email
// credentials, the server string with the host and the port, and the receipts.
// Finally, it sends the email. If something fails during the process, it
// returns an error.
func (eq *EmailQueue) Send(e *Email) error {
	to, err := ParseAddress(e.To)
	if err != nil {
		return err
	}
	// encode the message with the template, the subject and the body
	msg := []byte(fmt.Sprintf(plainTemplate, e.Subject, e.Body))
	// create the auth object with the email credentials
	auth := smtp.PlainAuth("", eq.cfg.Address, eq.cfg.Password, eq.cfg.EmailHost)
	// create the server string with the host and the port and the receipts
	server := fmt.Sprintf("%s:%d", eq.cfg.EmailHost, eq.cfg.EmailPort)
	receipts := []string{to}
	// send the email
	for i := 0; i < retries; i++ {
		if err = eq.send(server, auth, eq.cfg.Address, receipts, msg); err == nil {
			return nil
		}
	}
	return errors.Join(ErrSendingEmail, err)
}

// ParseAddress validates the email address provided and returns its bare
// address, without display name. It returns ErrInvalidEmail if it can not be
// parsed.
func ParseAddress(address string) (string, error) {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return "", errors.Join(ErrInvalidEmail, err)
	}
	return addr.Address, nil
}
