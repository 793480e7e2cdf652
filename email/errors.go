package email

import "fmt"

var (
	// ErrInvalidConfig is the error returned when the configuration is invalid.
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	// ErrInvalidEmail is the error returned when the email is invalid.
	ErrInvalidEmail = fmt.Errorf("invalid email")
	// ErrQueueStopped is the error returned when an email is pushed to a
	// stopped queue.
	ErrQueueStopped = fmt.Errorf("email queue stopped")
	// ErrSendingEmail is the error returned when the email can not be sent
	// after all the retries.
	ErrSendingEmail = fmt.Errorf("error sending email")
	// ErrTemplate is the error returned when an email template can not be
	// filled.
	ErrTemplate = fmt.Errorf("error parsing template")
)
