package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"testing"
)

var testConfig = &EmailConfig{
	Address:   "noreply@example.com",
	EmailHost: "smtp.example.com",
	EmailPort: 587,
	Password:  "password",
}

func TestNewEmailQueue(t *testing.T) {
	if _, err := NewEmailQueue(context.Background(), &EmailConfig{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected %v, got %v", ErrInvalidConfig, err)
	}
	if _, err := NewEmailQueue(context.Background(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected %v, got %v", ErrInvalidConfig, err)
	}
	eq, err := NewEmailQueue(context.Background(), testConfig)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	eq.Start()
	eq.Stop()
	if err := eq.Push(&Email{To: "admin@example.com"}); !errors.Is(err, ErrQueueStopped) {
		t.Errorf("expected %v, got %v", ErrQueueStopped, err)
	}
}

func TestPushPop(t *testing.T) {
	eq, _ := NewEmailQueue(context.Background(), testConfig)
	if err := eq.Push(&Email{To: "not an email"}); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected %v, got %v", ErrInvalidEmail, err)
	}
	if err := eq.Push(nil); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected %v, got %v", ErrInvalidEmail, err)
	}
	for _, to := range []string{"first@example.com", "second@example.com"} {
		if err := eq.Push(&Email{To: to}); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	}
	if eq.Len() != 2 {
		t.Errorf("expected 2 emails, got %d", eq.Len())
	}
	if e := eq.Pop(); e == nil || e.To != "first@example.com" {
		t.Errorf("unexpected email: %+v", e)
	}
	if e := eq.Pop(); e == nil || e.To != "second@example.com" {
		t.Errorf("unexpected email: %+v", e)
	}
	if e := eq.Pop(); e != nil {
		t.Errorf("expected nil, got %+v", e)
	}
	// the display name is removed from the recipient
	if err := eq.Push(&Email{To: "Admin <admin@example.com>"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if e := eq.Pop(); e == nil || e.To != "admin@example.com" {
		t.Errorf("unexpected email: %+v", e)
	}
}

func TestSend(t *testing.T) {
	eq, _ := NewEmailQueue(context.Background(), testConfig)
	var attempts int
	var sent []byte
	eq.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		if addr != "smtp.example.com:587" || from != testConfig.Address || to[0] != "admin@example.com" {
			return fmt.Errorf("unexpected params")
		}
		if attempts < retries {
			return fmt.Errorf("temporary failure")
		}
		sent = msg
		return nil
	}
	if err := eq.Send(&Email{To: "admin@example.com", Subject: "subject", Body: "body"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if string(sent) != "Subject: subject\r\n\r\nbody\r\n" {
		t.Errorf("unexpected message: %q", sent)
	}
	eq.send = func(string, smtp.Auth, string, []string, []byte) error {
		return fmt.Errorf("permanent failure")
	}
	if err := eq.Send(&Email{To: "admin@example.com"}); !errors.Is(err, ErrSendingEmail) {
		t.Errorf("expected %v, got %v", ErrSendingEmail, err)
	}
	// the smtp recipient is the bare address
	var recipients []string
	eq.send = func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		recipients = to
		return nil
	}
	if err := eq.Send(&Email{To: "Admin <admin@example.com>"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(recipients) != 1 || recipients[0] != "admin@example.com" {
		t.Errorf("unexpected recipients: %v", recipients)
	}
	if err := eq.Send(&Email{To: "not an email"}); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected %v, got %v", ErrInvalidEmail, err)
	}
}

func TestAppSecretEmail(t *testing.T) {
	data := NewAppEmailData("prefix-app-id-1234", "My App", "s3cr3t", "5m0s", "admin@example.com")
	e, err := AppSecretEmail("admin@example.com", data)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if e.Subject != "Your app 'prefix-app-id-1234' is ready!" {
		t.Errorf("unexpected subject: %s", e.Subject)
	}
	for _, expected := range []string{"Hi admin,", "s3cr3t", "My App", "5m0s"} {
		if !strings.Contains(e.Body, expected) {
			t.Errorf("expected body to contain %q, got %s", expected, e.Body)
		}
	}
	if _, err := AppSecretEmail("not an email", data); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected %v, got %v", ErrInvalidEmail, err)
	}
	if e, err := AppSecretEmail("Admin <admin@example.com>", data); err != nil || e.To != "admin@example.com" {
		t.Errorf("unexpected email: %+v, %v", e, err)
	}
	if _, err := ParseTemplate("{{.Missing}}", data); !errors.Is(err, ErrTemplate) {
		t.Errorf("expected %v, got %v", ErrTemplate, err)
	}
}
