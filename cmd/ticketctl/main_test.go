package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/simpleauthlink/appticket/ticket"
)

const (
	testMasterSecret = "123"
	testAppId        = "test-app-12345"
)

func testNow() time.Time {
	return time.UnixMilli(1700000000000)
}

func TestRunDerive(t *testing.T) {
	t.Setenv(masterSecretEnv, "")
	out := &bytes.Buffer{}
	if err := run([]string{"derive", testAppId}, out, testNow); err == nil {
		t.Error("expected error, got nil")
	}
	if err := run([]string{"derive", "--master-secret", testMasterSecret, testAppId}, out, testNow); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	expected, _ := ticket.DeriveAppSecret(testAppId, testMasterSecret)
	if got := strings.TrimSpace(out.String()); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if err := run([]string{"derive", "--master-secret", testMasterSecret, "BAD"}, out, testNow); !errors.Is(err, ticket.ErrFormat) {
		t.Errorf("expected %v, got %v", ticket.ErrFormat, err)
	}
}

func TestRunIssueAndVerify(t *testing.T) {
	t.Setenv(masterSecretEnv, testMasterSecret)
	secret, _ := ticket.DeriveAppSecret(testAppId, testMasterSecret)
	for _, args := range [][]string{
		{"issue", testAppId},
		{"issue", "--secret", secret, testAppId},
	} {
		out := &bytes.Buffer{}
		if err := run(args, out, testNow); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		tk := strings.TrimSpace(out.String())
		out.Reset()
		if err := run([]string{"verify", tk}, out, testNow); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if !strings.Contains(out.String(), testAppId) {
			t.Errorf("expected app id in output, got %s", out.String())
		}
		// the same ticket is rejected an hour later
		later := func() time.Time { return testNow().Add(time.Hour) }
		if err := run([]string{"verify", tk}, out, later); !errors.Is(err, errInvalidTicket) {
			t.Errorf("expected %v, got %v", errInvalidTicket, err)
		}
	}
}

func TestRunInspect(t *testing.T) {
	tk, err := ticket.ClientTicket(testAppId, "secret", testNow().Add(-time.Minute).UnixMilli(), "salt")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	out := &bytes.Buffer{}
	if err := run([]string{"inspect", tk}, out, testNow); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	for _, expected := range []string{testAppId, "salt", "1 minute ago"} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("expected %q in output, got %s", expected, out.String())
		}
	}
	if err := run([]string{"inspect", "not-a-ticket"}, out, testNow); !errors.Is(err, ticket.ErrMalformedTicket) {
		t.Errorf("expected %v, got %v", ticket.ErrMalformedTicket, err)
	}
	failed, err := ticket.ClientTicket(testAppId, "", testNow().UnixMilli(), "salt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	err = run([]string{"inspect", failed}, out, testNow)
	if !errors.Is(err, ticket.ErrMalformedTicket) || !strings.Contains(err.Error(), "failed issuance") {
		t.Errorf("expected failed issuance error, got %v", err)
	}
}

func TestRunUsage(t *testing.T) {
	out := &bytes.Buffer{}
	if err := run(nil, out, testNow); err == nil {
		t.Error("expected error, got nil")
	}
	if err := run([]string{"unknown", "arg"}, out, testNow); err == nil {
		t.Error("expected error, got nil")
	}
	if err := run([]string{"inspect"}, out, testNow); err == nil {
		t.Error("expected error, got nil")
	}
}
