package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/simpleauthlink/appticket/db"
	"github.com/simpleauthlink/appticket/helpers"
)

func TestParseConfig(t *testing.T) {
	noEnvFile := filepath.Join(t.TempDir(), "missing.env")
	// required values
	if _, err := parseConfig([]string{"--env-file", noEnvFile}); err == nil {
		t.Error("expected error, got nil")
	}
	if _, err := parseConfig([]string{"--env-file", noEnvFile, "--master-secret", "123"}); err == nil {
		t.Error("expected error, got nil")
	}
	c, err := parseConfig([]string{"--env-file", noEnvFile, "--master-secret", "123", "--admin-key", "key"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if c.port != defaultPort || c.timeWindow != helpers.DefaultMaxTimeWindow || c.dbDriver != defaultDBDriver {
		t.Errorf("unexpected defaults: %+v", c)
	}
	// env values are used when the flags are not set
	t.Setenv(masterSecretEnv, "env-secret")
	t.Setenv(adminKeyEnv, "env-key")
	t.Setenv(portEnv, "9090")
	t.Setenv(timeWindowEnv, "1m")
	c, err = parseConfig([]string{"--env-file", noEnvFile, "--admin-key", "flag-key"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if c.masterSecret != "env-secret" || c.adminKey != "flag-key" || c.port != 9090 || c.timeWindow != time.Minute {
		t.Errorf("unexpected config: %+v", c)
	}
	t.Setenv(portEnv, "not-a-port")
	if _, err := parseConfig([]string{"--env-file", noEnvFile}); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestParseConfigEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := masterSecretEnv + "=file-secret\n" + adminKeyEnv + "=file-key\n" + dbDriverEnv + "=temp\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv(masterSecretEnv)
		os.Unsetenv(adminKeyEnv)
		os.Unsetenv(dbDriverEnv)
	})
	c, err := parseConfig([]string{"--env-file", envFile})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if c.masterSecret != "file-secret" || c.adminKey != "file-key" || c.dbDriver != tempDriver {
		t.Errorf("unexpected config: %+v", c)
	}
	database, err := initDB(c)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if _, ok := database.(*db.TempDriver); !ok {
		t.Errorf("expected temp driver, got %T", database)
	}
	c.dbDriver = "unknown"
	if _, err := initDB(c); err == nil {
		t.Error("expected error, got nil")
	}
}
