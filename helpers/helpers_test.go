package helpers

import (
	"encoding/hex"
	"testing"
)

func TestRandHex(t *testing.T) {
	for _, n := range []int{1, 16, 64} {
		r := RandHex(n)
		if len(r) != 2*n {
			t.Errorf("expected length %d, got %d", 2*n, len(r))
		}
		if _, err := hex.DecodeString(r); err != nil {
			t.Errorf("expected hex string, got %s", r)
		}
	}
	if RandHex(0) != "" {
		t.Error("expected empty string for zero length")
	}
	if RandHex(SaltSize) == RandHex(SaltSize) {
		t.Error("expected different random values")
	}
}

func TestHash(t *testing.T) {
	// sha256("abc")
	expected := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash("abc"); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if HashParts("a", "b", "c") != Hash("a|b|c") {
		t.Error("expected parts to be joined with the hash input separator")
	}
}

func TestValidAppId(t *testing.T) {
	tests := []struct {
		appId string
		valid bool
	}{
		{"app-id-12345", true},
		{"apppp", true},
		{"appp", false},
		{"", false},
		{"Bad App Name!!!", false},
		{"UPPER-case", false},
		{"app.with.dots", false},
		{"bad.!$appname", false},
	}
	for _, tt := range tests {
		if got := ValidAppId(tt.appId); got != tt.valid {
			t.Errorf("ValidAppId(%q) = %v, want %v", tt.appId, got, tt.valid)
		}
	}
}

func TestGroupedAppId(t *testing.T) {
	if got := GroupedAppId("prefix", "app-id-1234"); got != "prefix-app-id-1234" {
		t.Errorf("unexpected grouped app id: %s", got)
	}
	if got := GroupedAppId("", "app-id-1234"); got != "app-id-1234" {
		t.Errorf("unexpected app id: %s", got)
	}
}
