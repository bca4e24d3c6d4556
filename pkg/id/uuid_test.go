package id

import (
	"strings"
	"testing"
)

func TestGetUUID(t *testing.T) {
	u := GetUUID()
	if len(u) != 36 {
		t.Errorf("expected 36 char uuid, got %d: %s", len(u), u)
	}
	if u == GetUUID() {
		t.Error("consecutive uuids must differ")
	}
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	u := GetUUIDWithoutDashes()
	if len(u) != 32 {
		t.Errorf("expected 32 char uuid, got %d: %s", len(u), u)
	}
	if strings.Contains(u, "-") {
		t.Errorf("expected no dashes, got %s", u)
	}
}

func TestShortId(t *testing.T) {
	s := ShortId()
	if s == "" {
		t.Fatal("expected non-empty short id")
	}
	if s == ShortId() {
		t.Error("consecutive short ids must differ")
	}
}
