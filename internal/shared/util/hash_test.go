package util

import "testing"

func TestHashUserKey(t *testing.T) {
	id := "alice@example.com"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestHashUserKeyIgnoresCase(t *testing.T) {
	if HashUserKey(" Alice@Example.com ") != HashUserKey("alice@example.com") {
		t.Fatalf("expected case-insensitive namespace")
	}
	if HashUserKey("alice@example.com") == HashUserKey("bob@example.com") {
		t.Fatalf("expected distinct namespaces")
	}
}
