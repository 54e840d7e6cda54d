package services

import "testing"

func TestHashAPIKeyDeterministic(t *testing.T) {
	a := hashAPIKey("secret-key-material")
	b := hashAPIKey("secret-key-material")
	if a != b {
		t.Fatalf("hashing the same key must be deterministic, got %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars for sha256, got %d", len(a))
	}
	if hashAPIKey("other-key") == a {
		t.Fatalf("different keys must hash differently")
	}
}
