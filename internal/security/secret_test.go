package security

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestRandomSecret_Length(t *testing.T) {
	s, err := RandomSecret(32)
	if err != nil {
		t.Fatalf("RandomSecret: %v", err)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("secret is not valid unpadded URL-safe base64: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("decoded length = %d, want 32", len(decoded))
	}
}

func TestRandomSecret_NoDelimiter(t *testing.T) {
	for i := 0; i < 50; i++ {
		s, err := RandomSecret(32)
		if err != nil {
			t.Fatalf("RandomSecret: %v", err)
		}
		if strings.ContainsAny(s, ".=+/") {
			t.Fatalf("secret %q contains a forbidden character", s)
		}
	}
}

func TestRandomSecret_Unique(t *testing.T) {
	a, _ := RandomSecret(32)
	b, _ := RandomSecret(32)
	if a == b {
		t.Error("two generated secrets should not collide")
	}
}

func TestRandomSecret_InvalidSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := RandomSecret(n); err == nil {
			t.Errorf("RandomSecret(%d) should return error", n)
		}
	}
}

func TestSHA256Hex_Consistent(t *testing.T) {
	h1 := SHA256Hex("Mozilla/5.0")
	h2 := SHA256Hex("Mozilla/5.0")
	if h1 != h2 {
		t.Errorf("SHA256Hex not deterministic: %q vs %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("digest length = %d, want 64 (SHA-256 hex)", len(h1))
	}
}

func TestSHA256Hex_DifferentInputs(t *testing.T) {
	if SHA256Hex("10.0.0.1") == SHA256Hex("10.0.0.2") {
		t.Error("SHA256Hex produced same digest for different inputs")
	}
}
