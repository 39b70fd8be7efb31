package security

import (
	"testing"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(4)
	secret := []byte("y0S1xT9kq3vW")
	hash, err := h.Hash(secret)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty")
	}
	if err := h.Compare(hash, secret); err != nil {
		t.Fatalf("Compare: %v", err)
	}
}

func TestHasher_CompareWrongSecret(t *testing.T) {
	h := NewHasher(4)
	hash, _ := h.Hash([]byte("correct-secret"))
	if err := h.Compare(hash, []byte("wrong")); err == nil {
		t.Fatal("Compare with wrong secret should fail")
	}
}

func TestHasher_SaltVariation(t *testing.T) {
	h := NewHasher(4)
	h1, _ := h.Hash([]byte("same-secret"))
	h2, _ := h.Hash([]byte("same-secret"))
	if h1 == h2 {
		t.Error("hashing the same secret twice should produce different encodings")
	}
	if err := h.Compare(h1, []byte("same-secret")); err != nil {
		t.Errorf("Compare against first hash: %v", err)
	}
	if err := h.Compare(h2, []byte("same-secret")); err != nil {
		t.Errorf("Compare against second hash: %v", err)
	}
}

func TestHasher_Cost(t *testing.T) {
	h := NewHasher(12)
	if h.Cost != 12 {
		t.Errorf("Cost want 12, got %d", h.Cost)
	}
	h0 := NewHasher(0)
	if h0.Cost < 4 {
		t.Errorf("zero cost should be clamped to at least MinCost, got %d", h0.Cost)
	}
	h99 := NewHasher(99)
	if h99.Cost > 31 {
		t.Errorf("oversized cost should be clamped to MaxCost, got %d", h99.Cost)
	}
}
