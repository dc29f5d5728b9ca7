package token

import (
	"strings"
	"testing"
)

func TestMint_Format(t *testing.T) {
	tok := Mint("secret", "3f6c0a4e-9f6e-4c8e-8e1e-000000000001", 1700000000)
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		t.Fatalf("Mint = %q, want 3 colon-separated parts", tok)
	}
	if parts[0] != "3f6c0a4e-9f6e-4c8e-8e1e-000000000001" {
		t.Errorf("challenge id part = %q", parts[0])
	}
	if parts[1] != "1700000000" {
		t.Errorf("timestamp part = %q, want decimal timestamp", parts[1])
	}
	if len(parts[2]) != 64 {
		t.Errorf("signature length = %d, want 64 hex chars", len(parts[2]))
	}
	if parts[2] != strings.ToLower(parts[2]) {
		t.Errorf("signature %q should be lowercase hex", parts[2])
	}
}

func TestMint_Deterministic(t *testing.T) {
	a := Mint("secret", "id-1", 1700000000)
	b := Mint("secret", "id-1", 1700000000)
	if a != b {
		t.Errorf("Mint not deterministic: %q != %q", a, b)
	}
}

func TestMint_KeyAndInputSensitivity(t *testing.T) {
	base := Mint("secret", "id-1", 1700000000)
	if Mint("other", "id-1", 1700000000) == base {
		t.Error("different key should change the signature")
	}
	if Mint("secret", "id-2", 1700000000) == base {
		t.Error("different challenge id should change the token")
	}
	if Mint("secret", "id-1", 1700000001) == base {
		t.Error("different timestamp should change the token")
	}
}

func TestSplit(t *testing.T) {
	tok := Mint("secret", "id-1", 1700000000)
	id, ts, sig, ok := Split(tok)
	if !ok {
		t.Fatalf("Split(%q) ok = false", tok)
	}
	if id != "id-1" || ts != 1700000000 || len(sig) != 64 {
		t.Errorf("Split = (%q, %d, %q)", id, ts, sig)
	}
}

func TestSplit_Malformed(t *testing.T) {
	for _, tok := range []string{
		"",
		"id-1",
		"id-1:1700000000",
		"id-1:notanumber:deadbeef",
		":1700000000:deadbeef",
		"id-1:1700000000:",
		"id-1:1:2:3",
	} {
		if _, _, _, ok := Split(tok); ok {
			t.Errorf("Split(%q) ok = true, want false", tok)
		}
	}
}
