package barcode

import (
	"strings"
	"testing"
)

func TestNewGeneratorRejectsBadPrefix(t *testing.T) {
	for _, prefix := range []string{"", "89", "8901", "8a0"} {
		if _, err := NewGenerator(prefix); err == nil {
			t.Fatalf("expected error for prefix %q", prefix)
		}
	}
}

func TestGenerateShapeAndChecksum(t *testing.T) {
	gen, err := NewGenerator("890")
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	for i := 0; i < 200; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != TotalLen {
			t.Fatalf("expected %d digits, got %q", TotalLen, code)
		}
		if !strings.HasPrefix(code, "890") {
			t.Fatalf("expected business prefix, got %q", code)
		}
		check, err := Checksum(code[:PayloadLen])
		if err != nil {
			t.Fatalf("checksum: %v", err)
		}
		if code[PayloadLen] != byte('0'+check) {
			t.Fatalf("check digit mismatch for %q: recomputed %d", code, check)
		}
		if !Valid(code) {
			t.Fatalf("generated code %q did not validate", code)
		}
	}
}

func TestChecksumKnownValues(t *testing.T) {
	// Weighted mod-10: even zero-based positions x1, odd x3.
	tests := []struct {
		payload string
		check   int
	}{
		{payload: "0000000000000", check: 0},
		{payload: "1000000000000", check: 9},
		{payload: "0100000000000", check: 7},
		{payload: "8901234567890", check: 0},
	}
	for _, tt := range tests {
		got, err := Checksum(tt.payload)
		if err != nil {
			t.Fatalf("checksum %q: %v", tt.payload, err)
		}
		if got != tt.check {
			t.Fatalf("payload %q expected check %d got %d", tt.payload, tt.check, got)
		}
	}
}

func TestChecksumRejectsMalformedPayload(t *testing.T) {
	if _, err := Checksum("123"); err == nil {
		t.Fatal("expected error for short payload")
	}
	if _, err := Checksum("12345678901ab"); err == nil {
		t.Fatal("expected error for non-numeric payload")
	}
}

func TestValidRejectsTamperedDigit(t *testing.T) {
	gen, err := NewGenerator("890")
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Flip one payload digit; the check digit must no longer match.
	flipped := []byte(code)
	if flipped[4] == '9' {
		flipped[4] = '0'
	} else {
		flipped[4]++
	}
	if Valid(string(flipped)) {
		t.Fatalf("tampered code %q validated", flipped)
	}
}
