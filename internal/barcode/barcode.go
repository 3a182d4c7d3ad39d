// Package barcode produces checksum-validated product barcodes: a 3-digit
// business prefix, 10 random decimal digits, and a weighted modulo-10
// check digit, 14 characters in total.
package barcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// PayloadLen is the barcode length without the check digit.
	PayloadLen = 13
	// TotalLen is the full barcode length including the check digit.
	TotalLen = 14

	randomDigits = 10
)

var randomMax = big.NewInt(10_000_000_000)

// Generator mints barcodes under a fixed business prefix.
type Generator struct {
	prefix string
}

// NewGenerator builds a Generator. The prefix must be exactly three decimal
// digits; config validation guarantees that in production wiring.
func NewGenerator(prefix string) (*Generator, error) {
	if len(prefix) != 3 {
		return nil, fmt.Errorf("barcode prefix must be 3 digits, got %q", prefix)
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("barcode prefix must be numeric, got %q", prefix)
		}
	}
	return &Generator{prefix: prefix}, nil
}

// Generate returns a fresh barcode: prefix + 10 random digits + check digit.
// Uniqueness against existing products is the caller's responsibility;
// collisions are handled by calling Generate again.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, randomMax)
	if err != nil {
		return "", fmt.Errorf("random barcode suffix: %w", err)
	}
	payload := fmt.Sprintf("%s%0*d", g.prefix, randomDigits, n)
	check, err := Checksum(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", payload, check), nil
}

// Checksum computes the weighted modulo-10 check digit over a 13-digit
// payload: digits at even zero-based positions weigh 1, odd positions
// weigh 3, and the check digit is (10 - sum mod 10) mod 10.
func Checksum(payload string) (int, error) {
	if len(payload) != PayloadLen {
		return 0, fmt.Errorf("payload must be %d digits, got %d", PayloadLen, len(payload))
	}
	sum := 0
	for i, r := range payload {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("payload must be numeric, got %q", payload)
		}
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return (10 - sum%10) % 10, nil
}

// Valid reports whether code is a well-formed 14-digit barcode whose check
// digit matches its payload.
func Valid(code string) bool {
	if len(code) != TotalLen {
		return false
	}
	check, err := Checksum(code[:PayloadLen])
	if err != nil {
		return false
	}
	return code[PayloadLen] == byte('0'+check)
}
