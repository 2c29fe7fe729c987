// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp generates and checks the numeric one-time codes used for
// password recovery.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
)

// CodeLength is the number of digits in a code.
const CodeLength = 6

const digits = "0123456789"

// Generator produces codes from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorFrom creates a generator reading from r.
func NewGeneratorFrom(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns CodeLength independent uniform digits. Leading zeros are
// kept, so the result is a string.
func (g *Generator) Generate() (string, error) {
	code := make([]byte, 0, CodeLength)
	buf := make([]byte, CodeLength)

	for len(code) < CodeLength {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256.
			if b >= 250 {
				continue
			}
			code = append(code, digits[b%10])
			if len(code) == CodeLength {
				break
			}
		}
	}

	return string(code), nil
}

// Valid reports whether code has the shape of a generated code.
func Valid(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := range len(code) {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Equal compares two codes in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
