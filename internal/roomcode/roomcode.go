// Package roomcode generates the short join codes that identify rooms.
package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Length is the fixed code length.
const Length = 6

// Codes use an unambiguous uppercase alphabet: no 0/O, 1/I/L pairs, so a
// code read aloud survives the trip.
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// RandSource allows injecting deterministic randomness for tests.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes with configurable randomness.
type Generator struct {
	src RandSource
}

// NewGenerator creates a generator. A nil source falls back to crypto/rand.
func NewGenerator(src RandSource) *Generator {
	return &Generator{src: src}
}

// Generate returns a new random room code.
func (g *Generator) Generate() string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		sb.WriteByte(alphabet[g.index()])
	}
	return sb.String()
}

func (g *Generator) index() int {
	if g.src != nil {
		return g.src.IntN(len(alphabet))
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		panic("failed to generate random room code: " + err.Error())
	}
	return int(n.Int64())
}

// Normalize upper-cases a code as typed by a player.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks length and alphabet membership.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return fmt.Errorf("invalid character %c at position %d", code[i], i)
		}
	}
	return nil
}
