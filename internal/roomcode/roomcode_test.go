package roomcode

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator(nil)

	code := g.Generate()
	if len(code) != Length {
		t.Errorf("expected %d characters, got %d", Length, len(code))
	}
	if err := Validate(code); err != nil {
		t.Errorf("generated code failed validation: %v", err)
	}
}

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator(nil)
	codes := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := g.Generate()
		if codes[code] {
			t.Errorf("duplicate code generated: %s", code)
		}
		codes[code] = true
	}
}

func TestAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for _, char := range alphabet {
		if seen[char] {
			t.Errorf("duplicate character in alphabet: %c", char)
		}
		seen[char] = true
	}

	// Ambiguous characters stay out so codes survive being read aloud
	forbidden := "0O1IL"
	for _, char := range forbidden {
		if strings.ContainsRune(alphabet, char) {
			t.Errorf("alphabet should not contain %c", char)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc234", "ABC234"},
		{"  XYZ789 ", "XYZ789"},
		{"AbC234", "ABC234"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid code", code: "ABC234", wantErr: false},
		{name: "too short", code: "ABC23", wantErr: true},
		{name: "too long", code: "ABC2345", wantErr: true},
		{name: "contains zero", code: "ABC230", wantErr: true},
		{name: "contains lowercase", code: "abc234", wantErr: true},
		{name: "contains letter O", code: "ABCO34", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

// fixedSource always returns the same index.
type fixedSource struct{ v int }

func (f fixedSource) IntN(n int) int { return f.v % n }

func TestGenerateWithSource(t *testing.T) {
	g := NewGenerator(fixedSource{v: 0})

	code := g.Generate()
	want := strings.Repeat(string(alphabet[0]), Length)
	if code != want {
		t.Errorf("expected %q, got %q", want, code)
	}
}
