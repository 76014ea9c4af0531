package crypto

import (
	"errors"
	mrand "math/rand/v2"
	"strings"
	"testing"
)

// scriptedSource replays vals in order, reduced modulo n.
type scriptedSource struct {
	vals  []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.vals[s.calls%len(s.vals)]
	s.calls++
	return v % n
}

func seeded() Source {
	return mrand.New(mrand.NewPCG(1, 2))
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		opts    GeneratorOptions
		wantLen int
		wantErr error
	}{
		{
			name:    "default options",
			opts:    DefaultOptions(),
			wantLen: 16,
		},
		{
			name:    "all options enabled",
			opts:    GeneratorOptions{Length: 32, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true, ExcludeSimilar: true, RequireAll: true, TitleCase: true},
			wantLen: 32,
		},
		{
			name:    "uppercase only",
			opts:    GeneratorOptions{Length: 16, Uppercase: true},
			wantLen: 16,
		},
		{
			name:    "symbols only",
			opts:    GeneratorOptions{Length: 16, Symbols: true},
			wantLen: 16,
		},
		{
			name:    "single character",
			opts:    GeneratorOptions{Length: 1, Lowercase: true, RequireAll: true},
			wantLen: 1,
		},
		{
			name:    "maximum length",
			opts:    GeneratorOptions{Length: MaxLength, Uppercase: true, Lowercase: true},
			wantLen: MaxLength,
		},
		{
			name:    "zero length",
			opts:    GeneratorOptions{Length: 0, Uppercase: true, RequireAll: true, TitleCase: true},
			wantLen: 0,
		},
		{
			name:    "negative length",
			opts:    GeneratorOptions{Length: -3, Numbers: true},
			wantLen: 0,
		},
		{
			name:    "pronounceable ignores classes",
			opts:    GeneratorOptions{Length: 9, Pronounceable: true},
			wantLen: 9,
		},
		{
			name:    "pronounceable zero length",
			opts:    GeneratorOptions{Length: 0, Pronounceable: true, TitleCase: true},
			wantLen: 0,
		},
		{
			name:    "no character classes selected",
			opts:    GeneratorOptions{Length: 16},
			wantErr: ErrNoCharsetSelected,
		},
		{
			name:    "no character classes with zero length",
			opts:    GeneratorOptions{Length: 0, ExcludeSimilar: true},
			wantErr: ErrNoCharsetSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.opts, seeded())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				if result != "" {
					t.Error("Generate() should return empty string on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(result) != tt.wantLen {
				t.Errorf("Generate() length = %d, want %d", len(result), tt.wantLen)
			}
		})
	}
}

func TestGenerateSingleClassContainsOnlyThatClass(t *testing.T) {
	tests := []struct {
		name    string
		opts    GeneratorOptions
		charset string
	}{
		{"uppercase only", GeneratorOptions{Length: 32, Uppercase: true}, uppercaseChars},
		{"lowercase only", GeneratorOptions{Length: 32, Lowercase: true}, lowercaseChars},
		{"numbers only", GeneratorOptions{Length: 32, Numbers: true}, numberChars},
		{"symbols only", GeneratorOptions{Length: 32, Symbols: true}, symbolChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := Generate(tt.opts, seeded())
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			for _, ch := range password {
				if !strings.ContainsRune(tt.charset, ch) {
					t.Errorf("password contains unexpected character %q (not in %q)", string(ch), tt.charset)
				}
			}
		})
	}
}

func TestGenerateExcludeSimilar(t *testing.T) {
	opts := GeneratorOptions{Length: 64, Uppercase: true, Lowercase: true, Numbers: true, ExcludeSimilar: true}
	rng := seeded()

	for i := 0; i < 200; i++ {
		password, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if strings.ContainsAny(password, SimilarChars) {
			t.Fatalf("password %q contains a similar character", password)
		}
	}
}

func TestCharsetNonEmptyForEachClass(t *testing.T) {
	// filtering never empties a selected class
	for _, c := range []Class{ClassUpper, ClassLower, ClassNumbers, ClassSymbols} {
		opts := GeneratorOptions{Length: 4, ExcludeSimilar: true}
		switch c {
		case ClassUpper:
			opts.Uppercase = true
		case ClassLower:
			opts.Lowercase = true
		case ClassNumbers:
			opts.Numbers = true
		case ClassSymbols:
			opts.Symbols = true
		}
		if opts.Charset() == "" {
			t.Errorf("Charset() for %s with ExcludeSimilar is empty", c)
		}
	}
}

func TestCharsetPreservesOrder(t *testing.T) {
	opts := GeneratorOptions{Uppercase: true, Numbers: true, ExcludeSimilar: true}

	want := "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	if got := opts.Charset(); got != want {
		t.Errorf("Charset() = %q, want %q", got, want)
	}
}

func TestGenerateRequireAllOverwritesPositions(t *testing.T) {
	// charset is upper+numbers (36 chars): four draws of index 0 give "AAAA",
	// then upper writes 'C' at 1 and numbers writes '5' at 3.
	rng := &scriptedSource{vals: []int{0, 0, 0, 0, 1, 2, 3, 5}}
	opts := GeneratorOptions{Length: 4, Uppercase: true, Numbers: true, RequireAll: true}

	got, err := Generate(opts, rng)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if got != "ACA5" {
		t.Errorf("Generate() = %q, want %q", got, "ACA5")
	}
	if rng.calls != 8 {
		t.Errorf("source used %d times, want 8", rng.calls)
	}
}

func TestGenerateRequireAllCollisionLastWriteWins(t *testing.T) {
	// base "0000" (index 26 is '0'); both classes pick position 2.
	rng := &scriptedSource{vals: []int{26, 26, 26, 26, 2, 0, 2, 9}}
	opts := GeneratorOptions{Length: 4, Uppercase: true, Numbers: true, RequireAll: true}

	got, err := Generate(opts, rng)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if got != "0090" {
		t.Errorf("Generate() = %q, want %q", got, "0090")
	}
}

func TestGenerateRequireAllIgnoresExcludeSimilar(t *testing.T) {
	// filtered numbers are "23456789"; the overwrite uses the full "0123456789".
	rng := &scriptedSource{vals: []int{0, 0, 0, 1, 0}}
	opts := GeneratorOptions{Length: 3, Numbers: true, ExcludeSimilar: true, RequireAll: true}

	got, err := Generate(opts, rng)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if got != "202" {
		t.Errorf("Generate() = %q, want %q", got, "202")
	}
}

func TestGenerateRequireAllContainsSelectedClasses(t *testing.T) {
	opts := GeneratorOptions{Length: 16, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true, RequireAll: true}
	rng := seeded()

	misses := 0
	for i := 0; i < 200; i++ {
		password, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		for _, c := range opts.Classes() {
			if !strings.ContainsAny(password, c.Alphabet()) {
				misses++
			}
		}
	}
	// positions may collide, so a rare miss is allowed
	if misses > 10 {
		t.Errorf("selected classes missing %d times in 200 passwords", misses)
	}
}

func TestGeneratePronounceable(t *testing.T) {
	opts := GeneratorOptions{Length: 11, Pronounceable: true, Uppercase: true, Symbols: true}
	rng := seeded()

	for i := 0; i < 50; i++ {
		password, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if len(password) != 11 {
			t.Fatalf("Generate() length = %d, want 11", len(password))
		}
		for j := 0; j < len(password); j++ {
			set := consonantChars
			if j%2 == 1 {
				set = vowelChars
			}
			if !strings.ContainsRune(set, rune(password[j])) {
				t.Fatalf("password %q: character %d (%q) not in %q", password, j, password[j], set)
			}
		}
	}
}

func TestGenerateTitleCase(t *testing.T) {
	t.Run("replaces trailing letter with digit", func(t *testing.T) {
		rng := &scriptedSource{vals: []int{0, 0, 0, 4}}
		opts := GeneratorOptions{Length: 3, Pronounceable: true, TitleCase: true}

		got, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if got != "Ba4" {
			t.Errorf("Generate() = %q, want %q", got, "Ba4")
		}
	})

	t.Run("keeps trailing digit", func(t *testing.T) {
		rng := &scriptedSource{vals: []int{1, 2, 3}}
		opts := GeneratorOptions{Length: 3, Numbers: true, TitleCase: true}

		got, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if got != "123" {
			t.Errorf("Generate() = %q, want %q", got, "123")
		}
		if rng.calls != 3 {
			t.Errorf("source used %d times, want 3", rng.calls)
		}
	})

	t.Run("applies to every mode", func(t *testing.T) {
		rng := seeded()
		for _, opts := range []GeneratorOptions{
			{Length: 12, Lowercase: true, TitleCase: true},
			{Length: 12, Pronounceable: true, TitleCase: true},
			{Length: 12, Lowercase: true, Symbols: true, RequireAll: true, TitleCase: true},
		} {
			for i := 0; i < 50; i++ {
				password, err := Generate(opts, rng)
				if err != nil {
					t.Fatalf("Generate() unexpected error: %v", err)
				}
				last := password[len(password)-1]
				if last < '0' || last > '9' {
					t.Fatalf("password %q does not end with a digit", password)
				}
				first := password[0]
				if first >= 'a' && first <= 'z' {
					t.Fatalf("password %q starts with a lowercase letter", password)
				}
			}
		}
	})
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	opts := DefaultOptions()
	rng := NewSystemSource()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password, err := Generate(opts, rng)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}
