package crypto

import (
	"errors"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{};:,.<>/?"

	// SimilarChars are the visually ambiguous characters dropped by ExcludeSimilar.
	SimilarChars = "0Oo1lI"

	consonantChars = "bcdfghjklmnpqrstvwxyz"
	vowelChars     = "aeiou"

	MaxLength = 128
)

var ErrNoCharsetSelected = errors.New("at least one character set must be selected")

// Class is a named, fixed alphabet.
type Class int

const (
	ClassUpper Class = iota
	ClassLower
	ClassNumbers
	ClassSymbols
)

// Alphabet returns the unfiltered characters of the class.
func (c Class) Alphabet() string {
	switch c {
	case ClassUpper:
		return uppercaseChars
	case ClassLower:
		return lowercaseChars
	case ClassNumbers:
		return numberChars
	case ClassSymbols:
		return symbolChars
	}
	return ""
}

func (c Class) String() string {
	switch c {
	case ClassUpper:
		return "upper"
	case ClassLower:
		return "lower"
	case ClassNumbers:
		return "numbers"
	case ClassSymbols:
		return "symbols"
	}
	return "unknown"
}

// GeneratorOptions configures the password generator.
type GeneratorOptions struct {
	Length         int
	Uppercase      bool
	Lowercase      bool
	Numbers        bool
	Symbols        bool
	ExcludeSimilar bool
	// RequireAll forces at least one character from every selected class.
	RequireAll bool
	// Pronounceable alternates consonants and vowels and ignores the classes.
	Pronounceable bool
	// TitleCase uppercases the first character and ends the password with a digit.
	TitleCase bool
}

// DefaultOptions returns sensible defaults: 16 characters with all classes enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Classes returns the enabled classes in upper, lower, numbers, symbols order.
func (o GeneratorOptions) Classes() []Class {
	var classes []Class
	if o.Uppercase {
		classes = append(classes, ClassUpper)
	}
	if o.Lowercase {
		classes = append(classes, ClassLower)
	}
	if o.Numbers {
		classes = append(classes, ClassNumbers)
	}
	if o.Symbols {
		classes = append(classes, ClassSymbols)
	}
	return classes
}

// Charset returns the effective sampling alphabet for the options.
func (o GeneratorOptions) Charset() string {
	var sb strings.Builder
	for _, c := range o.Classes() {
		sb.WriteString(c.Alphabet())
	}
	if !o.ExcludeSimilar {
		return sb.String()
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(SimilarChars, r) {
			return -1
		}
		return r
	}, sb.String())
}

// Generate builds a password from opts, drawing every random choice from rng.
// It fails only when the options leave no characters to sample from.
func Generate(opts GeneratorOptions, rng Source) (string, error) {
	var buf []byte

	if opts.Pronounceable {
		buf = pronounceable(opts.Length, rng)
	} else {
		charset := opts.Charset()
		if charset == "" {
			return "", ErrNoCharsetSelected
		}

		buf = make([]byte, max(opts.Length, 0))
		for i := range buf {
			buf[i] = randChar(charset, rng)
		}

		// The overwrite draws from the unfiltered class alphabet, so it can
		// put back a character that ExcludeSimilar removed.
		if opts.RequireAll && len(buf) > 0 {
			for _, c := range opts.Classes() {
				i := rng.IntN(len(buf))
				buf[i] = randChar(c.Alphabet(), rng)
			}
		}
	}

	if opts.TitleCase {
		titleCase(buf, rng)
	}

	return string(buf), nil
}

// pronounceable alternates consonant and vowel draws, consonant first.
func pronounceable(length int, rng Source) []byte {
	buf := make([]byte, max(length, 0))
	for i := range buf {
		if i%2 == 0 {
			buf[i] = randChar(consonantChars, rng)
		} else {
			buf[i] = randChar(vowelChars, rng)
		}
	}
	return buf
}

// titleCase uppercases the first character and makes sure the last one is a digit.
func titleCase(buf []byte, rng Source) {
	if len(buf) == 0 {
		return
	}
	if c := buf[0]; c >= 'a' && c <= 'z' {
		buf[0] = c - 'a' + 'A'
	}
	if last := buf[len(buf)-1]; last < '0' || last > '9' {
		buf[len(buf)-1] = randChar(numberChars, rng)
	}
}

// randChar picks a uniformly random character from charset.
func randChar(charset string, rng Source) byte {
	return charset[rng.IntN(len(charset))]
}
