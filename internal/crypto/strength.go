package crypto

import (
	"unicode/utf8"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// Tier is a discrete strength bucket.
type Tier string

const (
	TierUnknown Tier = "unknown"
	TierWeak    Tier = "weak"
	TierMedium  Tier = "medium"
	TierStrong  Tier = "strong"
)

const (
	strengthFullLength = 64
	varietyWeight      = 0.2
	mediumThreshold    = 0.33
	strongThreshold    = 0.66
)

// Strength is the heuristic score of a password.
type Strength struct {
	Score float64
	Tier  Tier
}

// Evaluate scores password by length and character variety.
// Length counts characters, not bytes.
func Evaluate(password string) Strength {
	if password == "" {
		return Strength{Score: 0, Tier: TierUnknown}
	}

	lengthScore := min(float64(utf8.RuneCountInString(password))/strengthFullLength, 1)
	score := min(lengthScore+float64(variety(password))*varietyWeight, 1)

	var tier Tier
	switch {
	case score < mediumThreshold:
		tier = TierWeak
	case score < strongThreshold:
		tier = TierMedium
	default:
		tier = TierStrong
	}

	return Strength{Score: score, Tier: tier}
}

// variety counts which of lowercase, uppercase, digit and other characters occur.
func variety(password string) int {
	var hasLower, hasUpper, hasDigit, hasOther bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasOther = true
		}
	}

	n := 0
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasOther} {
		if ok {
			n++
		}
	}
	return n
}

// Estimate is an advisory guessability estimate from zxcvbn.
type Estimate struct {
	Score     int
	Entropy   float64
	CrackTime string
}

// EstimateGuessability runs zxcvbn over password. hints are user-specific
// words (names, emails) that make a password easier to guess.
func EstimateGuessability(password string, hints []string) Estimate {
	if password == "" {
		return Estimate{}
	}
	r := zxcvbn.PasswordStrength(password, hints)
	return Estimate{
		Score:     r.Score,
		Entropy:   r.Entropy,
		CrackTime: r.CrackTimeDisplay,
	}
}
