// Package i18n holds the display strings for every supported locale.
//
// Labels are addressed by Key rather than by string, and each dictionary is an
// array indexed by Key, so a label can never be looked up under a misspelled
// name. Unknown locale codes resolve to Chinese, the default locale.
package i18n

// Locale is a supported display language.
type Locale string

const (
	Chinese Locale = "zh"
	English Locale = "en"

	Default = Chinese
)

// Key identifies a display string.
type Key int

const (
	Title Key = iota
	Subtitle
	Language
	Copy
	Copied
	CopyFailed
	Placeholder
	StrengthUnknown
	StrengthWeak
	StrengthMedium
	StrengthStrong
	Length
	Charsets
	Upper
	Lower
	Numbers
	Symbols
	Exclude
	Advanced
	RequireAll
	Pronounceable
	TitleCase
	Generate
	ClearHistory
	History
	TipsTitle
	TipLength
	TipUnique
	TipManager
	Footer

	keyCount
)

var keyNames = [keyCount]string{
	Title:           "title",
	Subtitle:        "subtitle",
	Language:        "language",
	Copy:            "copy",
	Copied:          "copied",
	CopyFailed:      "copy_failed",
	Placeholder:     "placeholder",
	StrengthUnknown: "strength_unknown",
	StrengthWeak:    "strength_weak",
	StrengthMedium:  "strength_medium",
	StrengthStrong:  "strength_strong",
	Length:          "length",
	Charsets:        "charsets",
	Upper:           "upper",
	Lower:           "lower",
	Numbers:         "numbers",
	Symbols:         "symbols",
	Exclude:         "exclude",
	Advanced:        "advanced",
	RequireAll:      "require_all",
	Pronounceable:   "pronounceable",
	TitleCase:       "titlecase",
	Generate:        "generate",
	ClearHistory:    "clear_history",
	History:         "history",
	TipsTitle:       "tips_title",
	TipLength:       "tip_length",
	TipUnique:       "tip_unique",
	TipManager:      "tip_manager",
	Footer:          "footer",
}

// String returns the wire name of the key, e.g. "strength_weak".
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return ""
	}
	return keyNames[k]
}

// Keys returns every key in declaration order.
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Supported returns the supported locales, default first.
func Supported() []Locale {
	return []Locale{Chinese, English}
}

// Resolve maps a locale code to a supported locale. Unknown codes resolve to
// Default and report false.
func Resolve(code string) (Locale, bool) {
	switch Locale(code) {
	case Chinese:
		return Chinese, true
	case English:
		return English, true
	}
	return Default, false
}

// Label returns the display string for key in locale, falling back to the
// default locale for unsupported codes.
func (l Locale) Label(key Key) string {
	if key < 0 || key >= keyCount {
		return ""
	}
	return dictionary(l)[key]
}

// Labels returns the full dictionary for locale keyed by wire name.
func (l Locale) Labels() map[string]string {
	dict := dictionary(l)
	out := make(map[string]string, keyCount)
	for i, v := range dict {
		out[keyNames[i]] = v
	}
	return out
}

func dictionary(l Locale) *[keyCount]string {
	if l == English {
		return &en
	}
	return &zh
}
