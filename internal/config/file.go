package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/i18n"
)

// FileConfig represents the optional TOML configuration file.
type FileConfig struct {
	Generator GeneratorConfig `toml:"generator"`
	Locale    LocaleConfig    `toml:"locale"`
}

// GeneratorConfig overrides the generator defaults. Unset keys keep the built-in value.
type GeneratorConfig struct {
	Length         *int  `toml:"length"`
	Uppercase      *bool `toml:"uppercase"`
	Lowercase      *bool `toml:"lowercase"`
	Numbers        *bool `toml:"numbers"`
	Symbols        *bool `toml:"symbols"`
	ExcludeSimilar *bool `toml:"exclude-similar"`
	RequireAll     *bool `toml:"require-all"`
	Pronounceable  *bool `toml:"pronounceable"`
	TitleCase      *bool `toml:"title-case"`
}

type LocaleConfig struct {
	Default *string `toml:"default"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if l := cfg.Generator.Length; l != nil && (*l < 0 || *l > crypto.MaxLength) {
		return FileConfig{}, fmt.Errorf("generator length %d out of range 0..%d", *l, crypto.MaxLength)
	}

	return cfg, nil
}

// Options applies the file's generator settings on top of base.
func (f FileConfig) Options(base crypto.GeneratorOptions) crypto.GeneratorOptions {
	g := f.Generator
	if g.Length != nil {
		base.Length = *g.Length
	}
	setBool(&base.Uppercase, g.Uppercase)
	setBool(&base.Lowercase, g.Lowercase)
	setBool(&base.Numbers, g.Numbers)
	setBool(&base.Symbols, g.Symbols)
	setBool(&base.ExcludeSimilar, g.ExcludeSimilar)
	setBool(&base.RequireAll, g.RequireAll)
	setBool(&base.Pronounceable, g.Pronounceable)
	setBool(&base.TitleCase, g.TitleCase)
	return base
}

// DefaultLocale returns the configured default locale, falling back like any
// other locale code.
func (f FileConfig) DefaultLocale() i18n.Locale {
	if f.Locale.Default == nil {
		return i18n.Default
	}
	l, _ := i18n.Resolve(*f.Locale.Default)
	return l
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
