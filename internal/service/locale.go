package service

import (
	"context"
	"errors"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/i18n"
	"github.com/vaultpass/passgen/internal/repository"
)

// LocaleKey is the settings name under which a session's locale is stored.
const LocaleKey = "password_lang_v1"

// LocaleService tracks the display language of each session.
type LocaleService struct {
	store    repository.SettingsStore
	fallback i18n.Locale
}

// NewLocaleService creates a new LocaleService. fallback is used for sessions
// that never chose a locale.
func NewLocaleService(store repository.SettingsStore, fallback i18n.Locale) *LocaleService {
	return &LocaleService{store: store, fallback: fallback}
}

// Get returns the session's locale. Anonymous requests get the fallback.
func (s *LocaleService) Get(ctx context.Context, sessionID string) (i18n.Locale, error) {
	if sessionID == "" {
		return s.fallback, nil
	}

	code, err := s.store.Get(ctx, sessionID, LocaleKey)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return s.fallback, nil
		}
		return "", err
	}

	l, _ := i18n.Resolve(code)
	return l, nil
}

// Set stores the locale for code and returns it. Unsupported codes are
// replaced by the default locale, which is what gets stored.
func (s *LocaleService) Set(ctx context.Context, sessionID, code string) (i18n.Locale, error) {
	l, _ := i18n.Resolve(code)
	if err := s.store.Set(ctx, sessionID, LocaleKey, string(l)); err != nil {
		return "", err
	}
	return l, nil
}

// TierKey maps a strength tier to its label.
func TierKey(tier crypto.Tier) i18n.Key {
	switch tier {
	case crypto.TierWeak:
		return i18n.StrengthWeak
	case crypto.TierMedium:
		return i18n.StrengthMedium
	case crypto.TierStrong:
		return i18n.StrengthStrong
	}
	return i18n.StrengthUnknown
}
