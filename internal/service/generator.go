package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/i18n"
	"github.com/vaultpass/passgen/internal/model"
)

var (
	ErrLengthNegative = errors.New("password length must not be negative")
	ErrLengthTooLong  = errors.New("password length must be at most 128")
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	rng      crypto.Source
	defaults crypto.GeneratorOptions
	history  *HistoryService
	locales  *LocaleService
}

// NewGeneratorService creates a new GeneratorService. rng must be safe for
// concurrent use; history and locales may be nil.
func NewGeneratorService(rng crypto.Source, defaults crypto.GeneratorOptions, history *HistoryService, locales *LocaleService) *GeneratorService {
	return &GeneratorService{
		rng:      rng,
		defaults: defaults,
		history:  history,
		locales:  locales,
	}
}

// Options merges req over the service defaults and validates the result.
func (s *GeneratorService) Options(req model.GenerateRequest) (crypto.GeneratorOptions, error) {
	opts := crypto.GeneratorOptions{
		Length:         intOrDefault(req.Length, s.defaults.Length),
		Uppercase:      boolOrDefault(req.Uppercase, s.defaults.Uppercase),
		Lowercase:      boolOrDefault(req.Lowercase, s.defaults.Lowercase),
		Numbers:        boolOrDefault(req.Numbers, s.defaults.Numbers),
		Symbols:        boolOrDefault(req.Symbols, s.defaults.Symbols),
		ExcludeSimilar: boolOrDefault(req.ExcludeSimilar, s.defaults.ExcludeSimilar),
		RequireAll:     boolOrDefault(req.RequireAll, s.defaults.RequireAll),
		Pronounceable:  boolOrDefault(req.Pronounceable, s.defaults.Pronounceable),
		TitleCase:      boolOrDefault(req.TitleCase, s.defaults.TitleCase),
	}

	if opts.Length < 0 {
		return crypto.GeneratorOptions{}, ErrLengthNegative
	}
	if opts.Length > crypto.MaxLength {
		return crypto.GeneratorOptions{}, ErrLengthTooLong
	}

	return opts, nil
}

// Generate produces a password based on the given request. When sessionID is
// set the password is recorded in that session's history.
//
// A request selecting no character set is not an error: the response carries
// an empty password with an unknown strength and nothing is recorded.
func (s *GeneratorService) Generate(ctx context.Context, sessionID string, req model.GenerateRequest) (model.GenerateResponse, error) {
	opts, err := s.Options(req)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	password, err := crypto.Generate(opts, s.rng)
	if err != nil {
		if !errors.Is(err, crypto.ErrNoCharsetSelected) {
			return model.GenerateResponse{}, err
		}
		slog.Debug("no character set selected", "session_id", sessionID)
		password = ""
	}

	resp := model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Strength: strengthResponse(password, s.locale(ctx, sessionID)),
	}

	if sessionID != "" && s.history != nil {
		entries, err := s.history.Record(ctx, sessionID, password)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		resp.History = entries
	}

	return resp, nil
}

// Strength evaluates an arbitrary password, adding the advisory zxcvbn estimate.
func (s *GeneratorService) Strength(ctx context.Context, sessionID string, req model.StrengthRequest) model.StrengthResponse {
	resp := strengthResponse(req.Password, s.locale(ctx, sessionID))

	if req.Password != "" {
		est := crypto.EstimateGuessability(req.Password, req.Hints)
		resp.Estimate = &model.EstimateResponse{
			Score:     est.Score,
			Entropy:   est.Entropy,
			CrackTime: est.CrackTime,
		}
	}

	return resp
}

func (s *GeneratorService) locale(ctx context.Context, sessionID string) i18n.Locale {
	if s.locales == nil {
		return i18n.Default
	}
	l, err := s.locales.Get(ctx, sessionID)
	if err != nil {
		slog.Warn("locale lookup failed", "session_id", sessionID, "error", err)
		return i18n.Default
	}
	return l
}

func strengthResponse(password string, l i18n.Locale) model.StrengthResponse {
	st := crypto.Evaluate(password)
	return model.StrengthResponse{
		Score: st.Score,
		Tier:  string(st.Tier),
		Label: l.Label(TierKey(st.Tier)),
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func intOrDefault(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
