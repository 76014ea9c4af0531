package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
)

// SessionService issues and checks anonymous session tokens.
type SessionService struct {
	secret string
	expiry time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(secret string, expiry time.Duration) *SessionService {
	return &SessionService{
		secret: secret,
		expiry: expiry,
	}
}

// Create starts a new session and returns its token.
func (s *SessionService) Create() (model.SessionResponse, error) {
	id := uuid.NewString()

	token, expiresAt, err := crypto.GenerateToken(id, s.secret, s.expiry)
	if err != nil {
		return model.SessionResponse{}, err
	}

	return model.SessionResponse{
		Token:     token,
		SessionID: id,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate returns the session ID carried by token.
func (s *SessionService) Validate(token string) (string, error) {
	claims, err := crypto.ValidateToken(token, s.secret)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}
