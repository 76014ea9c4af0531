package model

import "time"

// SessionResponse carries a freshly issued anonymous session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LocaleRequest switches the active display language.
type LocaleRequest struct {
	Locale string `json:"locale"`
}

// LocaleResponse carries the active locale and its labels.
type LocaleResponse struct {
	Locale string            `json:"locale"`
	Labels map[string]string `json:"labels"`
}
