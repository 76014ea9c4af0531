package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/repository"
)

const (
	// HistoryKey is the settings name under which a session's history is stored.
	HistoryKey = "password_history_v1"
	// HistoryLimit is the number of recent passwords kept per session.
	HistoryLimit = 5
)

// HistoryNotifier receives a session's history after every change.
type HistoryNotifier interface {
	Publish(sessionID string, entries []model.HistoryEntry)
}

// HistoryService keeps the most recent passwords of each session.
type HistoryService struct {
	store    repository.SettingsStore
	notifier HistoryNotifier
	now      func() time.Time

	// serializes the read-modify-write in Record
	mu sync.Mutex
}

// NewHistoryService creates a new HistoryService. notifier may be nil.
func NewHistoryService(store repository.SettingsStore, notifier HistoryNotifier) *HistoryService {
	return &HistoryService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Record prepends password to the session's history, keeps the newest
// HistoryLimit entries and returns the stored list. Empty passwords are not recorded.
func (s *HistoryService) Record(ctx context.Context, sessionID, password string) ([]model.HistoryEntry, error) {
	// Nothing is written for an empty password. Stored lists never exceed
	// HistoryLimit, so there is no truncated list to persist either.
	if password == "" {
		return s.List(ctx, sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, 0, HistoryLimit)
	entries = append(entries, model.HistoryEntry{Value: password, Time: s.now().UnixMilli()})
	entries = append(entries, existing...)
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, sessionID, HistoryKey, string(data)); err != nil {
		return nil, err
	}

	// publishing under mu keeps notifications in write order; the hub never blocks
	s.publish(sessionID, entries)
	return entries, nil
}

// List returns the session's history, newest first. A missing or unreadable
// history is reported as empty.
func (s *HistoryService) List(ctx context.Context, sessionID string) ([]model.HistoryEntry, error) {
	raw, err := s.store.Get(ctx, sessionID, HistoryKey)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return []model.HistoryEntry{}, nil
		}
		return nil, err
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("discarding unreadable history", "session_id", sessionID, "error", err)
		return []model.HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}

	return entries, nil
}

// Clear removes the session's history.
func (s *HistoryService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, sessionID, HistoryKey); err != nil {
		return err
	}

	s.publish(sessionID, []model.HistoryEntry{})
	return nil
}

func (s *HistoryService) publish(sessionID string, entries []model.HistoryEntry) {
	if s.notifier != nil {
		s.notifier.Publish(sessionID, entries)
	}
}
