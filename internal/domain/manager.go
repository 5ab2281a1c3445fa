package domain

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/text/language"

	"example.com/workouttracker/internal/events"
)

// Manager hands out one Service per user scope, loading the record on
// first access. Sessions live for the life of the process; cross-device
// concurrency remains last-write-wins.
type Manager struct {
	store     RecordStore
	collation language.Tag
	saveDelay time.Duration
	events    events.Publisher
	logger    *log.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Service
}

// ManagerConfig bundles the collaborators shared by all sessions.
type ManagerConfig struct {
	Store     RecordStore
	Collation language.Tag
	SaveDelay time.Duration
	Events    events.Publisher
	Logger    *log.Logger
	Now       func() time.Time
}

// NewManager constructs a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		store:     cfg.Store,
		collation: cfg.Collation,
		saveDelay: cfg.SaveDelay,
		events:    cfg.Events,
		logger:    cfg.Logger,
		now:       cfg.Now,
		sessions:  make(map[string]*Service),
	}
}

// Session returns the controller for the scope, creating and loading it on
// first access.
func (m *Manager) Session(ctx context.Context, scope string) (*Service, error) {
	m.mu.Lock()
	if s, ok := m.sessions[scope]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// Load outside the map lock; a losing racer discards its service in
	// favor of the one already registered.
	s, err := NewService(ctx, ServiceConfig{
		Scope:     scope,
		Store:     m.store,
		Collation: m.collation,
		SaveDelay: m.saveDelay,
		Events:    m.events,
		Logger:    m.logger,
		Now:       m.now,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[scope]; ok {
		return existing, nil
	}
	m.sessions[scope] = s
	return s, nil
}

// CloseAll flushes every session's pending save. Called on shutdown; the
// first error is returned after all sessions were attempted.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Service, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
