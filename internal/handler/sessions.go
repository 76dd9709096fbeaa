package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"deckswipe-server/internal/game"
	"deckswipe-server/internal/metrics"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameFactory builds an unloaded session for a player.
type GameFactory func(playerID uuid.UUID) *game.Game

// SessionManager keeps one loaded Game per player.
type SessionManager struct {
	factory     GameFactory
	loadTimeout time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*game.Game
}

func NewSessionManager(factory GameFactory, loadTimeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		factory:     factory,
		loadTimeout: loadTimeout,
		metrics:     m,
		logger:      logger.Named("SessionManager"),
		sessions:    make(map[uuid.UUID]*game.Game),
	}
}

// Open returns the player's session, creating and loading it if needed.
// created is true when this call created the session.
func (m *SessionManager) Open(ctx context.Context, playerID uuid.UUID) (g *game.Game, created bool, err error) {
	m.mu.Lock()
	g, ok := m.sessions[playerID]
	if !ok {
		g = m.factory(playerID)
		m.sessions[playerID] = g
		created = true
		m.metrics.SessionOpened()
		m.logger.Info("Session created", zap.Stringer("playerID", playerID))
	}
	m.mu.Unlock()

	// Loading is detached from the request; the request only bounds how long it waits.
	readiness := g.LoadAsync(context.WithoutCancel(ctx))
	waitCtx, cancel := context.WithTimeout(ctx, m.loadTimeout)
	defer cancel()
	if err := readiness.Wait(waitCtx); err != nil {
		select {
		case <-readiness.Done():
		default:
			return nil, false, fmt.Errorf("%w: session still loading", models.ErrNotReady)
		}
	}
	if loadErr := readiness.Err(); loadErr != nil {
		// Load itself failed: drop the session so the next call retries.
		m.remove(playerID, g)
		return nil, false, fmt.Errorf("load session: %w", loadErr)
	}
	return g, created, nil
}

// Get returns a loaded session or models.ErrNotFound.
func (m *SessionManager) Get(playerID uuid.UUID) (*game.Game, error) {
	m.mu.Lock()
	g, ok := m.sessions[playerID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", playerID, models.ErrNotFound)
	}
	return g, nil
}

// Close saves and drops the player's session.
func (m *SessionManager) Close(ctx context.Context, playerID uuid.UUID) error {
	m.mu.Lock()
	g, ok := m.sessions[playerID]
	if ok {
		delete(m.sessions, playerID)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", playerID, models.ErrNotFound)
	}
	m.metrics.SessionClosed()
	m.logger.Info("Session closed", zap.Stringer("playerID", playerID))
	return g.Close(ctx)
}

// CloseAll closes every session, returning the first error.
func (m *SessionManager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := m.Close(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len returns the number of sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) remove(playerID uuid.UUID, g *game.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.sessions[playerID]; ok && current == g {
		delete(m.sessions, playerID)
		m.metrics.SessionClosed()
	}
}
