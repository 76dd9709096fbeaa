package handler

import (
	"context"
	"testing"

	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_OpenReusesSession(t *testing.T) {
	s := newTestServer(t)
	playerID := uuid.New()

	g1, created, err := s.sessions.Open(context.Background(), playerID)
	require.NoError(t, err)
	assert.True(t, created)

	g2, created, err := s.sessions.Open(context.Background(), playerID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, g1, g2)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestSessionManager_LoadedSessionSurvivesExpiredWait(t *testing.T) {
	s := newTestServer(t)
	playerID := uuid.New()

	loaded, _, err := s.sessions.Open(context.Background(), playerID)
	require.NoError(t, err)

	expired, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 50; i++ {
		g, created, err := s.sessions.Open(expired, playerID)
		require.NoError(t, err, "attempt %d", i)
		assert.False(t, created)
		assert.Same(t, loaded, g)
	}

	got, err := s.sessions.Get(playerID)
	require.NoError(t, err)
	assert.Same(t, loaded, got)
}

func TestSessionManager_Close(t *testing.T) {
	s := newTestServer(t)
	playerID := uuid.New()

	_, _, err := s.sessions.Open(context.Background(), playerID)
	require.NoError(t, err)
	require.NoError(t, s.sessions.Close(context.Background(), playerID))

	_, err = s.sessions.Get(playerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.sessions.Close(context.Background(), playerID), models.ErrNotFound)
}
