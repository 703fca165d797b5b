package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionManagerWithClient(client), mr
}

func storeSession(t *testing.T, mr *miniredis.Miniredis, token string, data SessionData) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, mr.Set(token, string(raw)))
}

func TestResolve(t *testing.T) {
	sm, mr := newManager(t)
	storeSession(t, mr, "tok-1", SessionData{
		UserID:    "5a1c6f3e-0000-4000-8000-000000000001",
		Username:  "alice",
		CreatedAt: time.Now(),
	})

	session, err := sm.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, domain.SessionContext{
		Identity:    "5a1c6f3e-0000-4000-8000-000000000001",
		DisplayName: "alice",
	}, session)
}

func TestResolveFallsBackToEmail(t *testing.T) {
	sm, mr := newManager(t)
	storeSession(t, mr, "tok-2", SessionData{Email: "bob@y"})

	session, err := sm.Resolve(context.Background(), "tok-2")

	require.NoError(t, err)
	assert.Equal(t, "bob@y", session.Identity)
	assert.Equal(t, "bob@y", session.DisplayName)
}

func TestResolveRejectsUnknownSessions(t *testing.T) {
	sm, mr := newManager(t)
	require.NoError(t, mr.Set("broken", "{not json"))
	storeSession(t, mr, "anonymous", SessionData{Username: "ghost"})

	for _, token := range []string{"", "missing", "broken", "anonymous"} {
		_, err := sm.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, token)
	}
}

func TestResolveWhenRedisIsDown(t *testing.T) {
	sm, mr := newManager(t)
	mr.Close()

	_, err := sm.Resolve(context.Background(), "tok-1")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestResolveSurvivesCancelledCaller(t *testing.T) {
	sm, mr := newManager(t)
	storeSession(t, mr, "tok-1", SessionData{UserID: "alice@x", Username: "alice"})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	for range 50 {
		var wg sync.WaitGroup
		var session domain.SessionContext
		var err error

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = sm.Resolve(cancelled, "tok-1")
		}()
		go func() {
			defer wg.Done()
			session, err = sm.Resolve(context.Background(), "tok-1")
		}()
		wg.Wait()

		require.NoError(t, err)
		assert.Equal(t, "alice@x", session.Identity)
	}
}

func TestResolveReturnsCallerContextError(t *testing.T) {
	sm, _ := newManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sm.Resolve(ctx, "tok-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}
