package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the sessions table. The
// table is created by hand because the model's uuid default is a Postgres
// function.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE sessions (
		id text PRIMARY KEY,
		email text NOT NULL,
		remote_token text NOT NULL,
		user text DEFAULT '{}',
		expires_at datetime NOT NULL,
		created_at datetime,
		updated_at datetime
	)`).Error)
	return db
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(newTestDB(t), "test-secret", time.Hour)

	token, sess, err := store.Create("user@example.com", "remote-tok", json.RawMessage(`{"id":7}`))
	require.NoError(t, err)

	id, email, err := ParseToken([]byte("test-secret"), token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, id)
	assert.Equal(t, "user@example.com", email)

	loaded, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "remote-tok", loaded.RemoteToken)
	assert.JSONEq(t, `{"id":7}`, string(loaded.User))

	require.NoError(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Logging out an already-deleted session stays silent.
	require.NoError(t, store.Delete(sess.ID))
}

func TestGetExpiredBehavesLikeDeleted(t *testing.T) {
	store := NewStore(newTestDB(t), "test-secret", -time.Minute)

	_, sess, err := store.Create("user@example.com", "remote-tok", json.RawMessage(`{}`))
	require.NoError(t, err)

	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLifecycleEventsReachSubscribers(t *testing.T) {
	store := NewStore(newTestDB(t), "test-secret", time.Hour)
	ch, cancel := store.Subscribe()
	defer cancel()

	_, sess, err := store.Create("user@example.com", "remote-tok", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.NoError(t, store.Delete(sess.ID))

	login := <-ch
	assert.Equal(t, EventLogin, login.Type)
	assert.Equal(t, sess.ID, login.SessionID)

	logout := <-ch
	assert.Equal(t, EventLogout, logout.Type)
	assert.Equal(t, "user@example.com", logout.Email)
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	id := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	signed, err := SignToken(secret, id, "user@example.com", expiresAt)
	require.NoError(t, err)

	gotID, gotEmail, err := ParseToken(secret, signed)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "user@example.com", gotEmail)
}

func TestParseTokenRejections(t *testing.T) {
	secret := []byte("test-secret")
	id := uuid.New()

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := SignToken(secret, id, "user@example.com", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, _, err = ParseToken([]byte("other-secret"), signed)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := SignToken(secret, id, "user@example.com", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, _, err = ParseToken(secret, signed)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := ParseToken(secret, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestClaimsSessionID(t *testing.T) {
	id := uuid.New()

	t.Run("valid sid claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": id.String()})
		got, err := ClaimsSessionID(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing sid claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@y.z"})
		_, err := ClaimsSessionID(token)
		assert.Error(t, err)
	})
}

func TestSubscribe(t *testing.T) {
	store := NewStore(nil, "secret", time.Hour)

	t.Run("subscribers receive published events", func(t *testing.T) {
		ch, cancel := store.Subscribe()
		defer cancel()

		ev := Event{Type: EventLogin, SessionID: uuid.New(), Email: "user@example.com"}
		store.publish(ev)

		select {
		case got := <-ch:
			assert.Equal(t, ev, got)
		case <-time.After(time.Second):
			t.Fatal("no event delivered")
		}
	})

	t.Run("cancel closes the channel and stops delivery", func(t *testing.T) {
		ch, cancel := store.Subscribe()
		cancel()

		_, open := <-ch
		assert.False(t, open)

		// Publishing after cancel must not panic on the closed channel.
		store.publish(Event{Type: EventLogout, SessionID: uuid.New()})
	})

	t.Run("double cancel is safe", func(t *testing.T) {
		_, cancel := store.Subscribe()
		cancel()
		cancel()
	})

	t.Run("slow subscriber loses events instead of blocking", func(t *testing.T) {
		ch, cancel := store.Subscribe()
		defer cancel()

		for i := 0; i < 20; i++ {
			store.publish(Event{Type: EventLogin, SessionID: uuid.New()})
		}
		assert.Equal(t, 8, len(ch))
	})
}
