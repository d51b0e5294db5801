// Package session owns the only mutable state the gateway keeps: the bearer
// token and user blob handed back by the verification backend at login.
// Instead of browser-local storage it is an injected store with change
// notification, so every open view converges without a reload.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/verify360/trustcheck-gateway/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidSession = errors.New("invalid or expired session")

type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event is published to subscribers whenever a session is created or
// destroyed.
type Event struct {
	Type      EventType
	SessionID uuid.UUID
	Email     string
}

type Store struct {
	db     *gorm.DB
	secret []byte
	expiry time.Duration

	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewStore(db *gorm.DB, secret string, expiry time.Duration) *Store {
	return &Store{
		db:     db,
		secret: []byte(secret),
		expiry: expiry,
		subs:   make(map[int]chan Event),
	}
}

// Create persists a new session for a successful backend login and returns
// the signed gateway token clients will present on every mutating call.
func (s *Store) Create(email, remoteToken string, user json.RawMessage) (string, *models.Session, error) {
	sess := models.Session{
		ID:          uuid.New(),
		Email:       email,
		RemoteToken: remoteToken,
		User:        datatypes.JSON(user),
		ExpiresAt:   time.Now().Add(s.expiry),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := SignToken(s.secret, sess.ID, email, sess.ExpiresAt)
	if err != nil {
		return "", nil, err
	}

	s.publish(Event{Type: EventLogin, SessionID: sess.ID, Email: email})
	return token, &sess, nil
}

// Get loads a live session row. Expired rows behave exactly like deleted
// ones; there is no refresh path.
func (s *Store) Get(id uuid.UUID) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		return nil, ErrInvalidSession
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

// Delete logs a session out. Deleting an already-gone session is not an
// error; logout must always succeed from the caller's point of view.
func (s *Store) Delete(id uuid.UUID) error {
	var sess models.Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		return nil
	}
	if err := s.db.Delete(&sess).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.publish(Event{Type: EventLogout, SessionID: id, Email: sess.Email})
	return nil
}

// Subscribe registers a listener for session changes. The returned cancel
// function must be called to release the channel.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.next
	s.next++
	ch := make(chan Event, 8)
	s.subs[idx] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[idx]; ok {
			delete(s.subs, idx)
			close(c)
		}
	}
	return ch, cancel
}

// publish never blocks: a subscriber that stopped draining loses events
// rather than stalling logins.
func (s *Store) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SignToken mints the HS256 gateway token referencing a session row.
func SignToken(secret []byte, id uuid.UUID, email string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid":   id.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a gateway token and extracts the session ID and email.
func ParseToken(secret []byte, tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidSession
	}
	sid, _ := claims["sid"].(string)
	email, _ := claims["email"].(string)

	id, err := uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, "", ErrInvalidSession
	}
	return id, email, nil
}

// ClaimsSessionID pulls the sid claim out of a token already validated by
// the JWT middleware.
func ClaimsSessionID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sid claim")
	}
	return uuid.Parse(sid)
}
