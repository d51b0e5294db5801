package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/session"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

// AuthService proxies credentials to the verification backend and, on
// success, opens a local session wrapping the backend bearer token. No
// password is ever persisted here.
type AuthService struct {
	client   *verify.Client
	sessions *session.Store
}

func NewAuthService(client *verify.Client, sessions *session.Store) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.SessionResponse, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(email, res)
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*dto.SessionResponse, error) {
	res, err := s.client.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(email, res)
}

// Logout destroys the session row; every later authenticated call with the
// old token resolves to nothing and is turned away before the network.
func (s *AuthService) Logout(id uuid.UUID) error {
	return s.sessions.Delete(id)
}

func (s *AuthService) open(email string, res *verify.AuthResult) (*dto.SessionResponse, error) {
	token, sess, err := s.sessions.Create(email, res.AccessToken, res.User)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return &dto.SessionResponse{
		Token: token,
		Email: sess.Email,
		User:  res.User,
	}, nil
}
