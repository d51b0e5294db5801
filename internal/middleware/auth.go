package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/verify360/trustcheck-gateway/internal/config"
	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/models"
	"github.com/verify360/trustcheck-gateway/internal/session"
)

// JWTProtected verifies the gateway session token. A missing token on a
// mutating route is the one error prevented before any network call: the
// response carries the login redirect instead of a bare 401.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthRedirect{
				Error:    true,
				Message:  "Unauthorized: invalid or expired token",
				Redirect: "/login",
				Next:     c.OriginalURL(),
			})
		},
	})
}

// SessionRequired resolves the validated token's sid claim to a live session
// row and stores it in locals. A deleted or expired row behaves exactly like
// a missing token.
func SessionRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c)
		}

		sid, err := session.ClaimsSessionID(token)
		if err != nil {
			return unauthorized(c)
		}

		sess, err := store.Get(sid)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals("session", sess)
		return c.Next()
	}
}

// GetSession extracts the session loaded by SessionRequired.
func GetSession(c *fiber.Ctx) (*models.Session, error) {
	sess, ok := c.Locals("session").(*models.Session)
	if !ok || sess == nil {
		return nil, errors.New("no session in context")
	}
	return sess, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthRedirect{
		Error:    true,
		Message:  "Unauthorized",
		Redirect: "/login",
		Next:     c.OriginalURL(),
	})
}
