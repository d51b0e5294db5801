package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/verify360/trustcheck-gateway/internal/config"
	"github.com/verify360/trustcheck-gateway/internal/dto"
)

// AdminRequired gates the operator editors. Access is granted by the
// X-Admin-Token header or by a session whose email is on the configured
// admin list. Runs after SessionRequired.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		sess, err := GetSession(c)
		if err == nil && contains(adminEmails, sess.Email) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
