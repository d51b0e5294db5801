package logging

import (
	"log/slog"
	"time"

	"github.com/verify360/trustcheck-gateway/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than 30
// days and expired session rows.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -30)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected)
				}

				expired := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
				if expired.Error != nil {
					slog.Error("session cleanup failed", "error", expired.Error)
				} else if expired.RowsAffected > 0 {
					slog.Info("session cleanup completed", "deleted", expired.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
