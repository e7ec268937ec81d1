package logging

import (
	"log/slog"
	"time"

	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup prunes system_logs records older than the retention
// window once a day until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("old system logs pruned", "deleted", result.RowsAffected, "retention", retention.String())
				}
			case <-done:
				return
			}
		}
	}()
}
