package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"gorm.io/gorm"
)

// Retention is how long system logs and read notifications are kept.
type Retention struct {
	LogDays          int
	NotificationDays int
}

// StartCleanup runs a daily goroutine that prunes rows past their retention.
func StartCleanup(db *gorm.DB, retention Retention, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, _, err := Cleanup(db, retention, time.Now()); err != nil {
					slog.Error("retention cleanup failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}

// Cleanup deletes system logs older than retention.LogDays and read
// notifications older than retention.NotificationDays. Unread notifications
// are never removed. A non-positive day count disables that half.
func Cleanup(db *gorm.DB, retention Retention, now time.Time) (logs, notifications int64, err error) {
	if retention.LogDays > 0 {
		cutoff := now.AddDate(0, 0, -retention.LogDays)
		result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		if result.Error != nil {
			return 0, 0, result.Error
		}
		logs = result.RowsAffected
	}

	if retention.NotificationDays > 0 {
		cutoff := now.AddDate(0, 0, -retention.NotificationDays)
		result := db.Where("read = ? AND timestamp < ?", true, cutoff).Delete(&models.Notification{})
		if result.Error != nil {
			return logs, 0, result.Error
		}
		notifications = result.RowsAffected
	}

	if logs > 0 || notifications > 0 {
		slog.Info("retention cleanup completed", "logs_deleted", logs, "notifications_deleted", notifications)
	}
	return logs, notifications, nil
}
