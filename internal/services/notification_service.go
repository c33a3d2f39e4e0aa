package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMissingRecipient     = errors.New("notification recipient is required")
)

// Notifier is the sink lifecycle operations and the escalation monitor
// deliver messages through. Callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, recipient, message, kind string, relatedComplaintID *string) error
}

// NotificationChannel is the redis pub/sub channel a recipient's live
// notifications are published on.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}

type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
	Now   func() time.Time
}

// NewNotificationService persists notifications with db. rdb may be nil, in
// which case nothing is published.
func NewNotificationService(db *gorm.DB, rdb *redis.Client) *NotificationService {
	return &NotificationService{
		db:    db,
		redis: rdb,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *NotificationService) Notify(ctx context.Context, recipient, message, kind string, relatedComplaintID *string) error {
	_, err := s.Create(ctx, recipient, message, kind, relatedComplaintID)
	return err
}

func (s *NotificationService) Create(ctx context.Context, recipient, message, kind string, relatedComplaintID *string) (*models.Notification, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, ErrMissingRecipient
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	n := models.Notification{
		ID:                 uuid.New(),
		UserID:             recipient,
		Message:            message,
		Type:               kind,
		RelatedComplaintID: relatedComplaintID,
		Timestamp:          s.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	s.publish(ctx, &n)
	return &n, nil
}

func (s *NotificationService) publish(ctx context.Context, n *models.Notification) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, NotificationChannel(n.UserID), payload).Err(); err != nil {
		slog.Warn("notification publish failed", "user_id", n.UserID, "error", err)
	}
}

// ListForUser returns a recipient's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var list []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification read. Only its recipient or staff may do so.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID, actor Actor) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if n.UserID != actor.ID && !actor.IsStaff() {
		return ErrForbidden
	}
	if n.Read {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of userID and returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Announce sends "title: message" to every resident account and returns the
// number of recipients reached.
func (s *NotificationService) Announce(ctx context.Context, title, message string) (int, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return 0, ErrEmptyMessage
	}

	var recipients []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleUser).
		Distinct().
		Pluck("username", &recipients).Error; err != nil {
		return 0, fmt.Errorf("failed to load announcement recipients: %w", err)
	}

	text := title + ": " + message
	sent := 0
	for _, recipient := range recipients {
		if err := s.Notify(ctx, recipient, text, models.NotificationAnnouncement, nil); err != nil {
			slog.Error("announcement delivery failed", "user_id", recipient, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
