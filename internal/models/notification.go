package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationNewComplaint = "new_complaint"
	NotificationEndorsement  = "endorsement"
	NotificationComment      = "comment"
	NotificationStatusUpdate = "status_update"
	NotificationEscalation   = "escalation"
	NotificationAnnouncement = "announcement"
)

// Notification is an inbox entry for one recipient.
type Notification struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"size:255;not null;index" json:"userId"`
	Message            string    `gorm:"type:text;not null" json:"message"`
	Type               string    `gorm:"size:50;not null" json:"type"`
	RelatedComplaintID *string   `gorm:"size:64;index" json:"relatedComplaintId"`
	Read               bool      `gorm:"not null;default:false" json:"read"`
	Timestamp          time.Time `gorm:"not null;index" json:"timestamp"`
}
