package dto

import "github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"

type CreateNotificationRequest struct {
	UserID             string  `json:"userId"`
	Message            string  `json:"message"`
	Type               string  `json:"type"`
	RelatedComplaintID *string `json:"relatedComplaintId"`
}

type NotificationResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	Notification *models.Notification `json:"notification"`
}

type NotificationListResponse struct {
	Success       bool                  `json:"success"`
	Unread        int64                 `json:"unread"`
	Notifications []models.Notification `json:"notifications"`
}

type AnnouncementRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type AnnouncementResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Recipients int    `json:"recipients"`
}

type MarkAllReadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type EscalationRunResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Escalated int    `json:"escalated"`
}
