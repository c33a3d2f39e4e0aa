package dto

import "github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"

type CreateComplaintRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Photos      []string        `json:"photos"`
	Location    models.Location `json:"location"`
	IsEmergency bool            `json:"isEmergency"`
}

type UpdateStatusRequest struct {
	Status       string `json:"status"`
	AdminComment string `json:"adminComment"`
}

type CommentRequest struct {
	Message string `json:"message"`
}

type ComplaintResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Complaint    *models.Complaint `json:"complaint"`
	PriorityBand string            `json:"priorityBand"`
}

type ComplaintListResponse struct {
	Success    bool               `json:"success"`
	Count      int                `json:"count"`
	Complaints []models.Complaint `json:"complaints"`
}

type CommentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Comment *models.Comment `json:"comment"`
}
