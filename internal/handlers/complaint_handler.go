package handlers

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

const maxListLimit = 500

type ComplaintHandler struct {
	complaints *services.ComplaintService
}

func NewComplaintHandler(complaints *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

func complaintResponse(c *fiber.Ctx, status int, message string, complaint *models.Complaint) error {
	return c.Status(status).JSON(dto.ComplaintResponse{
		Success:      true,
		Message:      message,
		Complaint:    complaint,
		PriorityBand: services.PriorityBand(complaint.PriorityScore),
	})
}

func listResponse(c *fiber.Ctx, complaints []models.Complaint) error {
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return c.JSON(dto.ComplaintListResponse{
		Success:    true,
		Count:      len(complaints),
		Complaints: complaints,
	})
}

func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Type) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "type is required")
	}

	complaint, err := h.complaints.Create(c.UserContext(), services.CreateComplaintInput{
		ReporterID:   actor.ID,
		ReporterName: actor.Name,
		Category:     models.Category(strings.TrimSpace(req.Type)),
		Description:  req.Description,
		Photos:       req.Photos,
		Location:     req.Location,
		IsEmergency:  req.IsEmergency,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return complaintResponse(c, fiber.StatusCreated, "Complaint submitted successfully", complaint)
}

// List supports ?search=&status=&category=&priority=&escalated=&sort=&limit=.
func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	filter, msg := parseFilter(c)
	if msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	complaints, err := h.complaints.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, complaints)
}

func (h *ComplaintHandler) ListByUser(c *fiber.Ctx) error {
	filter, msg := parseFilter(c)
	if msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	filter.UserID = c.Params("userId")

	complaints, err := h.complaints.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, complaints)
}

func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.complaints.Get(c.UserContext(), c.Params("complaintId"))
	if err != nil {
		return serviceError(c, err)
	}
	return complaintResponse(c, fiber.StatusOK, "", complaint)
}

func (h *ComplaintHandler) Endorse(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	complaint, err := h.complaints.Endorse(c.UserContext(), c.Params("complaintId"), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return complaintResponse(c, fiber.StatusOK, "Complaint endorsed successfully", complaint)
}

func (h *ComplaintHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, services.ErrInvalidStatus.Error())
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), c.Params("complaintId"), status, actor, req.AdminComment)
	if err != nil {
		return serviceError(c, err)
	}
	return complaintResponse(c, fiber.StatusOK, "Status updated successfully", complaint)
}

func (h *ComplaintHandler) Delete(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.complaints.Delete(c.UserContext(), c.Params("complaintId"), actor.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Complaint deleted successfully"})
}

func (h *ComplaintHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	comment, err := h.complaints.AddComment(c.UserContext(), c.Params("complaintId"), actor, req.Message)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentResponse{
		Success: true,
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// parseFilter reads list query parameters. A non-empty message means the
// request is invalid.
func parseFilter(c *fiber.Ctx) (storage.ComplaintFilter, string) {
	var filter storage.ComplaintFilter

	filter.Search = strings.TrimSpace(c.Query("search"))

	if raw := c.Query("status"); raw != "" && raw != "all" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			return filter, "invalid status: " + raw
		}
		filter.Status = status
	}

	if raw := c.Query("category"); raw != "" && raw != "all" {
		category := models.Category(raw)
		if !category.Valid() {
			return filter, "invalid category: " + raw
		}
		filter.Category = category
	}

	switch band := c.Query("priority"); band {
	case "", "all":
	case storage.BandHigh, storage.BandMedium, storage.BandLow:
		filter.Band = band
	default:
		return filter, "invalid priority: " + band
	}

	if raw := c.Query("escalated"); raw != "" {
		escalated, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, "invalid escalated flag: " + raw
		}
		filter.Escalated = &escalated
	}

	switch sort := c.Query("sort"); sort {
	case "", storage.SortLatest, storage.SortOldest, storage.SortPriority, storage.SortEndorsed:
		filter.Sort = sort
	default:
		return filter, "invalid sort: " + sort
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, "invalid limit: " + raw
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		filter.Limit = limit
	}

	return filter, ""
}
