package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrSelfEndorsement   = errors.New("cannot endorse your own complaint")
	ErrAlreadyEndorsed   = errors.New("already endorsed")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrMissingComment    = errors.New("admin comment is required")
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidCategory   = errors.New("unknown complaint category")
	ErrInvalidStatus     = errors.New("unknown complaint status")
)

type CreateComplaintInput struct {
	ReporterID   string
	ReporterName string
	Category     models.Category
	Description  string
	Photos       []string
	Location     models.Location
	IsEmergency  bool
}

// ComplaintService is the only writer of complaints. Notification failures
// are logged and never fail the operation that triggered them.
type ComplaintService struct {
	store    storage.ComplaintStore
	notifier Notifier
	cfg      *config.Config
	Now      func() time.Time
}

func NewComplaintService(store storage.ComplaintStore, notifier Notifier, cfg *config.Config) *ComplaintService {
	return &ComplaintService{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *ComplaintService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *ComplaintService) Create(ctx context.Context, in CreateComplaintInput) (*models.Complaint, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	now := s.now()
	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}
	c := &models.Complaint{
		ComplaintID:   uuid.NewString(),
		UserID:        in.ReporterID,
		UserName:      in.ReporterName,
		Type:          in.Category,
		Description:   in.Description,
		Photos:        photos,
		Location:      in.Location,
		Status:        models.StatusNoted,
		StatusHistory: []models.StatusEntry{{Status: models.StatusNoted, Timestamp: now}},
		Endorsements:  []string{},
		PriorityScore: InitialPriority(in.IsEmergency),
		IsEmergency:   in.IsEmergency,
		Comments:      []models.Comment{},
		AdminComments: []models.AdminComment{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}

	s.notify(ctx, s.cfg.Recipient(config.RoleAdmin),
		fmt.Sprintf("New complaint reported: %s (%s)", c.Type, c.ComplaintID),
		models.NotificationNewComplaint, c.ComplaintID)

	slog.Info("complaint created", "complaint_id", c.ComplaintID, "user_id", c.UserID, "emergency", c.IsEmergency)
	return c, nil
}

func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return c, nil
}

func (s *ComplaintService) List(ctx context.Context, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	return s.store.FindAll(ctx, filter)
}

func (s *ComplaintService) Endorse(ctx context.Context, id string, endorser Actor) (*models.Complaint, error) {
	c, err := s.store.Mutate(ctx, id, func(c *models.Complaint) error {
		if err := ApplyEndorsement(c, endorser.ID); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.notify(ctx, c.UserID,
		fmt.Sprintf("%s endorsed your complaint: %s", displayName(endorser), c.Type),
		models.NotificationEndorsement, c.ComplaintID)
	return c, nil
}

func (s *ComplaintService) AddComment(ctx context.Context, id string, author Actor, message string) (*models.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	comment := models.Comment{
		UserID:   author.ID,
		UserName: author.Name,
		Message:  message,
	}
	c, err := s.store.Mutate(ctx, id, func(c *models.Complaint) error {
		now := s.now()
		comment.Timestamp = now
		c.Comments = append(c.Comments, comment)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	if author.ID != c.UserID {
		s.notify(ctx, c.UserID,
			fmt.Sprintf("%s commented on your complaint", displayName(author)),
			models.NotificationComment, c.ComplaintID)
	}
	return &comment, nil
}

// UpdateStatus sets any of the known statuses. Transitions are not
// restricted; every change is recorded in the history.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status models.Status, admin Actor, adminComment string) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	adminComment = strings.TrimSpace(adminComment)
	if adminComment == "" {
		return nil, ErrMissingComment
	}

	c, err := s.store.Mutate(ctx, id, func(c *models.Complaint) error {
		now := s.now()
		adminID := admin.ID
		c.Status = status
		c.StatusHistory = append(c.StatusHistory, models.StatusEntry{Status: status, Timestamp: now})
		c.AdminComments = append(c.AdminComments, models.AdminComment{Comment: adminComment, Timestamp: now})
		c.AdminID = &adminID
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.notify(ctx, c.UserID,
		fmt.Sprintf("Your complaint %s status changed to %s", c.ComplaintID, c.Status),
		models.NotificationStatusUpdate, c.ComplaintID)

	slog.Info("complaint status updated", "complaint_id", c.ComplaintID, "user_id", admin.ID, "status", string(c.Status))
	return c, nil
}

// Delete removes a complaint. Only the reporter may delete, and only while
// the complaint is still Noted. The check and the delete are one statement;
// the follow-up lookup only picks the error.
func (s *ComplaintService) Delete(ctx context.Context, id string, requesterID string) error {
	deleted, err := s.store.Delete(ctx, id, storage.DeleteCondition{
		UserID: requesterID,
		Status: models.StatusNoted,
	})
	if err != nil {
		return err
	}
	if !deleted {
		if _, err := s.store.FindByID(ctx, id); err != nil {
			return translateStoreErr(err)
		}
		return ErrForbidden
	}
	slog.Info("complaint deleted", "complaint_id", id, "user_id", requesterID)
	return nil
}

func (s *ComplaintService) notify(ctx context.Context, recipient, message, kind, complaintID string) {
	deliver(ctx, s.notifier, recipient, message, kind, complaintID)
}

// deliver sends one best-effort notification.
func deliver(ctx context.Context, notifier Notifier, recipient, message, kind, complaintID string) {
	if notifier == nil {
		return
	}
	if recipient == "" {
		slog.Warn("notification skipped: no recipient configured", "action", kind, "complaint_id", complaintID)
		return
	}
	related := complaintID
	if err := notifier.Notify(ctx, recipient, message, kind, &related); err != nil {
		slog.Error("notification delivery failed",
			"action", kind,
			"complaint_id", complaintID,
			"user_id", recipient,
			"error", err,
		)
	}
}

func translateStoreErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrComplaintNotFound
	}
	return err
}

func displayName(a Actor) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
