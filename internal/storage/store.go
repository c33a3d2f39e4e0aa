package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
)

var ErrNotFound = errors.New("complaint not found")

// Sort orders accepted by ComplaintFilter.
const (
	SortLatest   = "latest"
	SortOldest   = "oldest"
	SortPriority = "priority"
	SortEndorsed = "endorsed"
)

// Priority bands used for filtering. They mirror the presentation thresholds
// and are never stored on the record.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// ComplaintFilter narrows FindAll. Zero values mean "no constraint".
type ComplaintFilter struct {
	UserID    string
	Status    models.Status
	Category  models.Category
	Escalated *bool
	OpenOnly  bool
	Band      string
	Search    string
	Sort      string
	Limit     int
}

// MutateFunc edits a complaint in place. Returning an error aborts the
// mutation and nothing is written.
type MutateFunc func(c *models.Complaint) error

// DeleteCondition restricts Delete to a reporter and a current status. Zero
// fields are not checked.
type DeleteCondition struct {
	UserID string
	Status models.Status
}

// ComplaintStore persists complaints. Every implementation must apply Mutate,
// MarkEscalated and a conditional Delete atomically per record.
//
// Update overwrites the whole record without a lock. It exists for callers
// that own the record outright, such as imports and tests; request paths go
// through Mutate.
type ComplaintStore interface {
	Insert(ctx context.Context, c *models.Complaint) error
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	FindAll(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error)
	Update(ctx context.Context, c *models.Complaint) error
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error)
	MarkEscalated(ctx context.Context, id string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string, cond DeleteCondition) (bool, error)
}
