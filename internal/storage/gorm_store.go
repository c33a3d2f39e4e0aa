package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var closedStatuses = []models.Status{models.StatusResolved, models.StatusRejected}

type GormComplaintStore struct {
	db *gorm.DB
}

func NewGormComplaintStore(db *gorm.DB) *GormComplaintStore {
	return &GormComplaintStore{db: db}
}

func (s *GormComplaintStore) Insert(ctx context.Context, c *models.Complaint) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

func (s *GormComplaintStore) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.db.WithContext(ctx).Where("complaint_id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	return &c, nil
}

func (s *GormComplaintStore) FindAll(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	query := s.db.WithContext(ctx).Model(&models.Complaint{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("type = ?", filter.Category)
	}
	if filter.Escalated != nil {
		query = query.Where("is_escalated = ?", *filter.Escalated)
	}
	if filter.OpenOnly {
		query = query.Where("status NOT IN ?", closedStatuses)
	}
	switch filter.Band {
	case BandHigh:
		query = query.Where("priority_score > ?", 70)
	case BandMedium:
		query = query.Where("priority_score BETWEEN ? AND ?", 30, 70)
	case BandLow:
		query = query.Where("priority_score < ?", 30)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(type) LIKE ? OR LOWER(description) LIKE ? OR LOWER(complaint_id) LIKE ? OR LOWER(location_area) LIKE ?",
			like, like, like, like,
		)
	}

	switch filter.Sort {
	case SortOldest:
		query = query.Order("created_at ASC")
	case SortPriority:
		query = query.Order("priority_score DESC").Order("created_at DESC")
	case SortEndorsed:
		query = query.Order("endorsement_count DESC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

func (s *GormComplaintStore) Update(ctx context.Context, c *models.Complaint) error {
	result := s.db.WithContext(ctx).Model(c).Select("*").Updates(c)
	if result.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Mutate loads the complaint under a row lock, applies fn and writes the
// result back in the same transaction.
func (s *GormComplaintStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error) {
	var out models.Complaint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("complaint_id = ?", id).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load complaint: %w", err)
		}

		if err := fn(&c); err != nil {
			return err
		}

		if err := tx.Model(&c).Select("*").Updates(&c).Error; err != nil {
			return fmt.Errorf("failed to save complaint: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkEscalated flips is_escalated in a single conditional UPDATE. It
// returns false when the complaint is missing, already escalated or closed.
func (s *GormComplaintStore) MarkEscalated(ctx context.Context, id string, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("complaint_id = ? AND is_escalated = ? AND status NOT IN ?", id, false, closedStatuses).
		Updates(map[string]interface{}{
			"is_escalated": true,
			"escalated_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to escalate complaint: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the complaint in a single statement that also checks cond.
// It returns false when no row matched.
func (s *GormComplaintStore) Delete(ctx context.Context, id string, cond DeleteCondition) (bool, error) {
	query := s.db.WithContext(ctx).Where("complaint_id = ?", id)
	if cond.UserID != "" {
		query = query.Where("user_id = ?", cond.UserID)
	}
	if cond.Status != "" {
		query = query.Where("status = ?", cond.Status)
	}
	result := query.Delete(&models.Complaint{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete complaint: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
