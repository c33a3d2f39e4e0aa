package services

import (
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
)

const (
	EmergencyPriority    = 100
	StandardPriority     = 10
	EndorsementIncrement = 5

	highPriorityAbove = 70
	lowPriorityBelow  = 30
)

// InitialPriority is the score a complaint is created with.
func InitialPriority(isEmergency bool) int {
	if isEmergency {
		return EmergencyPriority
	}
	return StandardPriority
}

// ApplyEndorsement records endorserID on c and raises its score. The
// complaint is left untouched when the endorsement is rejected.
func ApplyEndorsement(c *models.Complaint, endorserID string) error {
	if endorserID == c.UserID {
		return ErrSelfEndorsement
	}
	if c.HasEndorsement(endorserID) {
		return ErrAlreadyEndorsed
	}
	c.Endorsements = append(c.Endorsements, endorserID)
	c.EndorsementCount = len(c.Endorsements)
	c.PriorityScore += EndorsementIncrement
	return nil
}

// PriorityBand buckets a score for display and filtering.
func PriorityBand(score int) string {
	switch {
	case score > highPriorityAbove:
		return storage.BandHigh
	case score < lowPriorityBelow:
		return storage.BandLow
	default:
		return storage.BandMedium
	}
}
