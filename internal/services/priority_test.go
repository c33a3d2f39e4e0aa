package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPriority(t *testing.T) {
	assert.Equal(t, 100, InitialPriority(true))
	assert.Equal(t, 10, InitialPriority(false))
}

func TestApplyEndorsement(t *testing.T) {
	c := &models.Complaint{UserID: "user1@gmail.com", PriorityScore: InitialPriority(false)}

	require.NoError(t, ApplyEndorsement(c, "user2@gmail.com"))
	require.NoError(t, ApplyEndorsement(c, "user3@gmail.com"))
	require.NoError(t, ApplyEndorsement(c, "user4@gmail.com"))
	assert.Equal(t, 25, c.PriorityScore)
	assert.Equal(t, 3, c.EndorsementCount)

	assert.ErrorIs(t, ApplyEndorsement(c, "user2@gmail.com"), ErrAlreadyEndorsed)
	assert.ErrorIs(t, ApplyEndorsement(c, "user1@gmail.com"), ErrSelfEndorsement)
	assert.Equal(t, 25, c.PriorityScore)
	assert.Len(t, c.Endorsements, 3)
}

func TestPriorityBand(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, storage.BandLow},
		{29, storage.BandLow},
		{30, storage.BandMedium},
		{70, storage.BandMedium},
		{71, storage.BandHigh},
		{100, storage.BandHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PriorityBand(tc.score), "score %d", tc.score)
	}
}
