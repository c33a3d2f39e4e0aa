package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSummaryOverSampleData(t *testing.T) {
	db := setupServiceTestDB(t)
	store := storage.NewGormComplaintStore(db)
	ctx := context.Background()

	_, err := NewSeeder(db, store).SeedComplaints(ctx)
	require.NoError(t, err)

	a, err := NewAnalyticsService(store).Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 2, a.Open)
	assert.Equal(t, 1, a.Resolved)
	assert.Equal(t, 1, a.Emergency)
	assert.Equal(t, 0, a.Escalated)
	assert.Equal(t, 33.33, a.ResolutionRate)
	assert.Equal(t, 98.17, a.AvgResolutionHours)

	assert.Len(t, a.ByCategory, len(models.Categories))
	assert.Equal(t, 1, a.ByCategory[string(models.CategoryTankLeakage)])
	assert.Equal(t, 0, a.ByCategory[string(models.CategoryBlockedMeters)])
	assert.Len(t, a.ByStatus, len(models.Statuses))
	assert.Equal(t, 1, a.ByStatus[string(models.StatusNoted)])

	assert.Equal(t, map[string]int{storage.BandHigh: 1, storage.BandMedium: 0, storage.BandLow: 2}, a.ByPriorityBand)
	assert.Equal(t, map[string]int{"2025-10": 1, "2025-11": 2}, a.MonthlyTrend)

	require.Len(t, a.PriorityQueue, 2)
	assert.Equal(t, "COMP003", a.PriorityQueue[0].ComplaintID)
	assert.Equal(t, "COMP001", a.PriorityQueue[1].ComplaintID)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	store := storage.NewGormComplaintStore(setupServiceTestDB(t))

	a, err := NewAnalyticsService(store).Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, a.Total)
	assert.Zero(t, a.ResolutionRate)
	assert.Empty(t, a.PriorityQueue)
	assert.NotNil(t, a.PriorityQueue)
}
