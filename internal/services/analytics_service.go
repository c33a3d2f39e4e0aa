package services

import (
	"context"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
)

const priorityQueueSize = 10

type Analytics struct {
	Total              int                `json:"total"`
	Open               int                `json:"open"`
	Resolved           int                `json:"resolved"`
	Escalated          int                `json:"escalated"`
	Emergency          int                `json:"emergency"`
	ResolutionRate     float64            `json:"resolutionRate"`
	AvgResolutionHours float64            `json:"avgResolutionHours"`
	ByCategory         map[string]int     `json:"byCategory"`
	ByStatus           map[string]int     `json:"byStatus"`
	ByPriorityBand     map[string]int     `json:"byPriorityBand"`
	MonthlyTrend       map[string]int     `json:"monthlyTrend"`
	PriorityQueue      []models.Complaint `json:"priorityQueue"`
}

type AnalyticsService struct {
	store storage.ComplaintStore
}

func NewAnalyticsService(store storage.ComplaintStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary aggregates every complaint. All categories and statuses appear in
// the breakdowns, including those with a zero count. The priority queue holds
// the highest-scored open complaints.
func (s *AnalyticsService) Summary(ctx context.Context) (*Analytics, error) {
	complaints, err := s.store.FindAll(ctx, storage.ComplaintFilter{Sort: storage.SortPriority})
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		Total:          len(complaints),
		ByCategory:     make(map[string]int, len(models.Categories)),
		ByStatus:       make(map[string]int, len(models.Statuses)),
		ByPriorityBand: map[string]int{storage.BandHigh: 0, storage.BandMedium: 0, storage.BandLow: 0},
		MonthlyTrend:   make(map[string]int),
		PriorityQueue:  []models.Complaint{},
	}
	for _, category := range models.Categories {
		a.ByCategory[string(category)] = 0
	}
	for _, status := range models.Statuses {
		a.ByStatus[string(status)] = 0
	}

	var resolutionHours float64
	resolvedWithHistory := 0
	for _, c := range complaints {
		a.ByCategory[string(c.Type)]++
		a.ByStatus[string(c.Status)]++
		a.ByPriorityBand[PriorityBand(c.PriorityScore)]++
		a.MonthlyTrend[c.CreatedAt.UTC().Format("2006-01")]++

		if c.IsEscalated {
			a.Escalated++
		}
		if c.IsEmergency {
			a.Emergency++
		}
		if !c.Status.Closed() {
			a.Open++
			if len(a.PriorityQueue) < priorityQueueSize {
				a.PriorityQueue = append(a.PriorityQueue, c)
			}
		}
		if c.Status == models.StatusResolved {
			a.Resolved++
			if at, ok := resolvedAt(&c); ok {
				resolutionHours += at.Sub(c.CreatedAt).Hours()
				resolvedWithHistory++
			}
		}
	}

	if a.Total > 0 {
		a.ResolutionRate = round2(float64(a.Resolved) / float64(a.Total) * 100)
	}
	if resolvedWithHistory > 0 {
		a.AvgResolutionHours = round2(resolutionHours / float64(resolvedWithHistory))
	}
	return a, nil
}

// resolvedAt returns the time of the last transition to Resolved.
func resolvedAt(c *models.Complaint) (t time.Time, ok bool) {
	for i := len(c.StatusHistory) - 1; i >= 0; i-- {
		if c.StatusHistory[i].Status == models.StatusResolved {
			return c.StatusHistory[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
