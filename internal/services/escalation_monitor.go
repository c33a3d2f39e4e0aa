package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/getsentry/sentry-go"
)

const (
	defaultEscalationThreshold = 72 * time.Hour
	defaultEscalationInterval  = 5 * time.Minute
)

// EscalationMonitor flags open complaints older than Threshold and tells the
// reporter and the supreme authority about it.
type EscalationMonitor struct {
	Store     storage.ComplaintStore
	Notifier  Notifier
	Threshold time.Duration
	Interval  time.Duration
	Now       func() time.Time

	cfg *config.Config
}

func NewEscalationMonitor(store storage.ComplaintStore, notifier Notifier, cfg *config.Config) *EscalationMonitor {
	m := &EscalationMonitor{
		Store:     store,
		Notifier:  notifier,
		Threshold: defaultEscalationThreshold,
		Interval:  defaultEscalationInterval,
		Now: func() time.Time {
			return time.Now().UTC()
		},
		cfg: cfg,
	}
	if cfg != nil {
		if cfg.EscalationThreshold > 0 {
			m.Threshold = cfg.EscalationThreshold
		}
		if cfg.EscalationInterval > 0 {
			m.Interval = cfg.EscalationInterval
		}
	}
	return m
}

// Start sweeps immediately and then once per Interval until ctx is done.
func (m *EscalationMonitor) Start(ctx context.Context) {
	slog.Info("escalation monitor started", "threshold", m.Threshold.String(), "interval", m.Interval.String())
	for {
		if n, err := m.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("escalation sweep failed", "action", "escalation_sweep", "error", err)
			sentry.CaptureException(err)
		} else if n > 0 {
			slog.Info("escalation sweep completed", "escalated", n)
		}
		if err := sleepWithContext(ctx, m.Interval); err != nil {
			slog.Info("escalation monitor stopped")
			return
		}
	}
}

// RunOnce performs one sweep and returns how many complaints it escalated.
// A failure on one complaint does not stop the sweep; all failures are
// returned joined.
func (m *EscalationMonitor) RunOnce(ctx context.Context) (int, error) {
	if m == nil || m.Store == nil {
		return 0, fmt.Errorf("escalation monitor is not configured")
	}

	notEscalated := false
	candidates, err := m.Store.FindAll(ctx, storage.ComplaintFilter{
		Escalated: &notEscalated,
		OpenOnly:  true,
	})
	if err != nil {
		return 0, err
	}

	now := m.now()
	var errs []error
	escalated := 0
	for _, c := range candidates {
		if c.IsEscalated || c.Status.Closed() || now.Sub(c.CreatedAt) <= m.Threshold {
			continue
		}

		ok, err := m.Store.MarkEscalated(ctx, c.ComplaintID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("complaint %s: %w", c.ComplaintID, err))
			continue
		}
		if !ok {
			continue
		}
		escalated++
		slog.Info("complaint escalated", "complaint_id", c.ComplaintID, "user_id", c.UserID)

		deliver(ctx, m.Notifier, c.UserID,
			fmt.Sprintf("Your complaint %s has been escalated to Supreme Authority", c.ComplaintID),
			models.NotificationEscalation, c.ComplaintID)
		deliver(ctx, m.Notifier, m.cfg.Recipient(config.RoleSupreme),
			fmt.Sprintf("Complaint %s has been auto-escalated due to delay", c.ComplaintID),
			models.NotificationEscalation, c.ComplaintID)
	}
	return escalated, errors.Join(errs...)
}

func (m *EscalationMonitor) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
