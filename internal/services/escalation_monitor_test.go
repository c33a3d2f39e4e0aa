package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupEscalationMonitor(t *testing.T, notifier *mockNotifier) (*EscalationMonitor, *storage.GormComplaintStore, *testClock) {
	t.Helper()
	store := storage.NewGormComplaintStore(setupServiceTestDB(t))
	clock := newTestClock(testEpoch)
	monitor := NewEscalationMonitor(store, notifier, testConfig())
	monitor.Now = clock.Now
	return monitor, store, clock
}

func TestEscalationSweepEscalatesOnce(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	monitor, store, clock := setupEscalationMonitor(t, notifier)
	ctx := context.Background()

	newComplaintFixture(t, store, "stale", "user1@gmail.com", models.StatusWorking, testEpoch.Add(-73*time.Hour))

	n, err := monitor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.FindByID(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, got.IsEscalated)
	require.NotNil(t, got.EscalatedAt)
	assert.True(t, got.EscalatedAt.Equal(testEpoch))

	calls := notifier.notificationsOf(models.NotificationEscalation)
	require.Len(t, calls, 2)
	assert.Equal(t, "user1@gmail.com", calls[0].Arguments.String(1))
	assert.Equal(t, "Your complaint stale has been escalated to Supreme Authority", calls[0].Arguments.String(2))
	assert.Equal(t, "supreme@perundurai", calls[1].Arguments.String(1))
	assert.Equal(t, "Complaint stale has been auto-escalated due to delay", calls[1].Arguments.String(2))

	clock.Advance(10 * time.Minute)
	n, err = monitor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, notifier.notificationsOf(models.NotificationEscalation), 2, "second sweep sends nothing")

	again, err := store.FindByID(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, again.EscalatedAt.Equal(testEpoch), "escalatedAt is set only once")
}

func TestEscalationSkipsClosedAndYoungComplaints(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	monitor, store, clock := setupEscalationMonitor(t, notifier)
	ctx := context.Background()

	newComplaintFixture(t, store, "resolved", "user1@gmail.com", models.StatusResolved, testEpoch.Add(-200*time.Hour))
	newComplaintFixture(t, store, "rejected", "user1@gmail.com", models.StatusRejected, testEpoch.Add(-200*time.Hour))
	newComplaintFixture(t, store, "exactly", "user2@gmail.com", models.StatusNoted, testEpoch.Add(-72*time.Hour))
	newComplaintFixture(t, store, "young", "user2@gmail.com", models.StatusPending, testEpoch.Add(-time.Hour))

	for i := 0; i < 3; i++ {
		n, err := monitor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}

	for _, id := range []string{"resolved", "rejected", "exactly", "young"} {
		c, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, c.IsEscalated, id)
		assert.Nil(t, c.EscalatedAt, id)
	}
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Once the threshold is strictly exceeded the open one escalates.
	clock.Advance(time.Second)
	n, err := monitor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEscalationNotificationFailureIsIsolated(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, "user1@gmail.com", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("inbox unavailable"))
	notifier.On("Notify", mock.Anything, "supreme@perundurai", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	monitor, store, _ := setupEscalationMonitor(t, notifier)
	ctx := context.Background()

	newComplaintFixture(t, store, "stale", "user1@gmail.com", models.StatusOnHold, testEpoch.Add(-100*time.Hour))

	n, err := monitor.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	notifier.AssertCalled(t, "Notify", mock.Anything, "supreme@perundurai", mock.Anything, models.NotificationEscalation, mock.Anything)

	got, err := store.FindByID(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, got.IsEscalated, "flag stays committed when a notification fails")
}

func TestEscalationUsesConfiguredRecipient(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store := storage.NewGormComplaintStore(setupServiceTestDB(t))
	cfg := testConfig()
	cfg.Recipients["supreme"] = "commissioner@city.gov"
	cfg.EscalationThreshold = 24 * time.Hour

	monitor := NewEscalationMonitor(store, notifier, cfg)
	monitor.Now = func() time.Time { return testEpoch }
	newComplaintFixture(t, store, "c-1", "user1@gmail.com", models.StatusNoted, testEpoch.Add(-25*time.Hour))

	n, err := monitor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	notifier.AssertCalled(t, "Notify", mock.Anything, "commissioner@city.gov", mock.Anything, models.NotificationEscalation, mock.Anything)
}

func TestEscalationStartRunsImmediatelyAndStops(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	monitor, store, _ := setupEscalationMonitor(t, notifier)
	monitor.Interval = time.Hour

	newComplaintFixture(t, store, "stale", "user1@gmail.com", models.StatusWorking, testEpoch.Add(-80*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitor.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		c, err := store.FindByID(context.Background(), "stale")
		return err == nil && c.IsEscalated
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}

func TestEscalationMonitorNotConfigured(t *testing.T) {
	var monitor *EscalationMonitor
	_, err := monitor.RunOnce(context.Background())
	assert.Error(t, err)
}
