package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testEpoch = time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Complaint{}, &models.User{}, &models.Notification{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		JWTAccessExpiry:     time.Hour,
		EscalationThreshold: 72 * time.Hour,
		EscalationInterval:  time.Minute,
		Recipients: map[string]string{
			config.RoleAdmin:   "admin@perundurai",
			config.RoleSupreme: "supreme@perundurai",
		},
	}
}

// testClock is a settable clock shared by services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, recipient, message, kind string, relatedComplaintID *string) error {
	args := m.Called(ctx, recipient, message, kind, relatedComplaintID)
	return args.Error(0)
}

// notificationsOf returns the recorded Notify calls of the given kind.
func (m *mockNotifier) notificationsOf(kind string) []mock.Call {
	var out []mock.Call
	for _, call := range m.Calls {
		if call.Method == "Notify" && call.Arguments.String(3) == kind {
			out = append(out, call)
		}
	}
	return out
}

func newComplaintFixture(t *testing.T, store storage.ComplaintStore, id, reporter string, status models.Status, createdAt time.Time) *models.Complaint {
	t.Helper()
	c := &models.Complaint{
		ComplaintID:   id,
		UserID:        reporter,
		UserName:      "Resident",
		Type:          models.CategoryPumpFailure,
		Description:   "pump not running",
		Photos:        []string{},
		Status:        status,
		StatusHistory: []models.StatusEntry{{Status: status, Timestamp: createdAt}},
		Endorsements:  []string{},
		PriorityScore: StandardPriority,
		Comments:      []models.Comment{},
		AdminComments: []models.AdminComment{},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, store.Insert(context.Background(), c))
	return c
}
