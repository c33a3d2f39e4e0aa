package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCachedStore(t *testing.T) (*CachedComplaintStore, *GormComplaintStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backing := NewGormComplaintStore(setupStoreTestDB(t))
	return NewCachedComplaintStore(backing, rdb, time.Minute), backing, mr
}

// hookedStore runs a callback once right after a backing read or write
// returns, to interleave a second writer with the cache bookkeeping.
type hookedStore struct {
	ComplaintStore
	afterFind   func()
	afterMutate func()
}

func (h *hookedStore) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := h.ComplaintStore.FindByID(ctx, id)
	if hook := h.afterFind; hook != nil {
		h.afterFind = nil
		hook()
	}
	return c, err
}

func (h *hookedStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error) {
	c, err := h.ComplaintStore.Mutate(ctx, id, fn)
	if hook := h.afterMutate; hook != nil {
		h.afterMutate = nil
		hook()
	}
	return c, err
}

func setupHookedCachedStore(t *testing.T) (*CachedComplaintStore, *hookedStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hooked := &hookedStore{ComplaintStore: NewGormComplaintStore(setupStoreTestDB(t))}
	return NewCachedComplaintStore(hooked, rdb, time.Minute), hooked
}

func TestCachedStoreInsertLeavesFillToReads(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := setupCachedStore(t)

	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))
	assert.False(t, mr.Exists(complaintKey("c-1")))

	_, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(complaintKey("c-1")))
	assert.Equal(t, time.Minute, mr.TTL(complaintKey("c-1")))
}

func TestCachedStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := setupCachedStore(t)

	require.NoError(t, backing.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))
	assert.False(t, mr.Exists(complaintKey("c-1")))

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ComplaintID)
	assert.True(t, mr.Exists(complaintKey("c-1")), "miss populates the cache")

	// A write that bypasses the cache is invisible until the entry is refreshed.
	_, err = backing.Mutate(ctx, "c-1", func(c *models.Complaint) error {
		c.PriorityScore = 55
		return nil
	})
	require.NoError(t, err)

	got, err = cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.PriorityScore)

	_, err = cached.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStoreMutateEvictsEntry(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := setupCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))
	_, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, mr.Exists(complaintKey("c-1")))

	_, err = cached.Mutate(ctx, "c-1", func(c *models.Complaint) error {
		c.PriorityScore += 5
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(complaintKey("c-1")))

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 15, got.PriorityScore)
}

func TestCachedStoreEscalationAfterMutateCommitIsNotLost(t *testing.T) {
	ctx := context.Background()
	cached, hooked := setupHookedCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusWorking, 10, storeTestEpoch)))
	_, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)

	// The sweep escalates between the endorsement's commit and its cache step.
	hooked.afterMutate = func() {
		ok, err := cached.MarkEscalated(ctx, "c-1", storeTestEpoch.Add(80*time.Hour))
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, err = cached.Mutate(ctx, "c-1", func(c *models.Complaint) error {
		c.PriorityScore += 5
		return nil
	})
	require.NoError(t, err)

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, got.IsEscalated)
	assert.Equal(t, 15, got.PriorityScore)
}

func TestCachedStoreSkipsFillWhenWriteLandsDuringLoad(t *testing.T) {
	ctx := context.Background()
	cached, hooked := setupHookedCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))

	// A status change commits after the miss loaded the old row.
	hooked.afterFind = func() {
		_, err := cached.Mutate(ctx, "c-1", func(c *models.Complaint) error {
			c.Status = models.StatusPending
			return nil
		})
		require.NoError(t, err)
	}
	first, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoted, first.Status)

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestCachedStoreEscalationEvicts(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := setupCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusWorking, 10, storeTestEpoch)))

	ok, err := cached.MarkEscalated(ctx, "c-1", storeTestEpoch.Add(80*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists(complaintKey("c-1")))

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, got.IsEscalated)
}

func TestCachedStoreUpdateEvicts(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := setupCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))
	c, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)

	c.Description = "corrected description"
	require.NoError(t, cached.Update(ctx, c))
	assert.False(t, mr.Exists(complaintKey("c-1")))

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "corrected description", got.Description)

	ghost := newStoredComplaint("ghost", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)
	assert.ErrorIs(t, cached.Update(ctx, ghost), ErrNotFound)
}

func TestCachedStoreDeleteEvicts(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := setupCachedStore(t)
	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))

	found, err := cached.Delete(ctx, "c-1", DeleteCondition{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, mr.Exists(complaintKey("c-1")))

	_, err = cached.FindByID(ctx, "c-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStoreFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := setupCachedStore(t)
	require.NoError(t, backing.Insert(ctx, newStoredComplaint("c-1", "user1@gmail.com", models.StatusNoted, 10, storeTestEpoch)))

	mr.Close()

	got, err := cached.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ComplaintID)

	require.NoError(t, cached.Insert(ctx, newStoredComplaint("c-2", "user2@gmail.com", models.StatusNoted, 100, storeTestEpoch)))
}
