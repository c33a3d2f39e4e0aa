package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	complaintKeyPrefix  = "complaint:"
	generationKeyPrefix = "complaint:gen:"
)

// CachedComplaintStore keeps single-complaint reads in redis. Only FindByID
// fills the cache; every write evicts the entry once the backing store has
// committed and bumps the complaint's generation key, so the next read
// refetches. A fill is dropped when the generation moved while the record
// was being loaded. List queries always go to the backing store. Redis errors
// never fail a request.
type CachedComplaintStore struct {
	next  ComplaintStore
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedComplaintStore(next ComplaintStore, rdb *redis.Client, ttl time.Duration) *CachedComplaintStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedComplaintStore{next: next, redis: rdb, ttl: ttl}
}

func complaintKey(id string) string {
	return complaintKeyPrefix + id
}

func generationKey(id string) string {
	return generationKeyPrefix + id
}

func (s *CachedComplaintStore) Insert(ctx context.Context, c *models.Complaint) error {
	if err := s.next.Insert(ctx, c); err != nil {
		return err
	}
	s.evict(ctx, c.ComplaintID)
	return nil
}

func (s *CachedComplaintStore) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	raw, err := s.redis.Get(ctx, complaintKey(id)).Bytes()
	switch {
	case err == nil:
		var c models.Complaint
		if jsonErr := json.Unmarshal(raw, &c); jsonErr == nil {
			return &c, nil
		}
		s.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		slog.Warn("complaint cache read failed", "complaint_id", id, "error", err)
	}

	return s.load(ctx, id)
}

// load reads the complaint from the backing store and caches it, unless a
// writer evicted it in the meantime.
func (s *CachedComplaintStore) load(ctx context.Context, id string) (*models.Complaint, error) {
	var (
		c       *models.Complaint
		loadErr error
	)
	err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
		c, loadErr = s.next.FindByID(ctx, id)
		if loadErr != nil {
			return loadErr
		}
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, complaintKey(id), data, s.ttl)
			return nil
		})
		return err
	}, generationKey(id))

	switch {
	case loadErr != nil:
		return nil, loadErr
	case c == nil:
		// WATCH itself failed; redis is unreachable.
		slog.Warn("complaint cache unavailable", "complaint_id", id, "error", err)
		return s.next.FindByID(ctx, id)
	case errors.Is(err, redis.TxFailedErr):
		slog.Debug("complaint cache fill skipped, record changed during load", "complaint_id", id)
	case err != nil:
		slog.Warn("complaint cache write failed", "complaint_id", id, "error", err)
	}
	return c, nil
}

func (s *CachedComplaintStore) FindAll(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	return s.next.FindAll(ctx, filter)
}

func (s *CachedComplaintStore) Update(ctx context.Context, c *models.Complaint) error {
	err := s.next.Update(ctx, c)
	s.evict(ctx, c.ComplaintID)
	return err
}

func (s *CachedComplaintStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error) {
	c, err := s.next.Mutate(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return c, nil
}

func (s *CachedComplaintStore) MarkEscalated(ctx context.Context, id string, at time.Time) (bool, error) {
	ok, err := s.next.MarkEscalated(ctx, id, at)
	if err != nil {
		return false, err
	}
	if ok {
		s.evict(ctx, id)
	}
	return ok, nil
}

func (s *CachedComplaintStore) Delete(ctx context.Context, id string, cond DeleteCondition) (bool, error) {
	found, err := s.next.Delete(ctx, id, cond)
	if err != nil {
		return false, err
	}
	s.evict(ctx, id)
	return found, nil
}

func (s *CachedComplaintStore) evict(ctx context.Context, id string) {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, complaintKey(id))
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), s.ttl)
		return nil
	})
	if err != nil {
		slog.Warn("complaint cache evict failed", "complaint_id", id, "error", err)
	}
}
