package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kino-tickets/internal/booking"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrSelectionBusy = errors.New("selection is locked by another request")

// SelectionRepository keeps open seat selections between requests.
type SelectionRepository interface {
	Save(ctx context.Context, snap booking.Snapshot, ttl time.Duration) error
	Find(ctx context.Context, id string) (*booking.Snapshot, error)
	Delete(ctx context.Context, id string) error

	// Lock serializes mutations of one selection. It waits until ctx is done
	// and returns ErrSelectionBusy if the lock never frees up.
	Lock(ctx context.Context, id string, ttl time.Duration) (unlock func(), err error)
}

const (
	selectionKeyPrefix = "selection:"
	lockKeyPrefix      = "selection-lock:"
	lockRetryInterval  = 25 * time.Millisecond
)

// compare-and-delete so a lock that expired and was re-taken is not released by the old holder
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSelectionRepository struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSelectionRepository(client *redis.Client, log *zap.Logger) SelectionRepository {
	return &redisSelectionRepository{
		client: client,
		log:    log.With(zap.String("repository", "selection")),
	}
}

func (r *redisSelectionRepository) Save(ctx context.Context, snap booking.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal selection %s: %w", snap.ID, err)
	}

	if err := r.client.Set(ctx, selectionKeyPrefix+snap.ID, data, ttl).Err(); err != nil {
		r.log.Error("Failed to save selection", zap.Error(err), zap.String("selection_id", snap.ID))
		return fmt.Errorf("save selection %s: %w", snap.ID, err)
	}

	return nil
}

func (r *redisSelectionRepository) Find(ctx context.Context, id string) (*booking.Snapshot, error) {
	data, err := r.client.Get(ctx, selectionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find selection", zap.Error(err), zap.String("selection_id", id))
		return nil, fmt.Errorf("find selection %s: %w", id, err)
	}

	var snap booking.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode selection %s: %w", id, err)
	}

	return &snap, nil
}

func (r *redisSelectionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, selectionKeyPrefix+id).Err(); err != nil {
		r.log.Error("Failed to delete selection", zap.Error(err), zap.String("selection_id", id))
		return fmt.Errorf("delete selection %s: %w", id, err)
	}
	return nil
}

func (r *redisSelectionRepository) Lock(ctx context.Context, id string, ttl time.Duration) (func(), error) {
	key := lockKeyPrefix + id
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("lock selection %s: %w", id, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrSelectionBusy
		case <-time.After(lockRetryInterval):
		}
	}

	unlock := func() {
		// context terpisah supaya unlock tetap jalan walau request sudah selesai
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			r.log.Warn("Failed to release selection lock", zap.Error(err), zap.String("selection_id", id))
		}
	}

	return unlock, nil
}
