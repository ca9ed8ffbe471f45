package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultRedisKey is the list key holding the journal.
const DefaultRedisKey = "email_reports"

// RedisJournal stores records as JSON strings in a capped Redis list.
// Push and trim run in one MULTI/EXEC so the cap holds across processes.
type RedisJournal struct {
	client redis.UniversalClient
	key    string
	max    int
	logger *slog.Logger
}

// NewRedisJournal creates a journal on the list at key.
func NewRedisJournal(client redis.UniversalClient, key string, opts ...Option) (*RedisJournal, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	o := newOptions(opts)
	return &RedisJournal{client: client, key: key, max: o.maxRecords, logger: o.logger}, nil
}

func (r *RedisJournal) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, int64(-r.max), -1)
		return nil
	})
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (r *RedisJournal) List(ctx context.Context) ([]Record, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	records := make([]Record, 0, len(items))
	for i, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "skipping unreadable fallback record",
				logger.Backend("redis"),
				slog.Int("index", i),
				logger.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
