package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBackend is an enrichment StorageBackend for deployments sharing a
// Redis instance across multiple processes: events are stored as JSON
// documents in a hash keyed by id, with a sorted set (scored by
// timestamp_ms) providing insertion order for scans.
type RedisBackend struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisBackend wraps an existing client. keyPrefix namespaces the hash
// and sorted-set keys (e.g. "agentcore:events").
func NewRedisBackend(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyPrefix == "" {
		keyPrefix = "agentcore:events"
	}
	return &RedisBackend{client: client, keyPrefix: keyPrefix, logger: logger.With(zap.String("component", "event_backend_redis"))}
}

func (b *RedisBackend) docKey() string   { return b.keyPrefix + ":docs" }
func (b *RedisBackend) orderKey() string { return b.keyPrefix + ":order" }

func (b *RedisBackend) Store(ctx context.Context, e Event) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("event: marshal for redis backend: %w", err)
	}
	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, b.docKey(), e.ID(), doc)
	pipe.ZAdd(ctx, b.orderKey(), redis.Z{Score: float64(e.Metadata().TimestampMS), Member: e.ID()})
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("event: store to redis backend: %w", err)
	}
	return nil
}

func (b *RedisBackend) orderedIDs(ctx context.Context) ([]string, error) {
	return b.client.ZRange(ctx, b.orderKey(), 0, -1).Result()
}

func (b *RedisBackend) loadByIDs(ctx context.Context, ids []string) ([]Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	docs, err := b.client.HMGet(ctx, b.docKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("event: read redis backend: %w", err)
	}
	out := make([]Event, 0, len(ids))
	for _, raw := range docs {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			b.logger.Warn("skipping corrupt redis document", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *RedisBackend) Retrieve(ctx context.Context, filter Expr, limit int) ([]Event, error) {
	ids, err := b.orderedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("event: scan redis backend: %w", err)
	}
	events, err := b.loadByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0)
	for _, e := range events {
		if !matchesFilter(e, filter) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (b *RedisBackend) RetrieveByIDs(ctx context.Context, ids []string) ([]Event, error) {
	return b.loadByIDs(ctx, ids)
}

func (b *RedisBackend) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	pipe := b.client.TxPipeline()
	hdel := pipe.HDel(ctx, b.docKey(), ids...)
	pipe.ZRem(ctx, b.orderKey(), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("event: delete from redis backend: %w", err)
	}
	return int(hdel.Val()), nil
}

func (b *RedisBackend) DeleteByFilter(ctx context.Context, filter Expr) (int, error) {
	ids, err := b.orderedIDs(ctx)
	if err != nil {
		return 0, err
	}
	events, err := b.loadByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	var toDelete []string
	for _, e := range events {
		if matchesFilter(e, filter) {
			toDelete = append(toDelete, e.ID())
		}
	}
	if len(toDelete) == 0 {
		return 0, nil
	}
	return b.DeleteByIDs(ctx, toDelete)
}

func (b *RedisBackend) Count(ctx context.Context, filter Expr) (int, error) {
	if filter == nil {
		n, err := b.client.ZCard(ctx, b.orderKey()).Result()
		return int(n), err
	}
	events, err := b.Retrieve(ctx, filter, 0)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, b.docKey())
	pipe.Del(ctx, b.orderKey())
	_, err := pipe.Exec(ctx)
	return err
}

func (b *RedisBackend) Close() error { return b.client.Close() }
