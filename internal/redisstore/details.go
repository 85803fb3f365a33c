package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const detailKeyPrefix = "news:detail:"

// Details is a write-once detail store on Redis. Entries never expire; the
// buffered window this service serves is bounded, so the key set stays small.
type Details struct {
	client *redis.Client
}

// NewDetails creates a detail store on the given client.
func NewDetails(client *redis.Client) *Details {
	return &Details{client: client}
}

// Get returns the stored detail text for the id, if any.
func (d *Details) Get(ctx context.Context, id string) (string, bool, error) {
	content, err := d.client.Get(ctx, detailKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// PutIfAbsent stores content for the id unless a value already exists.
// SET NX makes the first write win even across concurrent instances.
func (d *Details) PutIfAbsent(ctx context.Context, id, content string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return d.client.SetNX(ctx, detailKeyPrefix+id, content, 0).Result()
}

// Len returns the number of stored detail entries.
func (d *Details) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := d.client.Scan(ctx, cursor, detailKeyPrefix+"*", 500).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}
