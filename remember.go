package relcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Remember returns the value cached under key or loads it with fetch.
// Concurrent misses for the same key in this process share one fetch. The
// shared fetch and write-back run detached from the cancellation of the
// caller that started them; every caller stops waiting when its own ctx is
// done, without cancelling the work for the others.
//
// On a miss the key is registered in every dependency set of deps and the
// value is written in the same pipeline, registrations first, so a stored
// result is always reachable by RemoveRelations.
//
// If the write-back fails the fetched value is returned together with the
// error; the caller decides whether to serve it.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, deps []EntityRef, fetch FetchFn[T]) (T, error) {
	var zero T
	if err := validateRefs(deps); err != nil {
		return zero, err
	}
	if v, ok, err := Get[T](ctx, c, key); err != nil || ok {
		return v, err
	}

	full := c.Key(key)
	ch := c.flight.DoChan("s|"+full, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		b, err := c.codec.Marshal(v)
		if err != nil {
			return v, fmt.Errorf("relcache: encode %q: %w", key, err)
		}
		_, err = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			c.queueDeps(ctx, p, full, deps)
			p.Set(ctx, full, b, c.ttl(ttl))
			return nil
		})
		if err != nil {
			c.log.Warn("write-back failed", Fields{"key": key, "err": err})
		}
		return v, err
	})
	res, err := await(ctx, ch)
	v, _ := res.(T)
	return v, err
}

// RememberList is Remember for collections stored with HSetArray semantics.
// An empty result is returned but not cached.
func RememberList[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, deps []EntityRef, fetch FetchFn[[]T]) ([]T, error) {
	if err := validateRefs(deps); err != nil {
		return nil, err
	}
	if v, ok, err := GetAll[T](ctx, c, key); err != nil || ok {
		return v, err
	}

	full := c.Key(key)
	ch := c.flight.DoChan("h|"+full, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		items, err := fetch(ctx)
		if err != nil || len(items) == 0 {
			return items, err
		}
		fields, err := encodeItems(c, key, items)
		if err != nil {
			return items, err
		}
		_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
			c.queueDeps(ctx, p, full, deps)
			c.queueCollection(ctx, p, full, fields, ttl)
			return nil
		})
		if err != nil {
			c.log.Warn("write-back failed", Fields{"key": key, "err": err})
		}
		return items, err
	})
	res, err := await(ctx, ch)
	items, _ := res.([]T)
	return items, err
}

func await(ctx context.Context, ch <-chan singleflight.Result) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}
