package relcache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// DelByPattern deletes every key in this namespace matching pattern (glob
// syntax, e.g. "Query:poems:*" or "*"). Keys are collected with an
// incremental SCAN so other clients of the store are not blocked, then
// removed with one DEL. Meant for resets and test teardown; steady-state
// invalidation goes through RemoveRelations.
func (c *Cache) DelByPattern(ctx context.Context, pattern string) (removed int, err error) {
	ctx, span := c.startSpan(ctx, "relcache.DelByPattern", attribute.String("relcache.pattern", pattern))
	defer func() { endSpan(span, err) }()

	match := c.Key(pattern)
	keys, err := c.scanKeys(ctx, match)
	if err != nil {
		return 0, fmt.Errorf("relcache: scan %q: %w", match, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := c.deleteKeys(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("relcache: delete %d keys matching %q: %w", len(keys), match, err)
	}
	c.log.Debug("evicted by pattern", Fields{"pattern": pattern, "matched": len(keys), "removed": n})
	c.hooks.Evicted(pattern, n)
	return n, nil
}

// scanKeys walks the keyspace of every master (one for non-cluster clients).
// SCAN may return a key more than once, so results are deduplicated.
func (c *Cache) scanKeys(ctx context.Context, match string) ([]string, error) {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	scan := func(ctx context.Context, rdb redis.Cmdable) error {
		var cursor uint64
		for {
			keys, next, err := rdb.Scan(ctx, cursor, match, c.scanCount).Result()
			if err != nil {
				return err
			}
			mu.Lock()
			for _, k := range keys {
				seen[k] = struct{}{}
			}
			mu.Unlock()
			if next == 0 {
				return nil
			}
			cursor = next
		}
	}

	var err error
	if cc, ok := c.rdb.(*redis.ClusterClient); ok {
		err = cc.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scan(ctx, node)
		})
	} else {
		err = scan(ctx, c.rdb)
	}
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// deleteKeys issues a single DEL. Cluster clients cannot DEL across slots,
// so there the deletes are pipelined per key instead.
func (c *Cache) deleteKeys(ctx context.Context, keys []string) (int, error) {
	if _, ok := c.rdb.(*redis.ClusterClient); !ok {
		n, err := c.rdb.Del(ctx, keys...).Result()
		return int(n), err
	}

	cmds := make([]*redis.IntCmd, len(keys))
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = p.Del(ctx, k)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	var n int
	for _, cmd := range cmds {
		n += int(cmd.Val())
	}
	return n, nil
}
