package relcache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// HSetArray stores items as a hash with one field per position ("0".."n-1")
// and a single TTL for the whole hash. The previous hash is replaced inside
// one MULTI/EXEC, so a shorter list never inherits trailing fields and
// readers never see a half-built list. An empty slice only deletes: an empty
// collection reads back as a miss.
func HSetArray[T any](ctx context.Context, c *Cache, key string, items []T, ttl time.Duration) error {
	fields, err := encodeItems(c, key, items)
	if err != nil {
		return err
	}
	k := c.Key(key)
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		c.queueCollection(ctx, p, k, fields, ttl)
		return nil
	})
	return err
}

// GetAll reads a collection written by HSetArray in its original order.
// ok is false when the hash is absent or empty.
func GetAll[T any](ctx context.Context, c *Cache, key string) ([]T, bool, error) {
	k := c.Key(key)
	m, err := c.rdb.HGetAll(ctx, k).Result()
	if isWrongType(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(m) == 0 {
		return nil, false, nil
	}

	fields, err := sortedFields(k, m)
	if err != nil {
		return nil, false, err
	}
	out := make([]T, len(fields))
	for i, f := range fields {
		if err := c.decode(k, []byte(m[f]), &out[i]); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

// HGet reads the item at index without loading the whole collection.
func HGet[T any](ctx context.Context, c *Cache, key string, index int) (T, bool, error) {
	var v T
	k := c.Key(key)
	b, err := c.rdb.HGet(ctx, k, strconv.Itoa(index)).Bytes()
	if err == redis.Nil || isWrongType(err) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := c.decode(k, b, &v); err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// hsetExisting overwrites a field only when it is already present and
// refreshes the hash TTL (milliseconds) in the same step.
var hsetExisting = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// HSet replaces the item at index of an existing collection and resets the
// hash TTL. It never grows or creates a hash, so fields stay dense: ok is
// false and nothing is written when the collection is absent or index is past
// its end. A negative index is ErrIndexOutOfRange.
func (c *Cache) HSet(ctx context.Context, key string, index int, value any, ttl time.Duration) (bool, error) {
	if index < 0 {
		return false, fmt.Errorf("%w: %q[%d]", ErrIndexOutOfRange, key, index)
	}
	b, err := c.codec.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("relcache: encode %q[%d]: %w", key, index, err)
	}
	k := c.Key(key)
	n, err := hsetExisting.Run(ctx, c.rdb, []string{k}, strconv.Itoa(index), b, c.ttl(ttl).Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func encodeItems[T any](c *Cache, key string, items []T) ([][]byte, error) {
	fields := make([][]byte, len(items))
	for i, it := range items {
		b, err := c.codec.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("relcache: encode %q[%d]: %w", key, i, err)
		}
		fields[i] = b
	}
	return fields, nil
}

// queueCollection must run in a TxPipelined batch: between the DEL and the
// last HSET the hash is incomplete.
func (c *Cache) queueCollection(ctx context.Context, p redis.Pipeliner, storageKey string, fields [][]byte, ttl time.Duration) {
	p.Del(ctx, storageKey)
	if len(fields) == 0 {
		return
	}
	for i, b := range fields {
		p.HSet(ctx, storageKey, strconv.Itoa(i), b)
	}
	p.Expire(ctx, storageKey, c.ttl(ttl))
}

// sortedFields orders hash fields numerically; Redis does not keep
// insertion order for hashes.
func sortedFields(storageKey string, m map[string]string) ([]string, error) {
	type field struct {
		name string
		pos  int
	}
	fs := make([]field, 0, len(m))
	for name := range m {
		pos, err := strconv.Atoi(name)
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("%w: %q has field %q", ErrCorruptCollection, storageKey, name)
		}
		fs = append(fs, field{name: name, pos: pos})
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].pos < fs[j].pos })

	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.name
	}
	return out, nil
}
