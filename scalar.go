package relcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Set serializes value and stores it under key, overwriting any previous
// value. ttl <= 0 uses Options.DefaultTTL.
//
// With the default JSON codec, dates placed in untyped slots (any,
// map[string]any, []any) only come back as time.Time when they are encoded
// as millisecond UTC strings (codec.ISOLayout). A time.Time value in such a
// slot encodes with full or trimmed precision and usually reads back as a
// string; store t.UTC().Format(codec.ISOLayout) or read into a typed struct
// instead.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := c.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("relcache: encode %q: %w", key, err)
	}
	return c.rdb.Set(ctx, c.Key(key), b, c.ttl(ttl)).Err()
}

// GetInto decodes the value stored under key into dst. ok is false when the
// key is absent or holds a non-string Redis type. See Set for how the JSON
// codec revives dates.
func (c *Cache) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	k := c.Key(key)
	b, err := c.rdb.Get(ctx, k).Bytes()
	if err == redis.Nil || isWrongType(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := c.decode(k, b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Get is the typed form of GetInto. Strings matching codec.ISODatePattern
// in untyped slots of T come back as time.Time; typed time.Time fields
// decode from any RFC 3339 form.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var v T
	ok, err := c.GetInto(ctx, key, &v)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// Del removes key. Deleting an absent key is not an error.
func (c *Cache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.Key(key)).Err()
}

func (c *Cache) decode(storageKey string, b []byte, dst any) error {
	if err := c.codec.Unmarshal(b, dst); err != nil {
		c.hooks.DecodeFailed(storageKey, err)
		return fmt.Errorf("relcache: decode %q: %w", storageKey, err)
	}
	return nil
}

func isWrongType(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(rerr.Error(), "WRONGTYPE")
}
