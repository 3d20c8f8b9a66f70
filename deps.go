package relcache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SAdd registers cacheKeys (already fully namespaced, see Key) as depending
// on the entity whose dependency set is setKey (logical, e.g.
// "poem:p1:queries"). Callers must register every entity a cached result was
// derived from; a missing registration only heals through TTL.
func (c *Cache) SAdd(ctx context.Context, setKey string, cacheKeys ...string) error {
	if len(cacheKeys) == 0 {
		return nil
	}
	k := c.Key(setKey)
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		c.queueSAdd(ctx, p, k, cacheKeys...)
		return nil
	})
	return err
}

// SMembers lists the fully namespaced keys registered under setKey.
func (c *Cache) SMembers(ctx context.Context, setKey string) ([]string, error) {
	return c.rdb.SMembers(ctx, c.Key(setKey)).Result()
}

// Depend registers the logical key against every ref in one round trip.
func (c *Cache) Depend(ctx context.Context, key string, refs ...EntityRef) error {
	if err := validateRefs(refs); err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}
	full := c.Key(key)
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		c.queueDeps(ctx, p, full, refs)
		return nil
	})
	return err
}

func (c *Cache) queueSAdd(ctx context.Context, p redis.Pipeliner, storageSetKey string, members ...string) {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	p.SAdd(ctx, storageSetKey, args...)
	if c.dependencyTTL > 0 {
		p.Expire(ctx, storageSetKey, c.dependencyTTL)
	}
}

func (c *Cache) queueDeps(ctx context.Context, p redis.Pipeliner, storageKey string, refs []EntityRef) {
	for _, r := range refs {
		c.queueSAdd(ctx, p, c.Key(r.DependencyKey()), storageKey)
	}
}

// RemoveRelations deletes every key registered in the entity's dependency
// set, then the entity's own object key and the set itself. The second batch
// always runs, so the set is cleared even when it was empty; running it twice
// is a no-op. Store errors are returned as *InvalidateError.
func (c *Cache) RemoveRelations(ctx context.Context, id string, t EntityType) (err error) {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, t)
	}
	ref := Ref(t, id)
	ctx, span := c.startSpan(ctx, "relcache.RemoveRelations", entityAttrs(ref)...)
	defer func() { endSpan(span, err) }()

	setKey := c.Key(ref.DependencyKey())
	members, err := c.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return c.invalidateFailed(ref, StageMembers, err)
	}

	// member keys are only known now, hence two batches
	if len(members) > 0 {
		_, err = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			for _, m := range members {
				p.Del(ctx, m)
			}
			return nil
		})
		if err != nil {
			return c.invalidateFailed(ref, StageDependents, err)
		}
	}

	_, err = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, c.Key(ref.ObjectKey()))
		p.Del(ctx, setKey)
		return nil
	})
	if err != nil {
		return c.invalidateFailed(ref, StageIndex, err)
	}

	c.log.Debug("removed relations", Fields{"entity": string(t), "id": id, "dependents": len(members)})
	c.hooks.Invalidated(t, id, len(members))
	return nil
}

func (c *Cache) invalidateFailed(ref EntityRef, stage Stage, err error) error {
	c.log.Error("invalidation failed", Fields{"entity": string(ref.Type), "id": ref.ID, "stage": string(stage), "err": err})
	c.hooks.InvalidateFailed(ref.Type, ref.ID, stage, err)
	return &InvalidateError{Entity: ref.Type, ID: ref.ID, Stage: stage, Err: err}
}
