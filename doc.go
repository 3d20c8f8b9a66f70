// Package relcache implements a Redis-backed query-result cache with relational
// invalidation. Cached results are registered against every domain entity they
// were derived from; when an entity changes, exactly those results are
// deleted instead of flushing the namespace.
//
// Components:
//   - Scalar entries: one codec-serialized value per key with its own TTL.
//   - Collections: Redis hashes with positional fields "0".."n-1" and one TTL.
//   - Dependency sets: per-entity reverse index of fully namespaced cache keys.
//   - RemoveRelations: deletes an entity's dependents, its own object key and
//     the set itself.
//   - DelByPattern: SCAN-based bulk eviction for namespace resets.
//
// Keys (prefix is Options.Prefix):
//
//	<prefix>:<logical key>              - scalar and collection entries
//	<prefix>:<entity>:id:<id>           - the entity's own snapshot
//	<prefix>:<entity>:<id>:queries      - dependency set
//
// Read-through pattern:
//
//	poems, err := relcache.RememberList(ctx, c, relcache.QueryKey("poems", args), 0,
//	    []relcache.EntityRef{relcache.Ref(relcache.EntityAuthor, authorID)},
//	    func(ctx context.Context) ([]Poem, error) { return db.PoemsByAuthor(ctx, authorID) })
//
// and after the write commits:
//
//	err := c.InvalidateMutation(ctx, relcache.CreatePoem,
//	    relcache.Ref(relcache.EntityPoem, poem.ID), relcache.Ref(relcache.EntityAuthor, authorID))
package relcache
