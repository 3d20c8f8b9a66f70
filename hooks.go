package relcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow ones with
// hooks/async.
type Hooks interface {
	// RemoveRelations finished; dependents is how many keys the set held.
	Invalidated(entity EntityType, id string, dependents int)

	// RemoveRelations failed at stage. Stale entries may survive until TTL.
	InvalidateFailed(entity EntityType, id string, stage Stage, err error)

	// DelByPattern removed keys matching pattern (un-prefixed form).
	Evicted(pattern string, removed int)

	// A stored value could not be decoded; the error went to the caller.
	DecodeFailed(storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Invalidated(EntityType, string, int)               {}
func (NopHooks) InvalidateFailed(EntityType, string, Stage, error) {}
func (NopHooks) Evicted(string, int)                               {}
func (NopHooks) DecodeFailed(string, error)                        {}
