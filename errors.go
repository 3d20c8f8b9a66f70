package relcache

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEntity     = errors.New("relcache: unknown entity type")
	ErrUnknownMutation   = errors.New("relcache: unknown mutation")
	ErrMissingRef        = errors.New("relcache: mutation is missing an entity ref")
	ErrUnexpectedRef     = errors.New("relcache: entity ref not affected by mutation")
	ErrCorruptCollection = errors.New("relcache: corrupt collection entry")
	ErrIndexOutOfRange   = errors.New("relcache: collection index out of range")
	ErrInvalidPrefix     = errors.New("relcache: invalid prefix")
)

// Stage names the step of RemoveRelations that failed.
type Stage string

const (
	StageMembers    Stage = "members"    // reading the dependency set
	StageDependents Stage = "dependents" // deleting dependent keys
	StageIndex      Stage = "index"      // deleting the object key and the set
)

// InvalidateError reports a failed RemoveRelations. The triggering write has
// usually committed already, so entries may stay stale until their TTL.
type InvalidateError struct {
	Entity EntityType
	ID     string
	Stage  Stage
	Err    error
}

func (e *InvalidateError) Error() string {
	switch e.Stage {
	case StageMembers:
		return fmt.Sprintf("relcache: invalidate %s:%s: read dependency set: %v", e.Entity, e.ID, e.Err)
	case StageDependents:
		return fmt.Sprintf("relcache: invalidate %s:%s: delete dependents: %v", e.Entity, e.ID, e.Err)
	case StageIndex:
		return fmt.Sprintf("relcache: invalidate %s:%s: delete object and index: %v", e.Entity, e.ID, e.Err)
	default:
		return fmt.Sprintf("relcache: invalidate %s:%s: %v", e.Entity, e.ID, e.Err)
	}
}

func (e *InvalidateError) Unwrap() error { return e.Err }
