package relcache

import "fmt"

// EntityType is the closed set of domain entities cached results can depend
// on. Values outside this set are rejected wherever dependency sets are read
// or written, so a typo cannot create a set nobody invalidates.
type EntityType string

const (
	EntityAuthor         EntityType = "author"
	EntityPoem           EntityType = "poem"
	EntityComment        EntityType = "comment"
	EntityCollection     EntityType = "collection"
	EntityLike           EntityType = "like"
	EntitySavedPoem      EntityType = "savedPoem"
	EntityFollowedAuthor EntityType = "followedAuthor"
)

// EntityTypes returns every entity type in declaration order.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityAuthor,
		EntityPoem,
		EntityComment,
		EntityCollection,
		EntityLike,
		EntitySavedPoem,
		EntityFollowedAuthor,
	}
}

func (t EntityType) Valid() bool {
	switch t {
	case EntityAuthor, EntityPoem, EntityComment, EntityCollection,
		EntityLike, EntitySavedPoem, EntityFollowedAuthor:
		return true
	}
	return false
}

func (t EntityType) String() string { return string(t) }

// ParseEntityType converts the wire name of an entity ("poem", "savedPoem", ...).
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
	}
	return t, nil
}

// EntityRef identifies one entity instance.
type EntityRef struct {
	Type EntityType
	ID   string
}

func Ref(t EntityType, id string) EntityRef { return EntityRef{Type: t, ID: id} }

// DependencyKey is the logical key of the entity's dependency set.
func (r EntityRef) DependencyKey() string { return string(r.Type) + ":" + r.ID + ":queries" }

// ObjectKey is the logical key of the entity's own cached snapshot.
func (r EntityRef) ObjectKey() string { return string(r.Type) + ":id:" + r.ID }

func (r EntityRef) String() string { return string(r.Type) + ":" + r.ID }

func validateRefs(refs []EntityRef) error {
	for _, r := range refs {
		if !r.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownEntity, r.Type)
		}
	}
	return nil
}
