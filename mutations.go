package relcache

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Mutation names a write the API performs. Each one maps to the entity types
// whose cached views it makes stale in mutationTable.
type Mutation string

const (
	CreateAuthor Mutation = "createAuthor"
	UpdateAuthor Mutation = "updateAuthor"
	DeleteAuthor Mutation = "deleteAuthor"

	CreatePoem Mutation = "createPoem"
	UpdatePoem Mutation = "updatePoem"
	DeletePoem Mutation = "deletePoem"

	CreateComment Mutation = "createComment"
	UpdateComment Mutation = "updateComment"
	DeleteComment Mutation = "deleteComment"

	LikePoem   Mutation = "likePoem"
	UnlikePoem Mutation = "unlikePoem"

	SavePoem   Mutation = "savePoem"
	UnsavePoem Mutation = "unsavePoem"

	FollowAuthor   Mutation = "followAuthor"
	UnfollowAuthor Mutation = "unfollowAuthor"

	CreateCollection         Mutation = "createCollection"
	UpdateCollection         Mutation = "updateCollection"
	DeleteCollection         Mutation = "deleteCollection"
	AddPoemToCollection      Mutation = "addPoemToCollection"
	RemovePoemFromCollection Mutation = "removePoemFromCollection"
)

// mutationTable is the single place that decides which entities a write
// touches. A like changes the poem's like count and the liker's list of
// liked poems; a follow changes both authors' follower views.
var mutationTable = []struct {
	m       Mutation
	affects []EntityType
}{
	{CreateAuthor, []EntityType{EntityAuthor}},
	{UpdateAuthor, []EntityType{EntityAuthor}},
	{DeleteAuthor, []EntityType{EntityAuthor}},

	{CreatePoem, []EntityType{EntityPoem, EntityAuthor}},
	{UpdatePoem, []EntityType{EntityPoem}},
	{DeletePoem, []EntityType{EntityPoem, EntityAuthor}},

	{CreateComment, []EntityType{EntityComment, EntityPoem, EntityAuthor}},
	{UpdateComment, []EntityType{EntityComment}},
	{DeleteComment, []EntityType{EntityComment, EntityPoem, EntityAuthor}},

	{LikePoem, []EntityType{EntityLike, EntityPoem, EntityAuthor}},
	{UnlikePoem, []EntityType{EntityLike, EntityPoem, EntityAuthor}},

	{SavePoem, []EntityType{EntitySavedPoem, EntityPoem, EntityAuthor}},
	{UnsavePoem, []EntityType{EntitySavedPoem, EntityPoem, EntityAuthor}},

	{FollowAuthor, []EntityType{EntityFollowedAuthor, EntityAuthor}},
	{UnfollowAuthor, []EntityType{EntityFollowedAuthor, EntityAuthor}},

	{CreateCollection, []EntityType{EntityCollection, EntityAuthor}},
	{UpdateCollection, []EntityType{EntityCollection}},
	{DeleteCollection, []EntityType{EntityCollection, EntityAuthor}},
	{AddPoemToCollection, []EntityType{EntityCollection, EntityPoem}},
	{RemovePoemFromCollection, []EntityType{EntityCollection, EntityPoem}},
}

// Mutations returns every known mutation in table order.
func Mutations() []Mutation {
	out := make([]Mutation, len(mutationTable))
	for i, row := range mutationTable {
		out[i] = row.m
	}
	return out
}

// Affects returns the entity types m invalidates.
func Affects(m Mutation) ([]EntityType, error) {
	for _, row := range mutationTable {
		if row.m == m {
			return append([]EntityType(nil), row.affects...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMutation, m)
}

// InvalidateMutation runs RemoveRelations for every ref after checking refs
// against the table: each affected type needs at least one ref and no ref
// may be of a type the mutation does not affect. Nothing is deleted when the
// check fails. Removals run concurrently and all of them are attempted; the
// first error is returned.
func (c *Cache) InvalidateMutation(ctx context.Context, m Mutation, refs ...EntityRef) (err error) {
	affected, err := Affects(m)
	if err != nil {
		return err
	}
	if err := checkRefs(m, affected, refs); err != nil {
		return err
	}

	ctx, span := c.startSpan(ctx, "relcache.InvalidateMutation",
		attribute.String("relcache.mutation", string(m)),
		attribute.Int("relcache.refs", len(refs)))
	defer func() { endSpan(span, err) }()

	var g errgroup.Group
	for _, r := range dedupeRefs(refs) {
		r := r
		g.Go(func() error { return c.RemoveRelations(ctx, r.ID, r.Type) })
	}
	return g.Wait()
}

func checkRefs(m Mutation, affected []EntityType, refs []EntityRef) error {
	if err := validateRefs(refs); err != nil {
		return err
	}
	want := make(map[EntityType]bool, len(affected))
	for _, t := range affected {
		want[t] = false
	}
	for _, r := range refs {
		if _, ok := want[r.Type]; !ok {
			return fmt.Errorf("%w: %s does not affect %s", ErrUnexpectedRef, m, r.Type)
		}
		want[r.Type] = true
	}
	for _, t := range affected {
		if !want[t] {
			return fmt.Errorf("%w: %s needs a %s ref", ErrMissingRef, m, t)
		}
	}
	return nil
}

func dedupeRefs(refs []EntityRef) []EntityRef {
	seen := make(map[EntityRef]struct{}, len(refs))
	out := make([]EntityRef, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
