// Package codec holds the value serializers used by relcache.
//
// A Codec is untyped on purpose: one cache stores poems, authors, comment
// pages and counters side by side, so the destination type is chosen by the
// caller at read time (relcache.Get[T], relcache.GetAll[T]).
package codec

// Codec encodes values to []byte for storage and decodes them back into dst,
// which must be a non-nil pointer.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, dst any) error
	Name() string
}
