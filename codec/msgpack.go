package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values with vmihailenco/msgpack/v5. The zero value is
// ready to use. time.Time survives natively, so no revival rule applies.
//
// Use `msgpack:"fieldName"` tags if the JSON tag names should be mirrored.
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Name() string                      { return "msgpack" }
func (Msgpack) Marshal(v any) ([]byte, error)     { return msgpack.Marshal(v) }
func (Msgpack) Unmarshal(b []byte, dst any) error { return msgpack.Unmarshal(b, dst) }
