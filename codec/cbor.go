package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var mapStringAny = reflect.TypeOf(map[string]any(nil))

// CBOR serializes values using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Deterministic mode uses RFC 8949 Core Deterministic encoding, which is
// handy when cached bytes are compared or hashed. Time values are encoded as
// RFC3339Nano text and decode back into time.Time fields.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec = CBOR{}

func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	// maps decoded into any come back as map[string]any instead of
	// map[any]any, matching what the JSON codec hands out.
	dm, err := cbor.DecOptions{DefaultMapType: mapStringAny}.DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Meant for package-level vars.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (CBOR) Name() string                        { return "cbor" }
func (c CBOR) Marshal(v any) ([]byte, error)     { return c.enc.Marshal(v) }
func (c CBOR) Unmarshal(b []byte, dst any) error { return c.dec.Unmarshal(b, dst) }
