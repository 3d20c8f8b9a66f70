package util

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// QueryKey returns prefix, or prefix plus a short hash of args when args is
// non-nil. args are hashed in their JSON form; map keys are sorted by
// encoding/json, so equal argument sets give equal keys.
func QueryKey(prefix string, args any) string {
	if args == nil {
		return prefix
	}
	b, err := json.Marshal(args)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", args))
	}
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(b))
}
