package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Protobuf stores proto.Message values. Marshal rejects anything else and
// Unmarshal needs dst to be a proto.Message (e.g. &pb.Poem{}).
type Protobuf struct{}

var _ Codec = Protobuf{}

func (Protobuf) Name() string { return "protobuf" }

func (Protobuf) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protobuf codec: %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (Protobuf) Unmarshal(b []byte, dst any) error {
	m, ok := dst.(proto.Message)
	if !ok {
		return fmt.Errorf("protobuf codec: %T is not a proto.Message", dst)
	}
	return proto.Unmarshal(b, m)
}
