package service

import (
	"google.golang.org/grpc/encoding"

	"github.com/hugr-lab/gridfilter/internal/msgpack"
)

// CodecName is the gRPC content-subtype of the compile service.
// Clients select it with grpc.CallContentSubtype(CodecName).
const CodecName = "msgpack"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec marshals service messages with MessagePack.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	return msgpack.Encode(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	// empty messages are valid on the wire
	if len(data) == 0 {
		return nil
	}
	return msgpack.Decode(data, v)
}

func (codec) Name() string {
	return CodecName
}
