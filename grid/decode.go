package grid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hugr-lab/gridfilter/internal/msgpack"
	"github.com/hugr-lab/gridfilter/internal/serialize"
)

// ErrUnknownEncoding is returned when saved state is neither JSON nor
// MessagePack, compressed or not.
var ErrUnknownEncoding = errors.New("unknown grid state encoding")

// Encoding selects the wire format of EncodeState.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingMsgPack
)

var sharedCodec = sync.OnceValues(func() (*serialize.Codec, error) {
	return serialize.NewCodec()
})

// DecodeState decodes saved grid state. The encoding is detected from the
// payload: a ZStandard frame is decompressed first, then a JSON object or a
// MessagePack map is decoded. JSON numbers are kept as json.Number so that
// integer and decimal text reaches the literal renderer unchanged.
func DecodeState(data []byte) (State, error) {
	var state State

	if serialize.IsCompressed(data) {
		codec, err := sharedCodec()
		if err != nil {
			return state, err
		}
		plain, err := codec.Decompress(data)
		if err != nil {
			return state, fmt.Errorf("grid state: %w", err)
		}
		if serialize.IsCompressed(plain) {
			return state, fmt.Errorf("grid state: nested compression: %w", ErrUnknownEncoding)
		}
		return DecodeState(plain)
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&state); err != nil {
			return State{}, fmt.Errorf("grid state: failed to decode JSON: %w", err)
		}
		return state, nil
	case msgpack.IsMap(data):
		if err := msgpack.Decode(data, &state); err != nil {
			return State{}, fmt.Errorf("grid state: %w", err)
		}
		return state, nil
	}
	return state, ErrUnknownEncoding
}

// EncodeState encodes grid state for storage or transport, optionally
// compressing it with ZStandard.
func EncodeState(state State, enc Encoding, compress bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch enc {
	case EncodingJSON:
		data, err = json.Marshal(state)
	case EncodingMsgPack:
		data, err = msgpack.Encode(state)
	default:
		return nil, fmt.Errorf("grid state: encoding %d: %w", enc, ErrUnknownEncoding)
	}
	if err != nil {
		return nil, fmt.Errorf("grid state: %w", err)
	}
	if !compress {
		return data, nil
	}

	codec, err := sharedCodec()
	if err != nil {
		return nil, err
	}
	return codec.Compress(data), nil
}
