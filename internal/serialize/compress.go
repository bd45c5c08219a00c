package serialize

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every ZStandard frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// DefaultMaxDecodedSize bounds the memory a single decompressed payload may use.
const DefaultMaxDecodedSize = 64 << 20

// IsCompressed reports whether data starts with a ZStandard frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Codec compresses and decompresses grid state and catalog payloads.
// Create once and reuse; the encoder and decoder are shared between calls.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// CodecOption configures a Codec.
type CodecOption func(*codecOptions)

type codecOptions struct {
	level          zstd.EncoderLevel
	maxDecodedSize uint64
}

// WithLevel sets the encoder level. Defaults to zstd.SpeedDefault.
func WithLevel(level zstd.EncoderLevel) CodecOption {
	return func(o *codecOptions) { o.level = level }
}

// WithMaxDecodedSize limits the size of a decompressed payload.
// Defaults to DefaultMaxDecodedSize.
func WithMaxDecodedSize(n uint64) CodecOption {
	return func(o *codecOptions) { o.maxDecodedSize = n }
}

// NewCodec creates a reusable ZStandard codec.
// Caller must call Close() when done to release resources.
func NewCodec(opts ...CodecOption) (*Codec, error) {
	o := codecOptions{
		level:          zstd.SpeedDefault,
		maxDecodedSize: DefaultMaxDecodedSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(o.level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(o.maxDecodedSize))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Codec{
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Compress compresses data using ZStandard.
// Safe for concurrent use from multiple goroutines.
func (c *Codec) Compress(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decompress decompresses ZStandard data.
// Safe for concurrent use from multiple goroutines.
func (c *Codec) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	out, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}

// Close releases codec resources.
func (c *Codec) Close() error {
	if c.decoder != nil {
		c.decoder.Close()
	}
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}
