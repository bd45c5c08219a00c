package serialize

import (
	"bytes"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec(WithLevel(zstd.SpeedFastest))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	defer codec.Close()

	data := bytes.Repeat([]byte(`{"field":"Name","operator":"Contains","value":"Jo"}`), 50)
	compressed := codec.Compress(data)
	if len(compressed) >= len(data) {
		t.Errorf("expected compressed size < %d, got %d", len(data), len(compressed))
	}
	if !IsCompressed(compressed) {
		t.Error("expected zstd magic")
	}
	if IsCompressed(data) {
		t.Error("expected plain data not to be detected as compressed")
	}

	out, err := codec.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("round trip mismatch")
	}
}

func TestCodecEmpty(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	defer codec.Close()

	if out := codec.Compress(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
	out, err := codec.Decompress(nil)
	if err != nil || len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes, err %v", len(out), err)
	}
}

func TestCodecCorrupt(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	defer codec.Close()

	bad := append(append([]byte{}, zstdMagic...), 0x00, 0x01, 0x02)
	if _, err := codec.Decompress(bad); err == nil {
		t.Error("expected error for corrupt frame")
	}
}

func TestCodecConcurrent(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	defer codec.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := bytes.Repeat([]byte{byte(i)}, 1024)
			out, err := codec.Decompress(codec.Compress(data))
			if err != nil {
				t.Errorf("Decompress failed: %v", err)
				return
			}
			if !bytes.Equal(out, data) {
				t.Errorf("goroutine %d: round trip mismatch", i)
			}
		}(i)
	}
	wg.Wait()
}
