package compress

import "fmt"

// Compress encodes and decodes snapshot payloads before they hit the store.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

const (
	CodecNop    = "nop"
	CodecGZip   = "gzip"
	CodecLZ4    = "lz4"
	CodecBrotli = "brotli"
)

// ByName returns the codec registered under the given name. The name is
// persisted next to every snapshot so old rows stay readable after the
// configured codec changes.
func ByName(name string) (Compress, error) {
	switch name {
	case CodecNop, "":
		return NewNop(), nil
	case CodecGZip:
		return NewGZip(), nil
	case CodecLZ4:
		return NewLZ4(), nil
	case CodecBrotli:
		return NewBrotli(), nil
	}

	return nil, fmt.Errorf("unknown compression codec: %q", name)
}
