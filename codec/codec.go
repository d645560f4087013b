// Package codec converts typed values to bytes and back.
//
// A Codec is the serialization contract of savestore.Store: the store
// writes whatever Encode returns and hands the file content to Decode.
// There's no reflection-driven binary format. Pick an explicit encoding:
//
//   - JSON, YAML, Toon: text formats for structs, maps and scalars
//   - Bytes, String: raw payloads
//   - Compressed: gzip, brotli or zstd on top of another codec
//   - Framed: a siser header (record type name + save time) on top of another codec
//
// Codecs are stateless values and safe for concurrent use.
package codec

// Codec encodes and decodes values of type T
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(d []byte) (T, error)
}

// Func adapts a pair of functions to Codec
type Func[T any] struct {
	EncodeFn func(v T) ([]byte, error)
	DecodeFn func(d []byte) (T, error)
}

func (c Func[T]) Encode(v T) ([]byte, error) {
	return c.EncodeFn(v)
}

func (c Func[T]) Decode(d []byte) (T, error) {
	return c.DecodeFn(d)
}

// Bytes stores []byte as-is
type Bytes struct{}

func (Bytes) Encode(v []byte) ([]byte, error) {
	return v, nil
}

func (Bytes) Decode(d []byte) ([]byte, error) {
	// the caller owns d but copy anyway so that the value
	// doesn't alias a buffer someone might re-use
	return append([]byte{}, d...), nil
}

// String stores a string as-is
type String struct{}

func (String) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (String) Decode(d []byte) (string, error) {
	return string(d), nil
}

var (
	_ Codec[[]byte] = Bytes{}
	_ Codec[string] = String{}
)
