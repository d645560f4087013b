package codec

import (
	"fmt"

	"github.com/Bl4ck-orig/GenericBinarySaveSystem/u"
)

type Compression int

const (
	Gzip Compression = iota + 1
	Brotli
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Brotli:
		return "brotli"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// ParseCompression is the inverse of Compression.String()
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "gzip", "gz":
		return Gzip, nil
	case "brotli", "br":
		return Brotli, nil
	case "zstd":
		return Zstd, nil
	}
	return 0, fmt.Errorf("unknown compression '%s'", s)
}

func (c Compression) compress(d []byte) ([]byte, error) {
	switch c {
	case Gzip:
		return u.GzipCompressData(d)
	case Brotli:
		return u.BrCompressDataDefault(d)
	case Zstd:
		return u.ZstdCompressData(d)
	}
	return nil, fmt.Errorf("unknown compression %s", c)
}

func (c Compression) decompress(d []byte) ([]byte, error) {
	switch c {
	case Gzip:
		return u.GzipDecompressData(d)
	case Brotli:
		return u.BrDecompressData(d)
	case Zstd:
		return u.ZstdDecompressData(d)
	}
	return nil, fmt.Errorf("unknown compression %s", c)
}

// Compressed compresses the output of Inner
type Compressed[T any] struct {
	Inner       Codec[T]
	Compression Compression
}

func (c Compressed[T]) Encode(v T) ([]byte, error) {
	d, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.Compression.compress(d)
}

func (c Compressed[T]) Decode(d []byte) (T, error) {
	d, err := c.Compression.decompress(d)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", c.Compression, err)
	}
	return c.Inner.Decode(d)
}
