package codec

import (
	"fmt"
	"strings"
)

// Names lists formats accepted by ByName
var Names = []string{"json", "json-indent", "yaml", "toon"}

// ByName returns a codec for a format name as it might appear in a config file.
// The format can be followed by "+" and a compression, e.g. "json+zstd"
// or "yaml+gzip".
func ByName[T any](name string) (Codec[T], error) {
	format, compression, hasCompression := strings.Cut(strings.ToLower(strings.TrimSpace(name)), "+")

	var c Codec[T]
	switch format {
	case "json":
		c = JSON[T]{}
	case "json-indent":
		c = JSON[T]{Indent: true}
	case "yaml", "yml":
		c = YAML[T]{}
	case "toon":
		c = Toon[T]{}
	default:
		return nil, fmt.Errorf("unknown codec '%s', known: %s", name, strings.Join(Names, ", "))
	}
	if !hasCompression {
		return c, nil
	}
	comp, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	return Compressed[T]{Inner: c, Compression: comp}, nil
}
