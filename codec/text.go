package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/toon-format/toon-go"
	"gopkg.in/yaml.v3"
)

// JSON encodes with encoding/json.
// With Indent, output is pretty-printed so that save files are
// easy to inspect and diff.
type JSON[T any] struct {
	Indent bool
	// reject objects with fields that T doesn't have
	Strict bool
}

func (c JSON[T]) Encode(v T) ([]byte, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if c.Indent {
		d = pretty.Pretty(d)
	}
	return d, nil
}

func (c JSON[T]) Decode(d []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(d))
	if c.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	// a truncated or concatenated file shouldn't decode
	if dec.More() {
		return v, fmt.Errorf("json: unexpected data after value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// YAML encodes with gopkg.in/yaml.v3
type YAML[T any] struct{}

func (YAML[T]) Encode(v T) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAML[T]) Decode(d []byte) (T, error) {
	var v T
	err := yaml.Unmarshal(d, &v)
	return v, err
}

// Toon encodes with toon (a compact, line-oriented notation for JSON data)
type Toon[T any] struct{}

func (Toon[T]) Encode(v T) ([]byte, error) {
	return toon.Marshal(v)
}

func (Toon[T]) Decode(d []byte) (T, error) {
	var v T
	err := toon.Unmarshal(d, &v)
	return v, err
}

var (
	_ Codec[int] = JSON[int]{}
	_ Codec[int] = YAML[int]{}
	_ Codec[int] = Toon[int]{}
)
