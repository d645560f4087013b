package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bl4ck-orig/GenericBinarySaveSystem/siser"
)

// ErrWrongKind is returned by Framed.Decode when the frame was written
// with a different Kind
var ErrWrongKind = errors.New("frame kind mismatch")

// Framed wraps the output of Inner in a siser frame:
//
//	--- ${len} ${save_time_ms} ${Kind}\n
//	${data}
//
// The length in the header catches truncated files and Kind catches
// loading a record written for a different type.
type Framed[T any] struct {
	Inner Codec[T]
	// name of the record type, can't contain newlines. Optional
	Kind string
	// for tests, time.Now() if nil
	Now func() time.Time
}

func (c Framed[T]) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Framed[T]) Encode(v T) ([]byte, error) {
	if strings.ContainsAny(c.Kind, "\r\n") {
		return nil, fmt.Errorf("frame kind %q contains a newline", c.Kind)
	}
	d, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return siser.MarshalLine(c.Kind, c.now(), d, nil), nil
}

func (c Framed[T]) Decode(d []byte) (T, error) {
	var zero T
	f, err := siser.UnmarshalLine(d)
	if err != nil {
		return zero, err
	}
	if c.Kind != "" && f.Name != c.Kind {
		return zero, fmt.Errorf("%w: expected '%s', got '%s'", ErrWrongKind, c.Kind, f.Name)
	}
	return c.Inner.Decode(f.Data)
}

// SavedAt returns the time a Framed record was encoded
func SavedAt(d []byte) (time.Time, error) {
	f, err := siser.UnmarshalLine(d)
	if err != nil {
		return time.Time{}, err
	}
	return f.Timestamp, nil
}
