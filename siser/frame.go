// Package siser frames a block of data with a small, human-readable header.
//
// A frame looks like:
//
//	--- ${size} ${timestamp_in_unix_epoch_ms} ${name}\n
//	${data}
//	\n (only if data doesn't already end with a newline)
//
// ${name} is optional. The header makes files readable in a text
// editor and lets a reader verify that the data wasn't truncated.
package siser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var hdrPrefix = []byte("--- ")

// ErrTruncated is returned when a frame has less data than the header says
var ErrTruncated = errors.New("siser: truncated frame")

// Frame is a decoded frame
type Frame struct {
	Name      string
	Timestamp time.Time
	Data      []byte
}

// TimeToUnixMillisecond converts t into Unix epoch time in milliseconds.
// That's because seconds is not enough precision and nanoseconds is too much.
func TimeToUnixMillisecond(t time.Time) int64 {
	return t.UnixNano() / 1e6
}

// TimeFromUnixMillisecond returns time from Unix epoch time in milliseconds.
func TimeFromUnixMillisecond(unixMs int64) time.Time {
	return time.Unix(0, unixMs*1e6)
}

// MarshalLine serializes d as a frame. If t is zero, uses current time.
// name can't contain newlines.
// wb is optional and re-used for efficiency; the result is only valid until
// the next use of wb.
func MarshalLine(name string, t time.Time, d []byte, wb *bytes.Buffer) []byte {
	if wb == nil {
		wb = &bytes.Buffer{}
	} else {
		wb.Reset()
	}
	if t.IsZero() {
		t = time.Now()
	}
	// it's ok to estimate more, estimating less will require an alloc
	wb.Grow(len(hdrPrefix) + len(name) + len(d) + 48)

	wb.Write(hdrPrefix)
	dataLen := len(d)
	wb.WriteString(strconv.Itoa(dataLen))
	wb.WriteByte(' ')
	wb.WriteString(strconv.FormatInt(TimeToUnixMillisecond(t), 10))
	if name != "" {
		wb.WriteByte(' ')
		wb.WriteString(name)
	}
	wb.WriteByte('\n')
	if dataLen > 0 {
		wb.Write(d)
		if d[dataLen-1] != '\n' {
			wb.WriteByte('\n')
		}
	}
	return wb.Bytes()
}

func parseHeader(hdr []byte, f *Frame) (int, error) {
	rest, ok := bytes.CutPrefix(hdr, hdrPrefix)
	if !ok {
		return 0, fmt.Errorf("siser: missing '---' in header '%s'", hdr)
	}
	sizeStr, rest, ok := bytes.Cut(rest, []byte{' '})
	if !ok {
		// we need at least size and timestamp
		return 0, fmt.Errorf("siser: unexpected header '%s'", hdr)
	}
	timeStr, name, _ := bytes.Cut(rest, []byte{' '})

	size, err := strconv.Atoi(string(sizeStr))
	if err != nil || size < 0 {
		return 0, fmt.Errorf("siser: invalid size in header '%s'", hdr)
	}
	timeMs, err := strconv.ParseInt(string(timeStr), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("siser: invalid timestamp in header '%s'", hdr)
	}
	f.Timestamp = TimeFromUnixMillisecond(timeMs)
	f.Name = string(name)
	return size, nil
}

// UnmarshalLine decodes a single frame created with MarshalLine.
// d must contain exactly one frame. Data in the returned Frame
// points into d.
func UnmarshalLine(d []byte) (*Frame, error) {
	idx := bytes.IndexByte(d, '\n')
	if idx == -1 {
		return nil, fmt.Errorf("siser: missing '\\n' marking end of header")
	}
	f := &Frame{}
	size, err := parseHeader(d[:idx], f)
	if err != nil {
		return nil, err
	}
	d = d[idx+1:]
	if size > len(d) {
		return nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrTruncated, size, len(d))
	}
	f.Data = d[:size]
	d = d[size:]

	// for readability the writer pads data with '\n'
	if size > 0 && f.Data[size-1] != '\n' {
		if len(d) == 0 || d[0] != '\n' {
			return nil, fmt.Errorf("%w: missing '\\n' after data", ErrTruncated)
		}
		d = d[1:]
	}
	if len(d) > 0 {
		return nil, fmt.Errorf("siser: %d unexpected bytes after frame", len(d))
	}
	return f, nil
}
