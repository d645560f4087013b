package siser

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func timeDiffLessThanMs(t1 time.Time, t2 time.Time) bool {
	dur := t1.Sub(t2)
	if dur < 0 {
		dur = -dur
	}
	return dur < time.Millisecond
}

func TestMarshalLineFormat(t *testing.T) {
	tm := TimeFromUnixMillisecond(1600000000123)
	got := MarshalLine("score", tm, []byte("42"), nil)
	assert.Equal(t, "--- 2 1600000000123 score\n42\n", string(got))

	// no padding when data ends with a newline
	got = MarshalLine("", tm, []byte("42\n"), nil)
	assert.Equal(t, "--- 3 1600000000123\n42\n", string(got))

	got = MarshalLine("empty", tm, nil, nil)
	assert.Equal(t, "--- 0 1600000000123 empty\n", string(got))
}

func TestRoundtrip(t *testing.T) {
	var wb bytes.Buffer
	tests := []struct {
		name string
		data string
	}{
		{"score", "42"},
		{"", "no name"},
		{"multi", "line1\nline2\n"},
		{"bin", "\x00\x01\xff"},
		{"empty", ""},
		{"name with spaces", "v"},
	}
	for _, test := range tests {
		now := time.Now()
		d := MarshalLine(test.name, now, []byte(test.data), &wb)
		f, err := UnmarshalLine(d)
		assert.NoError(t, err)
		assert.Equal(t, test.name, f.Name)
		assert.Equal(t, test.data, string(f.Data))
		assert.True(t, timeDiffLessThanMs(now, f.Timestamp), "time %s vs %s", now, f.Timestamp)
	}
}

func TestZeroTimeUsesNow(t *testing.T) {
	d := MarshalLine("x", time.Time{}, []byte("v"), nil)
	f, err := UnmarshalLine(d)
	assert.NoError(t, err)
	assert.True(t, time.Since(f.Timestamp) < time.Minute)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []string{
		"",
		"--- 2 1600000000123 score",
		"2 1600000000123 score\n42\n",
		"--- 2\n42\n",
		"--- x 1600000000123\n42\n",
		"--- -1 1600000000123\n",
		"--- 2 notatime\n42\n",
		"--- 2 1600000000123 score\n42",
		"--- 2 1600000000123 score\n42\nextra",
	}
	for _, test := range tests {
		_, err := UnmarshalLine([]byte(test))
		assert.Error(t, err, "input: %q", test)
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	d := MarshalLine("slot1", time.Now(), []byte("0123456789"), nil)
	_, err := UnmarshalLine(d[:len(d)-4])
	assert.True(t, errors.Is(err, ErrTruncated), "err: %v", err)
}
