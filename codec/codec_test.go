package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

type saveGame struct {
	Level  int      `json:"level" yaml:"level"`
	Player string   `json:"player" yaml:"player"`
	Items  []string `json:"items" yaml:"items"`
}

var testGame = saveGame{
	Level:  7,
	Player: "Bl4ck",
	Items:  []string{"sword", "shield"},
}

func testRoundtrip[T any](t *testing.T, c Codec[T], v T) []byte {
	t.Helper()
	d, err := c.Encode(v)
	assert.NoError(t, err)
	got, err := c.Decode(d)
	assert.NoError(t, err)
	assert.Equal(t, v, got)
	return d
}

func TestJSON(t *testing.T) {
	testRoundtrip[int](t, JSON[int]{}, 42)
	testRoundtrip[string](t, JSON[string]{}, "hello\nworld")
	d := testRoundtrip[saveGame](t, JSON[saveGame]{}, testGame)
	assert.Equal(t, `{"level":7,"player":"Bl4ck","items":["sword","shield"]}`, string(d))

	d = testRoundtrip[saveGame](t, JSON[saveGame]{Indent: true}, testGame)
	assert.True(t, strings.Contains(string(d), "\n  \"level\": 7,\n"), "got: %s", string(d))
	testRoundtrip[map[string]int](t, JSON[map[string]int]{Indent: true}, map[string]int{"a": 1, "b": 2})
}

func TestJSONCorrupt(t *testing.T) {
	c := JSON[saveGame]{}
	tests := []string{
		"",
		`{"level":7,"player":"Bl4`,
		`{"level":"seven"}`,
		`{"level":7} {"level":8}`,
		"\x00\x01garbage",
	}
	for _, test := range tests {
		_, err := c.Decode([]byte(test))
		assert.Error(t, err, "input: %q", test)
	}

	_, err := JSON[saveGame]{}.Decode([]byte(`{"level":1,"extra":2}`))
	assert.NoError(t, err)
	_, err = JSON[saveGame]{Strict: true}.Decode([]byte(`{"level":1,"extra":2}`))
	assert.Error(t, err)
}

func TestYAML(t *testing.T) {
	testRoundtrip[int](t, YAML[int]{}, 42)
	d := testRoundtrip[saveGame](t, YAML[saveGame]{}, testGame)
	assert.True(t, strings.Contains(string(d), "player: Bl4ck\n"), "got: %s", string(d))

	_, err := YAML[int]{}.Decode([]byte("not a number"))
	assert.Error(t, err)
}

func TestToon(t *testing.T) {
	c := Toon[map[string]any]{}
	d, err := c.Encode(map[string]any{"player": "Bl4ck"})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(d), "Bl4ck"), "got: %s", string(d))
	got, err := c.Decode(d)
	assert.NoError(t, err)
	assert.Equal(t, "Bl4ck", got["player"])
}

func TestBytesAndString(t *testing.T) {
	raw := []byte{0, 1, 2, 0xff}
	testRoundtrip[[]byte](t, Bytes{}, raw)
	testRoundtrip[string](t, String{}, "plain text")

	// decoded value doesn't alias the input
	got, err := Bytes{}.Decode(raw)
	assert.NoError(t, err)
	got[0] = 9
	assert.Equal(t, byte(0), raw[0])
}

func TestFunc(t *testing.T) {
	c := Func[int]{
		EncodeFn: func(v int) ([]byte, error) {
			return []byte{byte(v)}, nil
		},
		DecodeFn: func(d []byte) (int, error) {
			if len(d) != 1 {
				return 0, errors.New("bad length")
			}
			return int(d[0]), nil
		},
	}
	testRoundtrip[int](t, c, 99)
	_, err := c.Decode(nil)
	assert.Error(t, err)
}

func TestCompressed(t *testing.T) {
	for _, comp := range []Compression{Gzip, Brotli, Zstd} {
		t.Run(comp.String(), func(t *testing.T) {
			c := Compressed[saveGame]{Inner: JSON[saveGame]{}, Compression: comp}
			testRoundtrip[saveGame](t, c, testGame)

			parsed, err := ParseCompression(comp.String())
			assert.NoError(t, err)
			assert.Equal(t, comp, parsed)
		})
	}

	for _, comp := range []Compression{Gzip, Zstd} {
		c := Compressed[saveGame]{Inner: JSON[saveGame]{}, Compression: comp}
		_, err := c.Decode([]byte("definitely not compressed"))
		assert.Error(t, err, "%s", comp)

		d, err := c.Encode(testGame)
		assert.NoError(t, err)
		_, err = c.Decode(d[:len(d)/2])
		assert.Error(t, err, "%s truncated", comp)
	}

	_, err := ParseCompression("lz4")
	assert.Error(t, err)
	assert.Equal(t, "Compression(9)", Compression(9).String())
}

func TestFramed(t *testing.T) {
	tm := time.UnixMilli(1600000000123)
	c := Framed[int]{Inner: JSON[int]{}, Kind: "score", Now: func() time.Time { return tm }}
	d := testRoundtrip[int](t, c, 42)
	assert.Equal(t, "--- 2 1600000000123 score\n42\n", string(d))

	savedAt, err := SavedAt(d)
	assert.NoError(t, err)
	assert.True(t, tm.Equal(savedAt), "got %s", savedAt)

	other := Framed[int]{Inner: JSON[int]{}, Kind: "health"}
	_, err = other.Decode(d)
	assert.True(t, errors.Is(err, ErrWrongKind), "err: %v", err)

	// no Kind accepts any frame
	anyKind := Framed[int]{Inner: JSON[int]{}}
	v, err := anyKind.Decode(d)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = c.Decode(d[:len(d)-2])
	assert.Error(t, err)
	_, err = c.Decode([]byte("42"))
	assert.Error(t, err)

	for _, kind := range []string{"a\nb", "score\n", "a\r"} {
		bad := Framed[int]{Inner: JSON[int]{}, Kind: kind}
		_, err = bad.Encode(1)
		assert.Error(t, err, "%q", kind)
	}

	// frames nest with compression
	cz := Framed[saveGame]{Inner: Compressed[saveGame]{Inner: YAML[saveGame]{}, Compression: Zstd}, Kind: "game"}
	testRoundtrip[saveGame](t, cz, testGame)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "json-indent", "yaml", "YAML", "json+zstd", "yaml+gzip", " json+br "} {
		c, err := ByName[saveGame](name)
		assert.NoError(t, err, "%s", name)
		testRoundtrip[saveGame](t, c, testGame)
	}

	c, err := ByName[saveGame]("json+zstd")
	assert.NoError(t, err)
	_, ok := c.(Compressed[saveGame])
	assert.True(t, ok)

	_, err = ByName[int]("gob")
	assert.Error(t, err)
	_, err = ByName[int]("json+lz4")
	assert.Error(t, err)
}
