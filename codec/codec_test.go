package codec

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var stamp = time.Date(2024, 3, 1, 9, 30, 0, 123_000_000, time.UTC)

const stampText = "2024-03-01T09:30:00.123Z"

func TestJSONRevivesDynamicSlots(t *testing.T) {
	var c JSON
	b := []byte(`{"at":"` + stampText + `","nested":{"at":"` + stampText + `"},"list":["x","` + stampText + `"]}`)

	var got map[string]any
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, stamp, got["at"])
	assert.Equal(t, map[string]any{"at": stamp}, got["nested"])
	assert.Equal(t, []any{"x", stamp}, got["list"])

	var anyDst any
	require.NoError(t, c.Unmarshal([]byte(`"`+stampText+`"`), &anyDst))
	assert.Equal(t, stamp, anyDst)
}

func TestJSONRevivesInsideTypedContainers(t *testing.T) {
	type row struct {
		Title string         `json:"title"`
		Meta  map[string]any `json:"meta"`
		Extra any            `json:"extra"`
	}
	b := []byte(`[{"title":"` + stampText + `","meta":{"seen":"` + stampText + `"},"extra":"` + stampText + `"}]`)

	var got []row
	require.NoError(t, JSON{}.Unmarshal(b, &got))
	require.Len(t, got, 1)
	assert.Equal(t, stampText, got[0].Title, "typed string field must stay a string")
	assert.Equal(t, stamp, got[0].Meta["seen"])
	assert.Equal(t, stamp, got[0].Extra)

	byKey := map[string]row{}
	require.NoError(t, JSON{}.Unmarshal([]byte(`{"p1":{"extra":"`+stampText+`"}}`), &byKey))
	assert.Equal(t, stamp, byKey["p1"].Extra)
}

func TestJSONLeavesNonDatesAlone(t *testing.T) {
	cases := []string{
		"2024-03-01",               // no time part
		"2024-03-01T09:30:00Z",     // no millis
		"2024-03-01T09:30:00.123",  // no zone
		"2024-13-45T09:30:00.000Z", // shaped like a date, but not one
		"hello",
	}
	for _, s := range cases {
		var got any
		require.NoError(t, JSON{}.Unmarshal([]byte(`"`+s+`"`), &got))
		assert.Equal(t, s, got, s)
	}
}

func TestJSONTimeFieldsRoundTrip(t *testing.T) {
	type poem struct {
		Published time.Time `json:"published"`
	}
	b, err := JSON{}.Marshal(poem{Published: stamp})
	require.NoError(t, err)

	var got poem
	require.NoError(t, JSON{}.Unmarshal(b, &got))
	assert.True(t, stamp.Equal(got.Published))
}

func TestJSONRevivalOptions(t *testing.T) {
	b := []byte(`{"at":"` + stampText + `","day":"2024-03-01"}`)

	var off map[string]any
	require.NoError(t, JSON{DisableRevival: true}.Unmarshal(b, &off))
	assert.Equal(t, stampText, off["at"])

	var custom map[string]any
	day := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	err := JSON{Pattern: day}.Unmarshal(b, &custom)
	require.NoError(t, err)
	// matches the pattern but RFC3339 parsing rejects a bare day
	assert.Equal(t, "2024-03-01", custom["day"])
	assert.Equal(t, stampText, custom["at"])
}

func TestJSONInvalidPayload(t *testing.T) {
	var got map[string]any
	assert.Error(t, JSON{}.Unmarshal([]byte("not-json"), &got))
}

func TestMsgpackRoundTrip(t *testing.T) {
	type poem struct {
		ID        string    `msgpack:"id"`
		Published time.Time `msgpack:"published"`
		Likes     int       `msgpack:"likes"`
	}
	var c Msgpack
	assert.Equal(t, "msgpack", c.Name())

	in := poem{ID: "p1", Published: stamp, Likes: 3}
	b, err := c.Marshal(in)
	require.NoError(t, err)

	var out poem
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Likes, out.Likes)
	assert.True(t, in.Published.Equal(out.Published))
}

func TestCBORRoundTrip(t *testing.T) {
	type poem struct {
		ID        string    `cbor:"id"`
		Published time.Time `cbor:"published"`
	}
	for _, det := range []bool{false, true} {
		c := MustCBOR(det)
		assert.Equal(t, "cbor", c.Name())

		in := poem{ID: "p1", Published: stamp}
		b, err := c.Marshal(in)
		require.NoError(t, err)

		var out poem
		require.NoError(t, c.Unmarshal(b, &out))
		assert.Equal(t, in.ID, out.ID)
		assert.True(t, in.Published.Equal(out.Published))

		var loose any
		require.NoError(t, c.Unmarshal(b, &loose))
		m, ok := loose.(map[string]any)
		require.True(t, ok, "got %T", loose)
		assert.Equal(t, "p1", m["id"])
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR(true)
	in := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := c.Marshal(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProtobuf(t *testing.T) {
	var c Protobuf
	b, err := c.Marshal(wrapperspb.String("p1"))
	require.NoError(t, err)

	out := &wrapperspb.StringValue{}
	require.NoError(t, c.Unmarshal(b, out))
	assert.Equal(t, "p1", out.GetValue())

	_, err = c.Marshal("plain string")
	assert.Error(t, err)
	var s string
	assert.Error(t, c.Unmarshal(b, &s))
}

func TestLimit(t *testing.T) {
	c := Limit{Inner: JSON{}, MaxDecode: 8}
	assert.Equal(t, "json", c.Name())

	var small int
	require.NoError(t, c.Unmarshal([]byte("42"), &small))
	assert.Equal(t, 42, small)

	var big string
	err := c.Unmarshal([]byte(`"way past eight bytes"`), &big)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload too large")

	unlimited := Limit{Inner: JSON{}}
	require.NoError(t, unlimited.Unmarshal([]byte(`"way past eight bytes"`), &big))
}

func TestJSONUntypedTimeNeedsISOLayout(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 120_456_789, time.UTC)

	b, err := JSON{}.Marshal(map[string]any{"raw": at, "formatted": at.Format(ISOLayout)})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, JSON{}.Unmarshal(b, &got))
	assert.IsType(t, "", got["raw"], "nanosecond form does not match ISODatePattern")
	assert.Equal(t, at.Truncate(time.Millisecond), got["formatted"])
}
