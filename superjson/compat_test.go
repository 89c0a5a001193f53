package superjson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWireCompatibility pins the exact bytes the JavaScript superjson
// library produces for each fixture and checks both directions: Stringify
// must emit the fixture byte-for-byte, and Parse of the fixture must yield
// the original value.
func TestWireCompatibility(t *testing.T) {
	cases := []struct {
		name  string
		value *Value
		wire  string
	}{
		{
			// SuperJSON.serialize({ date: new Date(0) })
			"object with date",
			Object(Field("date", DateFromMillis(0))),
			`{"json":{"date":"1970-01-01T00:00:00.000Z"},"meta":{"values":{"date":["Date"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ a: new Set([1, undefined, 2]) })
			"set with undefined",
			Object(Field("a", Set(Number(1), Undefined(), Number(2)))),
			`{"json":{"a":[1,null,2]},"meta":{"values":{"a":["set",{"1":["undefined"]}]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ a: new Map([[NaN, null]]) })
			"map with NaN key",
			Object(Field("a", Map(Entry(NaN(), Null())))),
			`{"json":{"a":[["NaN",null]]},"meta":{"values":{"a":["map",{"0.0":["number"]}]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ meeting: { date: new Date(0) } })
			"nested object date",
			Object(Field("meeting", Object(Field("date", DateFromMillis(0))))),
			`{"json":{"meeting":{"date":"1970-01-01T00:00:00.000Z"}},"meta":{"values":{"meeting.date":["Date"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize(new Set([1, 2]))
			"top-level set",
			Set(Number(1), Number(2)),
			`{"json":[1,2],"meta":{"values":["set"],"v":1}}`,
		},
		{
			// SuperJSON.serialize(new Date(0))
			"top-level date",
			DateFromMillis(0),
			`{"json":"1970-01-01T00:00:00.000Z","meta":{"values":["Date"],"v":1}}`,
		},
		{
			// SuperJSON.serialize(undefined): JSON.stringify drops the json key.
			"top-level undefined",
			Undefined(),
			`{"meta":{"values":["undefined"],"v":1}}`,
		},
		{
			// SuperJSON.serialize({ a: BigInt("1021312312412312312313") })
			"bigint beyond float precision",
			Object(Field("a", mustBig("1021312312412312312313"))),
			`{"json":{"a":"1021312312412312312313"},"meta":{"values":{"a":["bigint"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ a: /hello/g })
			"regexp",
			Object(Field("a", RegExp("hello", "g"))),
			`{"json":{"a":"/hello/g"},"meta":{"values":{"a":["regexp"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ a: Infinity, b: -Infinity, c: NaN })
			"special numbers",
			Object(Field("a", PosInfinity()), Field("b", NegInfinity()), Field("c", NaN())),
			`{"json":{"a":"Infinity","b":"-Infinity","c":"NaN"},"meta":{"values":{"a":["number"],"b":["number"],"c":["number"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize(-0)
			"negative zero",
			NegZero(),
			`{"json":"-0","meta":{"values":["number"],"v":1}}`,
		},
		{
			// SuperJSON.serialize({ name: "Alice", age: 30 }): no meta at all.
			"plain json",
			Object(Field("name", Str("Alice")), Field("age", Number(30))),
			`{"json":{"name":"Alice","age":30}}`,
		},
		{
			// SuperJSON.serialize({ link: new URL("https://example.com/") })
			"url",
			Object(Field("link", URL("https://example.com/"))),
			`{"json":{"link":"https://example.com/"},"meta":{"values":{"link":["URL"]},"v":1}}`,
		},
		{
			// SuperJSON.serialize({ e: new Error("boom") }) with name/message
			"error",
			Object(Field("e", Error("Error", "boom"))),
			`{"json":{"e":{"name":"Error","message":"boom"}},"meta":{"values":{"e":["Error"]},"v":1}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Stringify(tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.wire, got, "serialize direction")

			parsed, err := Parse(tc.wire)
			require.NoError(t, err)
			require.True(t, Equal(tc.value, parsed), "deserialize direction\n  want %s\n  got  %s", tc.value, parsed)
		})
	}
}

// TestWireStability re-serializes a parsed envelope and requires identical
// bytes, the determinism the format relies on for caching and diffing.
func TestWireStability(t *testing.T) {
	wires := []string{
		`{"json":{"date":"1970-01-01T00:00:00.000Z","count":"42"},"meta":{"values":{"date":["Date"],"count":["bigint"]},"v":1}}`,
		`{"json":[["k",1],["k",2]],"meta":{"values":["map"],"v":1}}`,
		`{"json":{"a":[1,null,2]},"meta":{"values":{"a":["set",{"1":["undefined"]}]},"v":1}}`,
	}
	for _, wire := range wires {
		v, err := Parse(wire)
		require.NoError(t, err)
		again, err := Stringify(v)
		require.NoError(t, err)
		require.Equal(t, wire, again)
	}
}

func TestStringEscapingMatchesJS(t *testing.T) {
	// JSON.stringify leaves '<', '>' and '&' unescaped.
	got, err := Stringify(Str(`<a href="?x=1&y=2">`))
	require.NoError(t, err)
	require.Equal(t, `{"json":"<a href=\"?x=1&y=2\">"}`, got)
}

func TestStringInvalidUTF8Substituted(t *testing.T) {
	// Bytes that are not valid UTF-8 become U+FFFD; the output must still be
	// valid JSON and survive a re-parse.
	got, err := Stringify(Str("a\xffb\x80"))
	require.NoError(t, err)
	require.Equal(t, "{\"json\":\"a�b�\"}", got)

	parsed, err := Parse(got)
	require.NoError(t, err)
	s, err := parsed.AsStr()
	require.NoError(t, err)
	require.Equal(t, "a�b�", s)
}

func TestNumberFormattingMatchesJS(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{30, "30"},
		{42.5, "42.5"},
		{-0.25, "-0.25"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, formatNumber(tc.in), "formatNumber(%v)", tc.in)
	}
}

func TestBigIntPrecisionExact(t *testing.T) {
	// Values beyond float64 precision must survive exactly.
	src := "123456789012345678901234567890123456789"
	v := parseOK(t, `{"json":"`+src+`","meta":{"values":["bigint"],"v":1}}`)
	n, err := v.AsBigInt()
	require.NoError(t, err)
	require.Equal(t, src, n.String())
	require.True(t, Equal(v, mustBig(src)))
}
