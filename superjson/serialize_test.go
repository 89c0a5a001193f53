package superjson

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// stringifyOK serializes a value, failing the test on error.
func stringifyOK(t *testing.T, v *Value) string {
	t.Helper()
	s, err := Stringify(v)
	require.NoError(t, err)
	return s
}

func TestSerializePlainValues(t *testing.T) {
	// Plain JSON values produce no meta at all.
	cases := []struct {
		name  string
		value *Value
		want  string
	}{
		{"null", Null(), `{"json":null}`},
		{"bool", Bool(true), `{"json":true}`},
		{"number", Number(42), `{"json":42}`},
		{"float", Number(42.5), `{"json":42.5}`},
		{"string", Str("hello"), `{"json":"hello"}`},
		{"array", Array(Number(1), Str("two"), Bool(true), Null()), `{"json":[1,"two",true,null]}`},
		{
			"object",
			Object(Field("name", Str("Alice")), Field("age", Number(30))),
			`{"json":{"name":"Alice","age":30}}`,
		},
		{"empty array", Array(), `{"json":[]}`},
		{"empty object", Object(), `{"json":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, stringifyOK(t, tc.value))
		})
	}
}

func TestSerializeSpecialScalars(t *testing.T) {
	cases := []struct {
		name  string
		value *Value
		want  string
	}{
		{"undefined root omits json", Undefined(), `{"meta":{"values":["undefined"],"v":1}}`},
		{"date", DateFromMillis(0), `{"json":"1970-01-01T00:00:00.000Z","meta":{"values":["Date"],"v":1}}`},
		{"bigint", BigInt(big.NewInt(42)), `{"json":"42","meta":{"values":["bigint"],"v":1}}`},
		{"nan", NaN(), `{"json":"NaN","meta":{"values":["number"],"v":1}}`},
		{"infinity", PosInfinity(), `{"json":"Infinity","meta":{"values":["number"],"v":1}}`},
		{"neg infinity", NegInfinity(), `{"json":"-Infinity","meta":{"values":["number"],"v":1}}`},
		{"neg zero", NegZero(), `{"json":"-0","meta":{"values":["number"],"v":1}}`},
		{"regexp", RegExp(`\d+`, "gi"), `{"json":"/\\d+/gi","meta":{"values":["regexp"],"v":1}}`},
		{"url", URL("https://example.com/"), `{"json":"https://example.com/","meta":{"values":["URL"],"v":1}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, stringifyOK(t, tc.value))
		})
	}
}

func TestSerializeSet(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		got := stringifyOK(t, Set(Number(1), Number(2)))
		require.Equal(t, `{"json":[1,2],"meta":{"values":["set"],"v":1}}`, got)
	})

	t.Run("with annotated element", func(t *testing.T) {
		got := stringifyOK(t, Set(Number(1), Undefined(), Number(2)))
		require.Equal(t, `{"json":[1,null,2],"meta":{"values":["set",{"1":["undefined"]}],"v":1}}`, got)
	})

	t.Run("inside object", func(t *testing.T) {
		got := stringifyOK(t, Object(Field("a", Set(Number(1), Undefined(), Number(2)))))
		require.Equal(t, `{"json":{"a":[1,null,2]},"meta":{"values":{"a":["set",{"1":["undefined"]}]},"v":1}}`, got)
	})
}

func TestSerializeMap(t *testing.T) {
	t.Run("string key", func(t *testing.T) {
		got := stringifyOK(t, Map(Entry(Str("key"), Number(1))))
		require.Equal(t, `{"json":[["key",1]],"meta":{"values":["map"],"v":1}}`, got)
	})

	t.Run("nan key", func(t *testing.T) {
		got := stringifyOK(t, Object(Field("a", Map(Entry(NaN(), Null())))))
		require.Equal(t, `{"json":{"a":[["NaN",null]]},"meta":{"values":{"a":["map",{"0.0":["number"]}]},"v":1}}`, got)
	})

	t.Run("annotated value position", func(t *testing.T) {
		got := stringifyOK(t, Map(Entry(Str("when"), DateFromMillis(0))))
		require.Equal(t, `{"json":[["when","1970-01-01T00:00:00.000Z"]],"meta":{"values":["map",{"0.1":["Date"]}],"v":1}}`, got)
	})

	t.Run("duplicate keys preserved", func(t *testing.T) {
		got := stringifyOK(t, Map(Entry(Str("k"), Number(1)), Entry(Str("k"), Number(2))))
		require.Equal(t, `{"json":[["k",1],["k",2]],"meta":{"values":["map"],"v":1}}`, got)
	})
}

func TestSerializeError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		got := stringifyOK(t, Error("TypeError", "oops"))
		require.Equal(t, `{"json":{"name":"TypeError","message":"oops"},"meta":{"values":["Error"],"v":1}}`, got)
	})

	t.Run("with error cause", func(t *testing.T) {
		got := stringifyOK(t, ErrorWithCause("E", "outer", Error("F", "inner")))
		require.Equal(t,
			`{"json":{"name":"E","message":"outer","cause":{"name":"F","message":"inner"}},"meta":{"values":["Error",{"cause":["Error"]}],"v":1}}`,
			got)
	})

	t.Run("with annotated value inside plain cause", func(t *testing.T) {
		got := stringifyOK(t, ErrorWithCause("E", "m", Object(Field("at", DateFromMillis(0)))))
		require.Equal(t,
			`{"json":{"name":"E","message":"m","cause":{"at":"1970-01-01T00:00:00.000Z"}},"meta":{"values":["Error",{"cause.at":["Date"]}],"v":1}}`,
			got)
	})

	t.Run("plain json cause needs no inner annotation", func(t *testing.T) {
		got := stringifyOK(t, ErrorWithCause("E", "m", Str("because")))
		require.Equal(t,
			`{"json":{"name":"E","message":"m","cause":"because"},"meta":{"values":["Error"],"v":1}}`,
			got)
	})
}

func TestSerializeNestedPaths(t *testing.T) {
	t.Run("object in object flattens with dots", func(t *testing.T) {
		got := stringifyOK(t, Object(
			Field("meeting", Object(Field("date", DateFromMillis(0)))),
		))
		require.Equal(t,
			`{"json":{"meeting":{"date":"1970-01-01T00:00:00.000Z"}},"meta":{"values":{"meeting.date":["Date"]},"v":1}}`,
			got)
	})

	t.Run("array with mixed types", func(t *testing.T) {
		got := stringifyOK(t, Array(Number(1), DateFromMillis(0), BigInt(big.NewInt(999))))
		require.Equal(t,
			`{"json":[1,"1970-01-01T00:00:00.000Z","999"],"meta":{"values":{"1":["Date"],"2":["bigint"]},"v":1}}`,
			got)
	})

	t.Run("dotted object key is escaped", func(t *testing.T) {
		got := stringifyOK(t, Object(Field("a.b", DateFromMillis(0))))
		require.Equal(t,
			`{"json":{"a.b":"1970-01-01T00:00:00.000Z"},"meta":{"values":{"a\\.b":["Date"]},"v":1}}`,
			got)
	})

	t.Run("sibling order follows insertion", func(t *testing.T) {
		got := stringifyOK(t, Object(
			Field("a", PosInfinity()),
			Field("b", NegInfinity()),
			Field("c", NaN()),
		))
		require.Equal(t,
			`{"json":{"a":"Infinity","b":"-Infinity","c":"NaN"},"meta":{"values":{"a":["number"],"b":["number"],"c":["number"]},"v":1}}`,
			got)
	})
}

func TestSerializeTooDeep(t *testing.T) {
	v := Str("leaf")
	for i := 0; i < maxDepth+10; i++ {
		v = Array(v)
	}
	_, err := Serialize(v)
	require.ErrorIs(t, err, ErrTooDeep)
}
