package superjson

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// ============================================================
// Generic JSON Tree
// ============================================================
//
// The plain half of the envelope is ordinary JSON, but Go maps lose key
// order and the wire format is order-sensitive (both json and meta.values
// must come back byte-for-byte). This is the generic JSON collaborator:
// an ordered tree decoded from and encoded to text, with no superjson
// semantics of its own.

type jsonKind uint8

const (
	jsonNull jsonKind = iota
	jsonBool
	jsonNumber
	jsonString
	jsonArray
	jsonObject
)

func (k jsonKind) String() string {
	switch k {
	case jsonNull:
		return "null"
	case jsonBool:
		return "bool"
	case jsonNumber:
		return "number"
	case jsonString:
		return "string"
	case jsonArray:
		return "array"
	case jsonObject:
		return "object"
	default:
		return "unknown"
	}
}

type jsonValue struct {
	kind    jsonKind
	boolVal bool
	numVal  float64
	strVal  string
	arrVal  []*jsonValue
	objVal  []jsonField
}

type jsonField struct {
	key   string
	value *jsonValue
}

func jNull() *jsonValue { return &jsonValue{kind: jsonNull} }

func jBool(v bool) *jsonValue { return &jsonValue{kind: jsonBool, boolVal: v} }

func jNumber(v float64) *jsonValue { return &jsonValue{kind: jsonNumber, numVal: v} }

func jString(v string) *jsonValue { return &jsonValue{kind: jsonString, strVal: v} }

func jArray(items ...*jsonValue) *jsonValue { return &jsonValue{kind: jsonArray, arrVal: items} }

func jObject(fields ...jsonField) *jsonValue { return &jsonValue{kind: jsonObject, objVal: fields} }

// field returns the value for a key, or nil if absent.
func (j *jsonValue) field(key string) *jsonValue {
	if j == nil || j.kind != jsonObject {
		return nil
	}
	for _, f := range j.objVal {
		if f.key == key {
			return f.value
		}
	}
	return nil
}

// ============================================================
// Decoding (text → tree)
// ============================================================

// decodeJSON parses JSON text into an ordered tree. Trailing non-whitespace
// after the top-level value is an error.
func decodeJSON(data []byte) (*jsonValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (*jsonValue, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	switch t := tok.(type) {
	case nil:
		return jNull(), nil

	case bool:
		return jBool(t), nil

	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("JSON number %q: %w", t.String(), err)
		}
		return jNumber(f), nil

	case string:
		return jString(t), nil

	case json.Delim:
		switch t {
		case '[':
			var items []*jsonValue
			for dec.More() {
				item, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("JSON parse error: %w", err)
			}
			return jArray(items...), nil

		case '{':
			var fields []jsonField
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("JSON parse error: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("JSON object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				// Duplicate keys: last one wins, matching JSON.parse.
				replaced := false
				for i := range fields {
					if fields[i].key == key {
						fields[i].value = val
						replaced = true
						break
					}
				}
				if !replaced {
					fields = append(fields, jsonField{key: key, value: val})
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("JSON parse error: %w", err)
			}
			return jObject(fields...), nil
		}
		return nil, fmt.Errorf("unexpected JSON delimiter %q", t)

	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

// ============================================================
// Encoding (tree → text)
// ============================================================

// encodeJSON renders the tree as compact JSON, preserving field order.
// Output matches JSON.stringify: no HTML escaping, integral numbers below
// 1e21 without an exponent.
func encodeJSON(v *jsonValue) string {
	var e jsonEmitter
	e.emit(v)
	return e.sb.String()
}

type jsonEmitter struct {
	sb strings.Builder
}

func (e *jsonEmitter) emit(v *jsonValue) {
	if v == nil {
		e.sb.WriteString("null")
		return
	}
	switch v.kind {
	case jsonNull:
		e.sb.WriteString("null")

	case jsonBool:
		if v.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}

	case jsonNumber:
		e.sb.WriteString(formatNumber(v.numVal))

	case jsonString:
		e.writeString(v.strVal)

	case jsonArray:
		e.sb.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.emit(item)
		}
		e.sb.WriteByte(']')

	case jsonObject:
		e.sb.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.writeString(f.key)
			e.sb.WriteByte(':')
			e.emit(f.value)
		}
		e.sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// writeString writes a JSON string literal. Unlike encoding/json's default,
// '<', '>' and '&' are left raw, matching JSON.stringify output. Bytes that
// are not valid UTF-8 become U+FFFD so the output is always valid JSON, the
// same substitution a JS string would have undergone on the way in.
func (e *jsonEmitter) writeString(s string) {
	e.sb.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			if c < utf8.RuneSelf {
				i++
				continue
			}
			r, size := utf8.DecodeRuneInString(s[i:])
			if r != utf8.RuneError || size != 1 {
				i += size
				continue
			}
			e.sb.WriteString(s[start:i])
			e.sb.WriteRune(utf8.RuneError)
			i++
			start = i
			continue
		}
		e.sb.WriteString(s[start:i])
		switch c {
		case '"':
			e.sb.WriteString(`\"`)
		case '\\':
			e.sb.WriteString(`\\`)
		case '\b':
			e.sb.WriteString(`\b`)
		case '\f':
			e.sb.WriteString(`\f`)
		case '\n':
			e.sb.WriteString(`\n`)
		case '\r':
			e.sb.WriteString(`\r`)
		case '\t':
			e.sb.WriteString(`\t`)
		default:
			e.sb.WriteString(`\u00`)
			e.sb.WriteByte(hexDigits[c>>4])
			e.sb.WriteByte(hexDigits[c&0xf])
		}
		i++
		start = i
	}
	e.sb.WriteString(s[start:])
	e.sb.WriteByte('"')
}

// formatNumber renders a finite float the way JS Number-to-string does:
// integral values below 1e21 in plain decimal, tiny and huge magnitudes in
// exponent form without zero-padded exponents.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return trimExponent(s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent strips zero padding from an exponent: "1.5e-07" → "1.5e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return s
	}
	mantissa, exp := s[:i], s[i+1:]
	sign := ""
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		if exp[0] == '-' {
			sign = "-"
		} else {
			sign = "+"
		}
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}
