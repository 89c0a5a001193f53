package superjson

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindDate
	KindBigInt
	KindSet
	KindMap
	KindNaN
	KindPosInfinity
	KindNegInfinity
	KindNegZero
	KindRegExp
	KindURL
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDate:
		return "Date"
	case KindBigInt:
		return "bigint"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindNaN:
		return "NaN"
	case KindPosInfinity:
		return "Infinity"
	case KindNegInfinity:
		return "-Infinity"
	case KindNegZero:
		return "-0"
	case KindRegExp:
		return "RegExp"
	case KindURL:
		return "URL"
	case KindError:
		return "Error"
	default:
		return "unknown"
	}
}

// Value represents one node of a superjson value tree. Exactly one variant
// is active, selected by the kind tag. Trees are finite and acyclic; each
// composite node exclusively owns its children.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal bool
	numVal  float64
	strVal  string // String, URL
	timeVal time.Time
	bigVal  *big.Int

	// Container values
	listVal []*Value      // Array, Set
	objVal  []ObjectEntry // Object
	mapVal  []MapEntry    // Map

	// Structured specials
	regexpVal *RegExpValue
	errVal    *ErrorValue
}

// ObjectEntry is one key-value pair of an Object. Keys are unique within an
// Object and insertion order is preserved.
type ObjectEntry struct {
	Key   string
	Value *Value
}

// MapEntry is one entry of a Map. Keys may be any Value; duplicate keys are
// preserved as given.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// RegExpValue holds a regular expression's source and flags.
type RegExpValue struct {
	Source string
	Flags  string
}

// ErrorValue holds an Error's name, message, and optional cause. The cause
// is a full sub-tree exclusively owned by this node.
type ErrorValue struct {
	Name    string
	Message string
	Cause   *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Undefined creates an undefined value.
func Undefined() *Value {
	return &Value{kind: KindUndefined}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Number creates a numeric value. The four bit patterns plain JSON cannot
// carry (NaN, ±Infinity, negative zero) are normalized into their dedicated
// variants, so a KindNumber value is always a plain finite number.
func Number(v float64) *Value {
	switch {
	case math.IsNaN(v):
		return NaN()
	case math.IsInf(v, 1):
		return PosInfinity()
	case math.IsInf(v, -1):
		return NegInfinity()
	case v == 0 && math.Signbit(v):
		return NegZero()
	}
	return &Value{kind: KindNumber, numVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, listVal: items}
}

// Object creates an object value from key-value entries.
func Object(entries ...ObjectEntry) *Value {
	return &Value{kind: KindObject, objVal: entries}
}

// Field creates an ObjectEntry for use in Object construction.
func Field(key string, value *Value) ObjectEntry {
	return ObjectEntry{Key: key, Value: value}
}

// Date creates a Date value. The instant is truncated to millisecond
// precision, the format's resolution.
func Date(t time.Time) *Value {
	return &Value{kind: KindDate, timeVal: t.UTC().Truncate(time.Millisecond)}
}

// DateFromMillis builds a Date value from a Unix-epoch millisecond count,
// mirroring how JS callers construct Dates.
func DateFromMillis(ms int64) *Value {
	return Date(time.UnixMilli(ms))
}

// BigInt creates an arbitrary-precision integer value.
func BigInt(n *big.Int) *Value {
	return &Value{kind: KindBigInt, bigVal: new(big.Int).Set(n)}
}

// Set creates a Set value. Insertion order is preserved.
func Set(items ...*Value) *Value {
	return &Value{kind: KindSet, listVal: items}
}

// Map creates a Map value from entries. Keys may be any Value.
func Map(entries ...MapEntry) *Value {
	return &Value{kind: KindMap, mapVal: entries}
}

// Entry creates a MapEntry for use in Map construction.
func Entry(key, value *Value) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// NaN creates the NaN value.
func NaN() *Value {
	return &Value{kind: KindNaN}
}

// PosInfinity creates the +Infinity value.
func PosInfinity() *Value {
	return &Value{kind: KindPosInfinity}
}

// NegInfinity creates the -Infinity value.
func NegInfinity() *Value {
	return &Value{kind: KindNegInfinity}
}

// NegZero creates the negative-zero value.
func NegZero() *Value {
	return &Value{kind: KindNegZero}
}

// RegExp creates a regular expression value.
func RegExp(source, flags string) *Value {
	return &Value{kind: KindRegExp, regexpVal: &RegExpValue{Source: source, Flags: flags}}
}

// URL creates a URL value holding the canonical string form.
func URL(s string) *Value {
	return &Value{kind: KindURL, strVal: s}
}

// Error creates an Error value without a cause.
func Error(name, message string) *Value {
	return &Value{kind: KindError, errVal: &ErrorValue{Name: name, Message: message}}
}

// ErrorWithCause creates an Error value with a cause sub-tree.
func ErrorWithCause(name, message string, cause *Value) *Value {
	return &Value{kind: KindError, errVal: &ErrorValue{Name: name, Message: message, Cause: cause}}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// IsUndefined returns true if this is an undefined value.
func (v *Value) IsUndefined() bool {
	return v != nil && v.kind == KindUndefined
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("superjson: expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsNumber returns the plain numeric value. The special numeric variants
// are not numbers at this layer; use Kind to detect them.
func (v *Value) AsNumber() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindNumber {
		return 0, fmt.Errorf("superjson: expected number, got %s", v.kind)
	}
	return v.numVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindString {
		return "", fmt.Errorf("superjson: expected string, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindArray {
		return nil, fmt.Errorf("superjson: expected array, got %s", v.kind)
	}
	return v.listVal, nil
}

// AsObject returns the object entries in insertion order.
func (v *Value) AsObject() ([]ObjectEntry, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindObject {
		return nil, fmt.Errorf("superjson: expected object, got %s", v.kind)
	}
	return v.objVal, nil
}

// AsDate returns the Date instant (UTC, millisecond precision).
func (v *Value) AsDate() (time.Time, error) {
	if v == nil {
		return time.Time{}, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindDate {
		return time.Time{}, fmt.Errorf("superjson: expected Date, got %s", v.kind)
	}
	return v.timeVal, nil
}

// AsBigInt returns the arbitrary-precision integer value.
func (v *Value) AsBigInt() (*big.Int, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindBigInt {
		return nil, fmt.Errorf("superjson: expected bigint, got %s", v.kind)
	}
	return v.bigVal, nil
}

// AsSet returns the Set elements in insertion order.
func (v *Value) AsSet() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindSet {
		return nil, fmt.Errorf("superjson: expected Set, got %s", v.kind)
	}
	return v.listVal, nil
}

// AsMap returns the Map entries in insertion order.
func (v *Value) AsMap() ([]MapEntry, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindMap {
		return nil, fmt.Errorf("superjson: expected Map, got %s", v.kind)
	}
	return v.mapVal, nil
}

// AsRegExp returns the regular expression value.
func (v *Value) AsRegExp() (*RegExpValue, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindRegExp {
		return nil, fmt.Errorf("superjson: expected RegExp, got %s", v.kind)
	}
	return v.regexpVal, nil
}

// AsURL returns the URL string.
func (v *Value) AsURL() (string, error) {
	if v == nil {
		return "", fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindURL {
		return "", fmt.Errorf("superjson: expected URL, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsError returns the Error value.
func (v *Value) AsError() (*ErrorValue, error) {
	if v == nil {
		return nil, fmt.Errorf("superjson: nil value")
	}
	if v.kind != KindError {
		return nil, fmt.Errorf("superjson: expected Error, got %s", v.kind)
	}
	return v.errVal, nil
}

// Len returns the length of an array, object, Set, or Map.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray, KindSet:
		return len(v.listVal)
	case KindObject:
		return len(v.objVal)
	case KindMap:
		return len(v.mapVal)
	default:
		return 0
	}
}

// Get returns an object field value by key, or nil if absent.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	for _, e := range v.objVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of an array or Set.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || (v.kind != KindArray && v.kind != KindSet) {
		return nil, fmt.Errorf("superjson: not an array or Set")
	}
	if i < 0 || i >= len(v.listVal) {
		return nil, fmt.Errorf("superjson: index %d out of bounds (len=%d)", i, len(v.listVal))
	}
	return v.listVal[i], nil
}

// ============================================================
// Equality
// ============================================================

// Equal reports structural equality of two value trees. Dates compare by
// instant, BigInts by numeric value, containers element-wise in order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a.Kind() == b.Kind()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull, KindUndefined, KindNaN, KindPosInfinity, KindNegInfinity, KindNegZero:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString, KindURL:
		return a.strVal == b.strVal
	case KindDate:
		return a.timeVal.Equal(b.timeVal)
	case KindBigInt:
		return a.bigVal.Cmp(b.bigVal) == 0
	case KindArray, KindSet:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.objVal) != len(b.objVal) {
			return false
		}
		for i := range a.objVal {
			if a.objVal[i].Key != b.objVal[i].Key || !Equal(a.objVal[i].Value, b.objVal[i].Value) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.mapVal) != len(b.mapVal) {
			return false
		}
		for i := range a.mapVal {
			if !Equal(a.mapVal[i].Key, b.mapVal[i].Key) || !Equal(a.mapVal[i].Value, b.mapVal[i].Value) {
				return false
			}
		}
		return true
	case KindRegExp:
		return a.regexpVal.Source == b.regexpVal.Source && a.regexpVal.Flags == b.regexpVal.Flags
	case KindError:
		return a.errVal.Name == b.errVal.Name &&
			a.errVal.Message == b.errVal.Message &&
			Equal(a.errVal.Cause, b.errVal.Cause)
	default:
		return false
	}
}

// ============================================================
// Display
// ============================================================

// String returns a human-readable rendering for diagnostics. It is not the
// wire form; use Stringify for that.
func (v *Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v *Value) write(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindUndefined:
		sb.WriteString("undefined")
	case KindBool:
		fmt.Fprintf(sb, "%v", v.boolVal)
	case KindNumber:
		sb.WriteString(formatNumber(v.numVal))
	case KindString:
		fmt.Fprintf(sb, "%q", v.strVal)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.listVal {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, e := range v.objVal {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q: ", e.Key)
			e.Value.write(sb)
		}
		sb.WriteByte('}')
	case KindDate:
		fmt.Fprintf(sb, "Date(%s)", v.timeVal.Format(time.RFC3339))
	case KindBigInt:
		sb.WriteString(v.bigVal.String())
		sb.WriteByte('n')
	case KindSet:
		sb.WriteString("Set {")
		for i, e := range v.listVal {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte('}')
	case KindMap:
		sb.WriteString("Map {")
		for i, e := range v.mapVal {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.write(sb)
			sb.WriteString(" => ")
			e.Value.write(sb)
		}
		sb.WriteByte('}')
	case KindNaN:
		sb.WriteString("NaN")
	case KindPosInfinity:
		sb.WriteString("Infinity")
	case KindNegInfinity:
		sb.WriteString("-Infinity")
	case KindNegZero:
		sb.WriteString("-0")
	case KindRegExp:
		fmt.Fprintf(sb, "/%s/%s", v.regexpVal.Source, v.regexpVal.Flags)
	case KindURL:
		fmt.Fprintf(sb, "URL(%s)", v.strVal)
	case KindError:
		fmt.Fprintf(sb, "%s: %s", v.errVal.Name, v.errVal.Message)
		if v.errVal.Cause != nil {
			sb.WriteString(" (cause: ")
			v.errVal.Cause.write(sb)
			sb.WriteByte(')')
		}
	}
}
