package superjson

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Deserializer
// ============================================================

// Deserialize reconstructs a value tree from an envelope, walking the plain
// JSON tree in lock-step with the annotation tree.
func Deserialize(env *Envelope) (*Value, error) {
	js := env.json
	if js == nil {
		// An absent json field is how a root-level undefined is written;
		// with no annotation it is simply null.
		js = jNull()
	}
	switch {
	case env.values == nil:
		return reconstructPlain(js, 0)
	case env.values.root != nil:
		return reconstructAnnotated(js, env.values.root, 0)
	default:
		return reconstructChildren(js, env.values.children, 0)
	}
}

// reconstructPlain translates a JSON node with no annotation anywhere.
func reconstructPlain(js *jsonValue, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	switch js.kind {
	case jsonNull:
		return Null(), nil
	case jsonBool:
		return Bool(js.boolVal), nil
	case jsonNumber:
		return Number(js.numVal), nil
	case jsonString:
		return Str(js.strVal), nil
	case jsonArray:
		items := make([]*Value, 0, len(js.arrVal))
		for _, item := range js.arrVal {
			v, err := reconstructPlain(item, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case jsonObject:
		entries := make([]ObjectEntry, 0, len(js.objVal))
		for _, f := range js.objVal {
			v, err := reconstructPlain(f.value, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Key: f.key, Value: v})
		}
		return Object(entries...), nil
	}
	return nil, fmt.Errorf("%w: unknown JSON node", ErrMalformedEnvelope)
}

// reconstructAnnotated rebuilds the special value a tag names from its
// plain form.
func reconstructAnnotated(js *jsonValue, ann *annotation, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	switch ann.tag {
	case tagUndefined:
		return Undefined(), nil

	case tagDate:
		s, err := expectString(js, ann.tag)
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid Date %q: %v", ErrMalformedScalar, s, err)
		}
		return Date(t), nil

	case tagBigInt:
		s, err := expectString(js, ann.tag)
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: invalid bigint %q", ErrMalformedScalar, s)
		}
		return BigInt(n), nil

	case tagNumber:
		s, err := expectString(js, ann.tag)
		if err != nil {
			return nil, err
		}
		switch s {
		case numNaN:
			return NaN(), nil
		case numPosInfinity:
			return PosInfinity(), nil
		case numNegInfinity:
			return NegInfinity(), nil
		case numNegZero:
			return NegZero(), nil
		}
		return nil, fmt.Errorf("%w: invalid special number %q", ErrMalformedScalar, s)

	case tagRegExp:
		s, err := expectString(js, ann.tag)
		if err != nil {
			return nil, err
		}
		return parseRegExp(s)

	case tagURL:
		s, err := expectString(js, ann.tag)
		if err != nil {
			return nil, err
		}
		return URL(s), nil

	case tagSet:
		arr, err := expectArray(js, ann.tag)
		if err != nil {
			return nil, err
		}
		items := make([]*Value, 0, len(arr))
		for i, item := range arr {
			v, err := reconstructChild(item, strconv.Itoa(i), ann.children, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Set(items...), nil

	case tagMap:
		arr, err := expectArray(js, ann.tag)
		if err != nil {
			return nil, err
		}
		entries := make([]MapEntry, 0, len(arr))
		for i, pair := range arr {
			if pair == nil || pair.kind != jsonArray || len(pair.arrVal) != 2 {
				return nil, fmt.Errorf("%w: map entry %d is not a [key, value] pair", ErrMalformedScalar, i)
			}
			idx := strconv.Itoa(i)
			key, err := reconstructChild(pair.arrVal[0], idx+".0", ann.children, depth+1)
			if err != nil {
				return nil, err
			}
			val, err := reconstructChild(pair.arrVal[1], idx+".1", ann.children, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Map(entries...), nil

	case tagError:
		if js == nil || js.kind != jsonObject {
			return nil, fmt.Errorf("%w: Error value must be an object", ErrMalformedScalar)
		}
		name, err := optionalStringField(js, "name")
		if err != nil {
			return nil, err
		}
		message, err := optionalStringField(js, "message")
		if err != nil {
			return nil, err
		}
		if jsCause := js.field("cause"); jsCause != nil {
			cause, err := reconstructChild(jsCause, "cause", ann.children, depth+1)
			if err != nil {
				return nil, err
			}
			return ErrorWithCause(name, message, cause), nil
		}
		return Error(name, message), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ann.tag)
}

// reconstructChildren rebuilds a plain container whose descendants carry
// annotations under flattened dot paths.
func reconstructChildren(js *jsonValue, children []annotationChild, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	switch js.kind {
	case jsonArray:
		items := make([]*Value, 0, len(js.arrVal))
		for i, item := range js.arrVal {
			v, err := reconstructChild(item, strconv.Itoa(i), children, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case jsonObject:
		entries := make([]ObjectEntry, 0, len(js.objVal))
		for _, f := range js.objVal {
			v, err := reconstructChild(f.value, escapeKey(f.key), children, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Key: f.key, Value: v})
		}
		return Object(entries...), nil
	default:
		// Child annotations can only address containers; anything else is
		// plain (a dedup-nulled position, for instance).
		return reconstructPlain(js, depth)
	}
}

// reconstructChild resolves one child position against the flattened
// children paths: an exact match annotates the child itself, a "<path>."
// prefix match carries annotations for positions deeper inside it.
func reconstructChild(js *jsonValue, path string, children []annotationChild, depth int) (*Value, error) {
	if ann := lookupChild(children, path); ann != nil {
		return reconstructAnnotated(js, ann, depth)
	}

	prefix := path + "."
	var sub []annotationChild
	for _, c := range children {
		if rest, ok := strings.CutPrefix(c.path, prefix); ok {
			sub = append(sub, annotationChild{path: rest, ann: c.ann})
		}
	}
	if len(sub) > 0 {
		return reconstructChildren(js, sub, depth)
	}
	return reconstructPlain(js, depth)
}

// ============================================================
// Shape checks
// ============================================================

func expectString(js *jsonValue, tag string) (string, error) {
	if js == nil || js.kind != jsonString {
		return "", fmt.Errorf("%w: %s requires a string plain value", ErrMalformedScalar, tag)
	}
	return js.strVal, nil
}

func expectArray(js *jsonValue, tag string) ([]*jsonValue, error) {
	if js == nil || js.kind != jsonArray {
		return nil, fmt.Errorf("%w: %s requires an array plain value", ErrMalformedScalar, tag)
	}
	return js.arrVal, nil
}

func optionalStringField(js *jsonValue, key string) (string, error) {
	f := js.field(key)
	if f == nil {
		return "", nil
	}
	if f.kind != jsonString {
		return "", fmt.Errorf("%w: Error %s must be a string", ErrMalformedScalar, key)
	}
	return f.strVal, nil
}

// parseRegExp splits "/source/flags" on the last slash.
func parseRegExp(s string) (*Value, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: regexp %q must start with '/'", ErrMalformedScalar, s)
	}
	last := strings.LastIndexByte(s, '/')
	if last == 0 {
		return nil, fmt.Errorf("%w: regexp %q has no closing '/'", ErrMalformedScalar, s)
	}
	return RegExp(s[1:last], s[last+1:]), nil
}
