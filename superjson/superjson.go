package superjson

import (
	"errors"
	"fmt"
)

// formatVersion is the wire format version stated in meta.v whenever a meta
// object is written. Reading rejects any other version.
const formatVersion = 1

// Envelope is the top-level {json, meta} wire object. Zero-value envelopes
// describe a plain null; build envelopes with Serialize or UnmarshalJSON.
type Envelope struct {
	// json is the plain tree. nil means the field is absent on the wire
	// (a root-level undefined).
	json *jsonValue
	// values is the decoded meta.values annotation tree, nil when no
	// position needs one.
	values *annotationValues
}

// MarshalJSON renders the envelope in its wire form. meta is written only
// when annotations exist; referentialEqualities is never written.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var fields []jsonField
	if e.json != nil {
		fields = append(fields, jsonField{key: "json", value: e.json})
	}
	if e.values != nil {
		meta := jObject(
			jsonField{key: "values", value: e.values.toJSON()},
			jsonField{key: "v", value: jNumber(formatVersion)},
		)
		fields = append(fields, jsonField{key: "meta", value: meta})
	}
	return []byte(encodeJSON(jObject(fields...))), nil
}

// UnmarshalJSON parses an envelope from its wire form. meta.v other than 1
// is rejected; meta.referentialEqualities is accepted and discarded.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	top, err := decodeJSON(data)
	if err != nil {
		if errors.Is(err, ErrTooDeep) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if top.kind != jsonObject {
		return fmt.Errorf("%w: top level must be an object, got %s", ErrMalformedEnvelope, top.kind)
	}

	e.json = top.field("json")
	e.values = nil

	meta := top.field("meta")
	if meta == nil {
		return nil
	}
	if meta.kind != jsonObject {
		return fmt.Errorf("%w: meta must be an object, got %s", ErrMalformedEnvelope, meta.kind)
	}
	if v := meta.field("v"); v != nil {
		if v.kind != jsonNumber || v.numVal != formatVersion {
			return fmt.Errorf("%w: %s", ErrUnsupportedVersion, encodeJSON(v))
		}
	}
	// referentialEqualities is parsed as part of the generic tree above and
	// intentionally dropped: dedup restoration is unsupported.
	if values := meta.field("values"); values != nil {
		parsed, err := parseAnnotationValues(values)
		if err != nil {
			return err
		}
		e.values = parsed
	}
	return nil
}

// Stringify serializes a value tree to its superjson text form.
func Stringify(v *Value) (string, error) {
	env, err := Serialize(v)
	if err != nil {
		return "", err
	}
	data, err := env.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse reconstructs a value tree from superjson text.
func Parse(s string) (*Value, error) {
	var env Envelope
	if err := env.UnmarshalJSON([]byte(s)); err != nil {
		return nil, err
	}
	return Deserialize(&env)
}
