package superjson

import "errors"

// Error kinds returned by the codec. All errors returned from Serialize,
// Deserialize, Stringify, and Parse wrap one of these sentinels and can be
// matched with errors.Is.
var (
	// ErrMalformedEnvelope indicates the top-level wire shape is not the
	// expected {json, meta} object, or meta/values have the wrong shape.
	ErrMalformedEnvelope = errors.New("superjson: malformed envelope")

	// ErrUnsupportedVersion indicates meta.v names a format version this
	// implementation does not know.
	ErrUnsupportedVersion = errors.New("superjson: unsupported format version")

	// ErrUnsupportedType indicates an annotation tag this implementation
	// does not recognize.
	ErrUnsupportedType = errors.New("superjson: unsupported type tag")

	// ErrMalformedScalar indicates a plain value that cannot be parsed
	// under its annotation tag (e.g. a non-ISO string tagged "Date").
	ErrMalformedScalar = errors.New("superjson: malformed scalar")

	// ErrTooDeep indicates the value tree exceeds the recursion limit.
	ErrTooDeep = errors.New("superjson: value tree too deep")
)

// maxDepth bounds recursion in both directions. Deeper trees fail with
// ErrTooDeep rather than risking stack exhaustion.
const maxDepth = 256
