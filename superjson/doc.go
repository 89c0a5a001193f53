// Package superjson implements a codec for the superjson wire format,
// byte-compatible with the JavaScript superjson library.
//
// superjson extends plain JSON with the richer types JavaScript programs
// actually pass around. A serialized value is split into two parallel
// trees inside one envelope:
//
//	{ "json": <plain JSON tree>, "meta": { "values": <annotations>, "v": 1 } }
//
// The json tree is ordinary JSON that any consumer can read. The meta.values
// tree records, at each path where plain JSON is lossy, which richer type
// the original value had, so a superjson-aware consumer can reconstruct it
// exactly.
//
// # Data Model
//
// Scalars: null, undefined, bool, number, string, Date, BigInt, RegExp, URL
// Special numbers: NaN, Infinity, -Infinity, -0 (distinct from plain numbers)
// Containers: array, object, Set, Map (any key type), Error (with cause)
//
// Values are built with constructor functions and inspected with As*
// accessors:
//
//	v := superjson.Object(
//		superjson.Field("when", superjson.Date(time.UnixMilli(0))),
//		superjson.Field("count", superjson.BigInt(big.NewInt(42))),
//	)
//	s, err := superjson.Stringify(v)
//	// {"json":{"when":"1970-01-01T00:00:00.000Z","count":"42"},
//	//  "meta":{"values":{"when":["Date"],"count":["bigint"]},"v":1}}
//
// # Annotation Paths
//
// Annotations for nested values use dot-notation paths relative to their
// container: {"meeting.date": ["Date"]}. Object keys containing '.' or '\'
// are escaped. Set elements are addressed by index, Map entries by
// "<pairIndex>.0" (key) and "<pairIndex>.1" (value), an Error's cause by
// "cause".
//
// # Compatibility Notes
//
// The write side never produces meta.referentialEqualities (shared-reference
// dedup); on the read side the field is accepted and discarded, and any
// position nulled out by dedup comes back as null. Unknown annotation tags
// and unknown format versions fail with typed errors rather than guessing.
//
// The codec is a pure transformation: no I/O, no shared state, safe for
// concurrent use. Pathologically deep trees fail with ErrTooDeep instead of
// exhausting the stack.
package superjson
