package superjson

import "strings"

// ============================================================
// Annotation Path Codec
// ============================================================
//
// Annotation paths use dot notation relative to their container:
// "a.0.b" addresses obj["a"][0]["b"]. Object keys are escaped so keys
// containing '.' or '\' stay unambiguous; array and pair indices are bare
// decimal strings. The escaping matches JS superjson's escapeKey.

// escapeKey escapes an object key for use in a dot-notation path.
// Backslashes become `\\` and dots become `\.` (backslashes first).
func escapeKey(key string) string {
	if !strings.ContainsAny(key, ".\\") {
		return key
	}
	key = strings.ReplaceAll(key, `\`, `\\`)
	return strings.ReplaceAll(key, ".", `\.`)
}

// joinPath appends a child segment to a parent path. The segment must
// already be escaped (or be a bare index).
func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}

// splitPath splits a path on unescaped dots and unescapes each segment,
// the full inverse of escapeKey plus joinPath. Deserialization resolves
// flattened paths by escaped-prefix matching (see reconstructChild) and
// never needs the decomposed segments; splitPath is the decomposition for
// callers that do. The empty path yields no segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	var segments []string
	var current strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '\\' && i+1 < len(path) {
			next := path[i+1]
			if next == '\\' || next == '.' {
				current.WriteByte(next)
				i++
				continue
			}
		}
		if c == '.' {
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	return append(segments, current.String())
}
