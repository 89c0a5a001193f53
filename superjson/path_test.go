package superjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "foo", escapeKey("foo"))
	assert.Equal(t, `a\.b`, escapeKey("a.b"))
	assert.Equal(t, `a\\b`, escapeKey(`a\b`))
	assert.Equal(t, `a\\\.b`, escapeKey(`a\.b`))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", joinPath("", "a"))
	assert.Equal(t, "a.0", joinPath("a", "0"))
	assert.Equal(t, "a.0.b", joinPath("a.0", "b"))
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, splitPath(""))
	assert.Equal(t, []string{"foo"}, splitPath("foo"))
	assert.Equal(t, []string{"a", "0", "b"}, splitPath("a.0.b"))
	assert.Equal(t, []string{"a.b", "c"}, splitPath(`a\.b.c`))
	assert.Equal(t, []string{`a\b`, "c"}, splitPath(`a\\b.c`))
}

func TestPathRoundTrip(t *testing.T) {
	keys := []string{"data", "a.b", `c\d`, `e\.f`, "plain"}
	path := ""
	for _, k := range keys {
		path = joinPath(path, escapeKey(k))
	}
	assert.Equal(t, keys, splitPath(path))
}
