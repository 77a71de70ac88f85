package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id, err := Generate("note")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "note-"))
	// Default NanoID is 21 characters plus our prefix and separator.
	assert.Len(t, id, len("note-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("user")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("sess")
		assert.True(t, strings.HasPrefix(id, "sess-"))
	})
}
