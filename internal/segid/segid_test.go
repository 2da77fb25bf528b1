package segid

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hex24 = regexp.MustCompile(`^[0-9a-f]{24}$`)

func TestNext_FormatAndUniqueness(t *testing.T) {
	gen := New()
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		id, err := gen.Next()
		require.NoError(t, err)
		require.Regexp(t, hex24, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate segment id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewSeeded_Reproducible(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	other := NewSeeded(8)

	for i := 0; i < 5; i++ {
		idA, err := a.Next()
		require.NoError(t, err)
		idB, err := b.Next()
		require.NoError(t, err)
		idOther, err := other.Next()
		require.NoError(t, err)

		assert.Equal(t, idA, idB)
		assert.NotEqual(t, idA, idOther)
	}
}

func TestNext_VersionNibble(t *testing.T) {
	// The 13th hex digit of a V4 UUID is always the version.
	id, err := NewSeeded(1).Next()
	require.NoError(t, err)
	assert.Equal(t, byte('4'), id[12])
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNext_ReaderError(t *testing.T) {
	_, err := NewWithReader(failingReader{}).Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate segment id")
}
