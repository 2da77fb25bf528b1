// Package segid generates segment identifiers: the first 24 hex characters of a
// random (version 4) UUID.
package segid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	mrand "math/rand/v2"

	"github.com/gofrs/uuid/v5"
)

// Length is the number of hex characters in a segment id.
const Length = 24

// Generator produces segment ids.
type Generator interface {
	Next() (string, error)
}

// UUIDGenerator derives ids from V4 UUIDs.
type UUIDGenerator struct {
	gen *uuid.Gen
}

// New returns a generator backed by crypto/rand.
func New() *UUIDGenerator {
	return NewWithReader(rand.Reader)
}

// NewWithReader returns a generator that draws its random bytes from r.
func NewWithReader(r io.Reader) *UUIDGenerator {
	return &UUIDGenerator{gen: uuid.NewGenWithOptions(uuid.WithRandomReader(r))}
}

// NewSeeded returns a generator whose output is fully determined by seed.
func NewSeeded(seed int64) *UUIDGenerator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	return NewWithReader(mrand.NewChaCha8(key))
}

// Next implements Generator.
func (g *UUIDGenerator) Next() (string, error) {
	u, err := g.gen.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate segment id: %w", err)
	}
	return hex.EncodeToString(u.Bytes())[:Length], nil
}
