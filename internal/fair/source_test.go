package fair_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/fairdice/internal/fair"
)

// scriptedSource replays a fixed byte stream, panicking on exhaustion.
// Used to make commitments and draws deterministic in tests.
type scriptedSource struct {
	data []byte
}

func (s *scriptedSource) Bytes(n int) []byte {
	if len(s.data) < n {
		panic("scriptedSource: byte script exhausted")
	}
	out := make([]byte, n)
	copy(out, s.data[:n])
	s.data = s.data[n:]
	return out
}

// keyBytes returns a scripted 32-byte commitment key filled with b.
func keyBytes(b byte) []byte {
	k := make([]byte, fair.KeySize)
	for i := range k {
		k[i] = b
	}
	return k
}

func TestCryptoSource_Length(t *testing.T) {
	src := fair.NewCryptoSource()
	for _, n := range []int{0, 1, 16, 32, 256} {
		b := src.Bytes(n)
		require.Len(t, b, n, "Bytes(%d) must return %d bytes", n, n)
	}
}

func TestCryptoSource_Distinct(t *testing.T) {
	src := fair.NewCryptoSource()
	a := src.Bytes(32)
	b := src.Bytes(32)
	assert.NotEqual(t, a, b, "two 256-bit draws must not collide")
}

func TestCryptoSource_NegativePanics(t *testing.T) {
	src := fair.NewCryptoSource()
	assert.PanicsWithValue(t, "fair: Bytes called with n < 0", func() {
		src.Bytes(-1)
	})
}

func TestCryptoSource_Length_Property(t *testing.T) {
	src := fair.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 128).Draw(rt, "n")
		assert.Len(rt, src.Bytes(n), n)
	})
}
