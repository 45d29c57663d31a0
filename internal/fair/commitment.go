package fair

import (
	"crypto/hmac"
	"fmt"
	"math/bits"
	"strconv"

	"golang.org/x/crypto/sha3"
)

// Commitment binds a uniformly drawn value to a fresh secret key via an
// HMAC-SHA3-256 digest. The digest may be published immediately; the key
// and value stay hidden until the counterparty's contribution is fixed.
//
// Invariant: key is exactly KeySize bytes and is never reused across
// commitments. Zero() wipes the key once the reveal has been verified.
type Commitment struct {
	key    []byte
	value  int
	digest []byte
}

// Value returns the committed value.
func (c *Commitment) Value() int { return c.value }

// Key returns the secret key bytes. Callers must not mutate the result.
func (c *Commitment) Key() []byte { return c.key }

// Digest returns the HMAC digest bytes. Callers must not mutate the result.
func (c *Commitment) Digest() []byte { return c.digest }

// DigestHex returns the digest in the fixed uppercase hexadecimal encoding
// used everywhere commitment material is displayed.
func (c *Commitment) DigestHex() string {
	return fmt.Sprintf("%X", c.digest)
}

// KeyHex returns the secret key in uppercase hexadecimal.
func (c *Commitment) KeyHex() string {
	return fmt.Sprintf("%X", c.key)
}

// Zero overwrites the secret key in place. The commitment is unusable for
// verification afterwards.
//
// Postcondition: every byte of the key is 0.
func (c *Commitment) Zero() {
	for i := range c.key {
		c.key[i] = 0
	}
}

// Generator produces commitments from a Source.
type Generator struct {
	src Source
}

// NewGenerator creates a Generator drawing from src.
//
// Precondition: src must be non-nil.
func NewGenerator(src Source) *Generator {
	if src == nil {
		panic("fair: NewGenerator called with nil Source")
	}
	return &Generator{src: src}
}

// Commit draws a uniform value in [0, bound], a fresh KeySize-byte key, and
// the HMAC-SHA3-256 digest binding the two.
//
// Precondition: bound >= 0.
// Postcondition: 0 <= Value() <= bound; Verify(Key(), Value(), Digest()) holds.
func (g *Generator) Commit(bound int) (*Commitment, error) {
	if bound < 0 {
		return nil, fmt.Errorf("fair: commit bound must be >= 0, got %d", bound)
	}
	value := UniformInt(g.src, bound)
	key := g.src.Bytes(KeySize)
	return &Commitment{
		key:    key,
		value:  value,
		digest: computeDigest(key, value),
	}, nil
}

// UniformInt returns a uniformly distributed int in [0, bound] inclusive,
// using masked rejection sampling to avoid modulo bias.
//
// The smallest k with 2^k-1 >= bound determines the mask; candidates above
// bound are discarded and redrawn. At least half the masked space is valid,
// so the loop terminates in O(1) expected iterations.
//
// Precondition: bound >= 0; src must be non-nil.
func UniformInt(src Source, bound int) int {
	if bound < 0 {
		panic("fair: UniformInt called with bound < 0")
	}
	if bound == 0 {
		// Degenerate range: no bits to draw, the only value is 0.
		return 0
	}

	nbits := bits.Len(uint(bound))
	nbytes := (nbits + 7) / 8
	// Mask for the partial high byte, e.g. bound=5 -> 3 bits -> mask 0x07.
	topMask := byte(0xFF >> (8*nbytes - nbits))

	for {
		raw := src.Bytes(nbytes)
		raw[0] &= topMask
		v := 0
		for _, b := range raw {
			v = v<<8 | int(b)
		}
		if v <= bound {
			return v
		}
	}
}

// Verify recomputes the digest from a revealed (key, value) pair and compares
// it against the published digest in constant time.
//
// Postcondition: returns true iff digest == HMAC-SHA3-256(key, decimal(value)).
func Verify(key []byte, value int, digest []byte) bool {
	return hmac.Equal(computeDigest(key, value), digest)
}

// computeDigest is HMAC-SHA3-256 over the decimal ASCII encoding of value.
// SHA3 has no length-extension weakness, and HMAC makes the digest
// unforgeable without the key.
func computeDigest(key []byte, value int) []byte {
	mac := hmac.New(sha3.New256, key)
	mac.Write([]byte(strconv.Itoa(value)))
	return mac.Sum(nil)
}
