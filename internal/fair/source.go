// Package fair implements the commit/reveal fair-random protocol: a
// cryptographically secure entropy source, a commitment generator producing
// uniform values bound by an HMAC commitment, and the two-phase exchange
// that combines both parties' contributions.
package fair

import "crypto/rand"

// KeySize is the secret key length in bytes for every commitment.
const KeySize = 32

// Source provides cryptographically secure random bytes.
//
// Implementations MUST be safe for concurrent use and MUST NOT be seedable
// or deterministic; tests substitute a scripted source.
type Source interface {
	// Bytes returns n cryptographically secure random bytes.
	//
	// Precondition: n >= 0.
	Bytes(n int) []byte
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: all bytes produced come from the operating system CSPRNG.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Bytes returns n bytes from crypto/rand.
//
// Precondition: n >= 0. Panics with "fair: Bytes called with n < 0" if n < 0.
// Panics with "fair: crypto/rand failure: <err>" if crypto/rand fails;
// continuing without entropy would silently void the fairness guarantee.
func (c *cryptoSource) Bytes(n int) []byte {
	if n < 0 {
		panic("fair: Bytes called with n < 0")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("fair: crypto/rand failure: " + err.Error())
	}
	return b
}
