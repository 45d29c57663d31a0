package fair_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/fairdice/internal/fair"
)

func newTestExchange(t *testing.T, bound int) *fair.Exchange {
	t.Helper()
	gen := fair.NewGenerator(fair.NewCryptoSource())
	ex, err := fair.NewExchange(gen, bound, nil)
	require.NoError(t, err)
	return ex
}

func TestExchange_StartsCommittedWithPublicDigest(t *testing.T) {
	ex := newTestExchange(t, 5)
	defer ex.Close()

	assert.Equal(t, fair.PhaseCommitted, ex.Phase())
	assert.Equal(t, 5, ex.Bound())
	assert.NotEmpty(t, ex.Digest())
	assert.Equal(t, strings.ToUpper(ex.Digest()), ex.Digest(),
		"digest must use the fixed uppercase hex encoding")
	assert.NotEqual(t, ex.ID().String(), "00000000-0000-0000-0000-000000000000")
}

func TestExchange_RevealBeforeContributionIsStateError(t *testing.T) {
	ex := newTestExchange(t, 5)
	defer ex.Close()

	_, err := ex.Reveal()
	require.Error(t, err)
	var phaseErr *fair.ErrPhase
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, "Reveal", phaseErr.Op)
	assert.Equal(t, fair.PhaseCommitted, phaseErr.Got)
}

func TestExchange_ContributeValidatesRange(t *testing.T) {
	ex := newTestExchange(t, 5)
	defer ex.Close()

	require.Error(t, ex.Contribute(-1))
	require.Error(t, ex.Contribute(6))
	assert.Equal(t, fair.PhaseCommitted, ex.Phase(), "rejected contribution must not advance the phase")
	require.NoError(t, ex.Contribute(5))
	assert.Equal(t, fair.PhaseContributed, ex.Phase())
}

func TestExchange_ContributeTwiceIsStateError(t *testing.T) {
	ex := newTestExchange(t, 5)
	defer ex.Close()

	require.NoError(t, ex.Contribute(2))
	err := ex.Contribute(3)
	var phaseErr *fair.ErrPhase
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, fair.PhaseContributed, phaseErr.Got)
}

func TestExchange_CombinedIsModularSum(t *testing.T) {
	// Scripted entropy: value candidate 0x04 (bound 5, mask 0x07 -> own=4),
	// then the 32 key bytes. counterparty=3 -> combined (4+3) mod 6 == 1.
	src := &scriptedSource{data: append([]byte{0x04}, keyBytes(0x11)...)}
	gen := fair.NewGenerator(src)
	ex, err := fair.NewExchange(gen, 5, nil)
	require.NoError(t, err)
	defer ex.Close()

	require.NoError(t, ex.Contribute(3))
	res, err := ex.Reveal()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Own)
	assert.Equal(t, 3, res.Counterparty)
	assert.Equal(t, 1, res.Combined, "combined must be (4+3) mod 6")
	assert.True(t, res.Verified())
}

func TestExchange_BoundZeroIsTrivial(t *testing.T) {
	ex := newTestExchange(t, 0)
	defer ex.Close()

	require.NoError(t, ex.Contribute(0))
	res, err := ex.Reveal()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Own)
	assert.Equal(t, 0, res.Combined)
	assert.True(t, res.Verified())
}

func TestExchange_RevealTwiceIsStateError(t *testing.T) {
	ex := newTestExchange(t, 1)
	defer ex.Close()

	require.NoError(t, ex.Contribute(1))
	_, err := ex.Reveal()
	require.NoError(t, err)

	_, err = ex.Reveal()
	var phaseErr *fair.ErrPhase
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, fair.PhaseRevealed, phaseErr.Got)
}

func TestExchange_RoundTrip_Property(t *testing.T) {
	gen := fair.NewGenerator(fair.NewCryptoSource())
	rapid.Check(t, func(rt *rapid.T) {
		bound := rapid.IntRange(0, 200).Draw(rt, "bound")
		counter := rapid.IntRange(0, bound).Draw(rt, "counter")

		ex, err := fair.NewExchange(gen, bound, nil)
		require.NoError(rt, err)
		defer ex.Close()

		digest := ex.Digest()
		require.NoError(rt, ex.Contribute(counter))
		res, err := ex.Reveal()
		require.NoError(rt, err)

		assert.Equal(rt, digest, res.Digest, "reveal must expose the originally published digest")
		assert.Equal(rt, (res.Own+counter)%(bound+1), res.Combined)
		assert.True(rt, res.Verified(), "every honest exchange must verify")
	})
}

func TestResult_TamperedRecordFailsVerification(t *testing.T) {
	ex := newTestExchange(t, 5)
	defer ex.Close()
	require.NoError(t, ex.Contribute(2))
	res, err := ex.Reveal()
	require.NoError(t, err)

	tampered := res
	tampered.Own = (res.Own + 1) % 6
	assert.False(t, tampered.Verified(), "changing the revealed value must break verification")

	garbled := res
	garbled.Key = "ZZ" + res.Key[2:]
	assert.False(t, garbled.Verified(), "an undecodable key must not verify")
}

func TestExchange_CloseZeroesKeyMidProtocol(t *testing.T) {
	// An abandoned exchange (e.g. user exit before reveal) still wipes its key.
	src := &scriptedSource{data: append([]byte{0x01}, keyBytes(0x77)...)}
	gen := fair.NewGenerator(src)
	ex, err := fair.NewExchange(gen, 5, nil)
	require.NoError(t, err)

	ex.Close()
	require.NoError(t, ex.Contribute(1))
	res, err := ex.Reveal()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("00", fair.KeySize), res.Key)
	assert.False(t, res.Verified(), "a zeroed key no longer reproduces the digest")
}
