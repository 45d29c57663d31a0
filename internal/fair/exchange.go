package fair

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase is the explicit protocol state of an Exchange. Reading the secret
// value or key in the wrong phase is a state error, not a convention.
type Phase int

const (
	// PhaseCommitted: the digest is published; the counterparty's
	// contribution has not been supplied yet.
	PhaseCommitted Phase = iota
	// PhaseContributed: the counterparty's contribution is fixed; the
	// exchange may now be revealed.
	PhaseContributed
	// PhaseRevealed: key and value have been disclosed; the exchange is
	// finished.
	PhaseRevealed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCommitted:
		return "committed"
	case PhaseContributed:
		return "contributed"
	case PhaseRevealed:
		return "revealed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrPhase reports an operation attempted in the wrong protocol phase.
type ErrPhase struct {
	Op   string
	Got  Phase
	Want Phase
}

func (e *ErrPhase) Error() string {
	return fmt.Sprintf("fair: %s requires phase %s, exchange is %s", e.Op, e.Want, e.Got)
}

// Exchange is one commit/reveal round: publish a digest, accept the
// counterparty's contribution, then reveal and combine.
//
// Invariant: phase only ever advances Committed -> Contributed -> Revealed.
// Not safe for concurrent use; the protocol is strictly sequential.
type Exchange struct {
	id      uuid.UUID
	bound   int
	phase   Phase
	cmt     *Commitment
	counter int
	logger  *zap.Logger
}

// NewExchange commits to a fresh uniform value in [0, bound] and returns the
// exchange in PhaseCommitted with its digest ready to publish.
//
// Precondition: gen must be non-nil; bound >= 0. A nil logger disables
// protocol logging.
func NewExchange(gen *Generator, bound int, logger *zap.Logger) (*Exchange, error) {
	cmt, err := gen.Commit(bound)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Exchange{
		id:     uuid.New(),
		bound:  bound,
		phase:  PhaseCommitted,
		cmt:    cmt,
		logger: logger,
	}
	// Only the digest is loggable before the counterparty contributes.
	e.logger.Debug("fair exchange committed",
		zap.String("exchange_id", e.id.String()),
		zap.Int("bound", e.bound),
		zap.String("digest", cmt.DigestHex()),
	)
	return e, nil
}

// ID returns the exchange's transcript identifier.
func (e *Exchange) ID() uuid.UUID { return e.id }

// Bound returns the inclusive upper bound of the exchange's value range.
func (e *Exchange) Bound() int { return e.bound }

// Phase returns the current protocol phase.
func (e *Exchange) Phase() Phase { return e.phase }

// Digest returns the published commitment digest in uppercase hexadecimal.
// Available in every phase; the digest is public from the start.
func (e *Exchange) Digest() string { return e.cmt.DigestHex() }

// Contribute fixes the counterparty's independently chosen value and
// advances the exchange to PhaseContributed.
//
// Precondition: phase is PhaseCommitted; 0 <= c <= Bound().
func (e *Exchange) Contribute(c int) error {
	if e.phase != PhaseCommitted {
		return &ErrPhase{Op: "Contribute", Got: e.phase, Want: PhaseCommitted}
	}
	if c < 0 || c > e.bound {
		return fmt.Errorf("fair: contribution %d out of range [0, %d]", c, e.bound)
	}
	e.counter = c
	e.phase = PhaseContributed
	e.logger.Debug("fair exchange contribution received",
		zap.String("exchange_id", e.id.String()),
		zap.Int("contribution", c),
	)
	return nil
}

// Reveal discloses the committed value and secret key, combines both
// contributions by modular addition, and advances to PhaseRevealed.
//
// Modular addition is load-bearing: if either contribution is uniform and
// independent of the other, the sum mod (bound+1) is uniform over
// [0, bound] no matter how biased the other contribution is.
//
// Precondition: phase is PhaseContributed.
// Postcondition: Result.Combined == (own + counterparty) mod (bound+1).
func (e *Exchange) Reveal() (Result, error) {
	if e.phase != PhaseContributed {
		return Result{}, &ErrPhase{Op: "Reveal", Got: e.phase, Want: PhaseContributed}
	}
	e.phase = PhaseRevealed

	res := Result{
		ID:           e.id,
		Bound:        e.bound,
		Own:          e.cmt.Value(),
		Counterparty: e.counter,
		Combined:     (e.cmt.Value() + e.counter) % (e.bound + 1),
		Key:          e.cmt.KeyHex(),
		Digest:       e.cmt.DigestHex(),
	}
	e.logger.Debug("fair exchange revealed",
		zap.String("exchange_id", e.id.String()),
		zap.Int("own", res.Own),
		zap.Int("counterparty", res.Counterparty),
		zap.Int("combined", res.Combined),
	)
	return res, nil
}

// Close zeroes the commitment's secret key. Safe to call in any phase and
// more than once; an exchange abandoned mid-protocol must still be closed
// so its key does not outlive the exchange.
func (e *Exchange) Close() {
	e.cmt.Zero()
}

// Result is the full verifiable record of one fair-random draw, immutable
// after creation. Key and Digest use the fixed uppercase hex encoding.
type Result struct {
	ID           uuid.UUID
	Bound        int
	Own          int
	Counterparty int
	Combined     int
	Key          string
	Digest       string
}

// Verified independently recomputes the digest from the revealed key and
// value and checks it against the published digest. A false return means
// the committing party cheated.
func (r Result) Verified() bool {
	key, err := hex.DecodeString(r.Key)
	if err != nil {
		return false
	}
	digest, err := hex.DecodeString(r.Digest)
	if err != nil {
		return false
	}
	return Verify(key, r.Own, digest)
}
