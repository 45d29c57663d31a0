package match

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fairdice/internal/fair"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

// ErrFairnessViolation reports that a revealed key and value failed to
// reproduce the previously published digest: the committing party cheated.
// This is a trust failure, distinct from losing the game.
var ErrFairnessViolation = errors.New("match: revealed key and value do not reproduce the published digest")

// Exchange is the commit/reveal protocol surface the orchestrator drives.
// Production code uses fair.Exchange; tests substitute a scripted one.
type Exchange interface {
	Digest() string
	Contribute(c int) error
	Reveal() (fair.Result, error)
	Close()
}

// ExchangeFactory creates a fresh committed exchange for the given
// inclusive bound. Every random decision of a match gets its own exchange.
type ExchangeFactory func(bound int) (Exchange, error)

// NewFairExchangeFactory adapts fair.NewExchange into an ExchangeFactory.
//
// Precondition: gen must be non-nil.
func NewFairExchangeFactory(gen *fair.Generator, logger *zap.Logger) ExchangeFactory {
	return func(bound int) (Exchange, error) {
		return fair.NewExchange(gen, bound, logger)
	}
}

// Player supplies the human side of every decision point. Implementations
// report an explicit exit request as an error that the orchestrator
// propagates unchanged; input validation and retries happen inside the
// implementation, never here.
type Player interface {
	// GuessFirstMove returns the player's guess (0 or 1) for the
	// first-move toss. The published digest is available for display.
	GuessFirstMove(digest string) (int, error)
	// ChooseDie returns one of options, each an index into the dice set.
	ChooseDie(options []int) (int, error)
	// Contribute returns the player's contribution in [0, bound] for a
	// throw exchange.
	Contribute(bound int, digest string) (int, error)
}

// Orchestrator runs one match from first-move determination to the
// declared result. It exclusively owns the State it creates and holds the
// dice set only by reference.
type Orchestrator struct {
	set         *dice.Set
	newExchange ExchangeFactory
	player      Player
	src         fair.Source
	out         io.Writer
	logger      *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
//
// Precondition: set, factory, player, src, and out must be non-nil.
// A nil logger disables diagnostic logging.
func NewOrchestrator(set *dice.Set, factory ExchangeFactory, player Player, src fair.Source, out io.Writer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		set:         set,
		newExchange: factory,
		player:      player,
		src:         src,
		out:         out,
		logger:      logger,
	}
}

// Run plays a full match: DetermineFirstMove -> DiceSelection ->
// Throw(first mover) -> Throw(other) -> DeclareResult.
//
// The returned State is valid even on error and holds the transcript of
// every completed exchange. An exit request from the player bubbles up
// unchanged inside the returned error; every exchange opened on the way
// is closed (its key zeroed) before Run returns.
func (o *Orchestrator) Run() (*State, error) {
	st := NewState()
	o.logger.Info("match started",
		zap.String("match_id", st.ID.String()),
		zap.Int("dice", o.set.Len()),
	)

	if err := o.determineFirstMove(st); err != nil {
		return st, err
	}
	if err := o.selectDice(st); err != nil {
		return st, err
	}
	for _, p := range []Party{st.FirstMover, st.FirstMover.Other()} {
		if err := o.throw(st, p); err != nil {
			return st, err
		}
	}
	o.declareResult(st)
	return st, nil
}

// determineFirstMove runs one bound=1 exchange. Rule: the user moves first
// iff their guess equals the committed value. The combined value is still
// revealed and recorded for the transcript.
func (o *Orchestrator) determineFirstMove(st *State) error {
	fmt.Fprintln(o.out, "Let's determine who makes the first move.")

	ex, err := o.newExchange(1)
	if err != nil {
		return fmt.Errorf("match: first-move exchange: %w", err)
	}
	defer ex.Close()

	fmt.Fprintf(o.out, "I selected a random value in the range 0..1 (HMAC=%s).\n", ex.Digest())

	guess, err := o.player.GuessFirstMove(ex.Digest())
	if err != nil {
		return fmt.Errorf("match: reading first-move guess: %w", err)
	}
	if err := ex.Contribute(guess); err != nil {
		return fmt.Errorf("match: first-move contribution: %w", err)
	}

	res, err := ex.Reveal()
	if err != nil {
		return fmt.Errorf("match: first-move reveal: %w", err)
	}
	if err := o.recordReveal(st, res); err != nil {
		return err
	}
	fmt.Fprintf(o.out, "My selection: %d (KEY=%s).\n", res.Own, res.Key)

	if guess == res.Own {
		st.FirstMover = PartyUser
		fmt.Fprintln(o.out, "You guessed right! You make the first move.")
	} else {
		st.FirstMover = PartyComputer
		fmt.Fprintln(o.out, "You guessed wrong. I make the first move.")
	}
	o.logger.Info("first mover determined",
		zap.String("match_id", st.ID.String()),
		zap.Stringer("first_mover", st.FirstMover),
	)
	return nil
}

// selectDice lets the first mover choose, then the other party choose from
// what remains. Removing the chosen index from the selectable set is what
// keeps both parties from ever holding the same die.
func (o *Orchestrator) selectDice(st *State) error {
	options := make([]int, o.set.Len())
	for i := range options {
		options[i] = i
	}

	if st.FirstMover == PartyUser {
		idx, err := o.userChoose(options)
		if err != nil {
			return err
		}
		st.UserDie = idx
		remaining := withoutIndex(options, idx)
		st.ComputerDie = remaining[fair.UniformInt(o.src, len(remaining)-1)]
		fmt.Fprintf(o.out, "You take the [%s] die.\n", o.set.Die(st.UserDie))
		fmt.Fprintf(o.out, "I take the [%s] die.\n", o.set.Die(st.ComputerDie))
	} else {
		st.ComputerDie = options[fair.UniformInt(o.src, len(options)-1)]
		fmt.Fprintf(o.out, "I make the first move and take the [%s] die.\n", o.set.Die(st.ComputerDie))
		remaining := withoutIndex(options, st.ComputerDie)
		idx, err := o.userChoose(remaining)
		if err != nil {
			return err
		}
		st.UserDie = idx
		fmt.Fprintf(o.out, "You take the [%s] die.\n", o.set.Die(st.UserDie))
	}

	o.logger.Info("dice selected",
		zap.String("match_id", st.ID.String()),
		zap.Int("user_die", st.UserDie),
		zap.Int("computer_die", st.ComputerDie),
	)
	return nil
}

// userChoose asks the player for a die and validates the answer against the
// selectable set.
func (o *Orchestrator) userChoose(options []int) (int, error) {
	idx, err := o.player.ChooseDie(options)
	if err != nil {
		return 0, fmt.Errorf("match: reading die choice: %w", err)
	}
	for _, opt := range options {
		if idx == opt {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("match: chosen die %d is not selectable", idx)
}

// throw runs one exchange with bound = faceCount-1 and indexes the
// combined result into the thrown die.
func (o *Orchestrator) throw(st *State, p Party) error {
	var die dice.Die
	if p == PartyUser {
		die = o.set.Die(st.UserDie)
		fmt.Fprintln(o.out, "It's time for your throw.")
	} else {
		die = o.set.Die(st.ComputerDie)
		fmt.Fprintln(o.out, "It's time for my throw.")
	}

	bound := die.Size() - 1
	ex, err := o.newExchange(bound)
	if err != nil {
		return fmt.Errorf("match: %s throw exchange: %w", p, err)
	}
	defer ex.Close()

	fmt.Fprintf(o.out, "I selected a random value in the range 0..%d (HMAC=%s).\n", bound, ex.Digest())

	c, err := o.player.Contribute(bound, ex.Digest())
	if err != nil {
		return fmt.Errorf("match: reading %s throw contribution: %w", p, err)
	}
	if err := ex.Contribute(c); err != nil {
		return fmt.Errorf("match: %s throw contribution: %w", p, err)
	}

	res, err := ex.Reveal()
	if err != nil {
		return fmt.Errorf("match: %s throw reveal: %w", p, err)
	}
	if err := o.recordReveal(st, res); err != nil {
		return err
	}

	fmt.Fprintf(o.out, "My number is %d (KEY=%s).\n", res.Own, res.Key)
	fmt.Fprintf(o.out, "The fair number generation result is %d + %d = %d (mod %d).\n",
		res.Own, res.Counterparty, res.Combined, die.Size())

	face := die.Face(res.Combined)
	if p == PartyUser {
		st.UserFace = face
		fmt.Fprintf(o.out, "Your throw is %d.\n", face)
	} else {
		st.ComputerFace = face
		fmt.Fprintf(o.out, "My throw is %d.\n", face)
	}
	return nil
}

// recordReveal verifies a revealed exchange and appends it to the
// transcript. Verification failure ends the match as untrusted.
func (o *Orchestrator) recordReveal(st *State, res fair.Result) error {
	st.Transcript = append(st.Transcript, res)
	if !res.Verified() {
		o.logger.Error("fairness violation",
			zap.String("match_id", st.ID.String()),
			zap.String("exchange_id", res.ID.String()),
			zap.String("digest", res.Digest),
		)
		return fmt.Errorf("match: exchange %s: %w", res.ID, ErrFairnessViolation)
	}
	return nil
}

func (o *Orchestrator) declareResult(st *State) {
	switch {
	case st.UserFace > st.ComputerFace:
		st.Outcome = OutcomeUserWin
		fmt.Fprintf(o.out, "You win (%d > %d)!\n", st.UserFace, st.ComputerFace)
	case st.UserFace < st.ComputerFace:
		st.Outcome = OutcomeComputerWin
		fmt.Fprintf(o.out, "I win (%d > %d)!\n", st.ComputerFace, st.UserFace)
	default:
		st.Outcome = OutcomeTie
		fmt.Fprintf(o.out, "It's a tie (%d = %d).\n", st.UserFace, st.ComputerFace)
	}
	o.logger.Info("match finished",
		zap.String("match_id", st.ID.String()),
		zap.Stringer("outcome", st.Outcome),
		zap.Int("user_face", st.UserFace),
		zap.Int("computer_face", st.ComputerFace),
	)
}

func withoutIndex(options []int, idx int) []int {
	out := make([]int, 0, len(options)-1)
	for _, opt := range options {
		if opt != idx {
			out = append(out, opt)
		}
	}
	return out
}
