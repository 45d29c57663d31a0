// Package match implements the turn-orchestration state machine for one
// fair-dice duel: first-move determination, dice selection, both throws,
// and the declared result, with every random decision produced by a
// commit/reveal exchange.
package match

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/fairdice/internal/fair"
)

// Party identifies one of the two participants.
type Party int

const (
	// PartyUser is the human player.
	PartyUser Party = iota
	// PartyComputer is the automated opponent.
	PartyComputer
)

// String returns the party name.
func (p Party) String() string {
	switch p {
	case PartyUser:
		return "user"
	case PartyComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// Other returns the opposing party.
func (p Party) Other() Party {
	if p == PartyUser {
		return PartyComputer
	}
	return PartyUser
}

// Outcome is the declared result of a match.
type Outcome int

const (
	// OutcomeUndecided: the match has not reached DeclareResult.
	OutcomeUndecided Outcome = iota
	// OutcomeUserWin: the user's face beat the computer's.
	OutcomeUserWin
	// OutcomeComputerWin: the computer's face beat the user's.
	OutcomeComputerWin
	// OutcomeTie: equal faces; terminal, no tiebreak is played.
	OutcomeTie
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUndecided:
		return "undecided"
	case OutcomeUserWin:
		return "user win"
	case OutcomeComputerWin:
		return "computer win"
	case OutcomeTie:
		return "tie"
	default:
		return "unknown"
	}
}

// State carries everything decided during one match. Created at match
// start, mutated by the orchestrator, discarded at match end.
//
// Invariant: once both dice are chosen, UserDie != ComputerDie.
type State struct {
	// ID identifies the match in logs and the fairness transcript.
	ID uuid.UUID
	// FirstMover is the party that chose its die and threw first.
	FirstMover Party
	// UserDie and ComputerDie are indices into the dice set, -1 until chosen.
	UserDie     int
	ComputerDie int
	// UserFace and ComputerFace are the thrown face values.
	UserFace     int
	ComputerFace int
	// Outcome is the declared result.
	Outcome Outcome
	// Transcript records every fair exchange of the match, in order, for
	// after-the-fact verification.
	Transcript []fair.Result
}

// NewState creates the initial state for a match.
//
// Postcondition: both die indices are -1 and Outcome is OutcomeUndecided.
func NewState() *State {
	return &State{
		ID:          uuid.New(),
		UserDie:     -1,
		ComputerDie: -1,
	}
}
