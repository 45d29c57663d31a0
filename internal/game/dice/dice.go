// Package dice provides the immutable Die and Set models and the parsers
// that build them from command arguments or YAML preset files.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Die is an ordered sequence of integer face values, immutable once
// constructed.
//
// Invariant: Size() >= 1.
type Die struct {
	faces []int
}

// NewDie constructs a Die from the given faces.
//
// Precondition: len(faces) >= 1.
// Postcondition: the Die holds its own copy; later mutation of faces has no effect.
func NewDie(faces []int) (Die, error) {
	if len(faces) == 0 {
		return Die{}, fmt.Errorf("dice: a die must have at least 1 face")
	}
	owned := make([]int, len(faces))
	copy(owned, faces)
	return Die{faces: owned}, nil
}

// Size returns the number of faces.
func (d Die) Size() int { return len(d.faces) }

// Face returns the face value at index i (0-based).
//
// Precondition: 0 <= i < Size(). Panics otherwise.
func (d Die) Face(i int) int {
	if i < 0 || i >= len(d.faces) {
		panic(fmt.Sprintf("dice: face index %d out of range [0, %d)", i, len(d.faces)))
	}
	return d.faces[i]
}

// Faces returns a copy of the face values.
func (d Die) Faces() []int {
	out := make([]int, len(d.faces))
	copy(out, d.faces)
	return out
}

// String renders the die in the same comma-separated form it is parsed from.
func (d Die) String() string {
	parts := make([]string, len(d.faces))
	for i, f := range d.faces {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ",")
}

// Set is the ordered sequence of dice supplied for a match.
//
// Invariant: Len() >= MinDice.
type Set struct {
	dice []Die
}

// MinDice is the minimum number of dice required for a match: the first
// mover must leave the opponent a real choice.
const MinDice = 3

// NewSet constructs a Set from the given dice.
//
// Precondition: len(dice) >= MinDice.
func NewSet(dice []Die) (*Set, error) {
	if len(dice) < MinDice {
		return nil, fmt.Errorf("dice: at least %d dice are required, got %d", MinDice, len(dice))
	}
	owned := make([]Die, len(dice))
	copy(owned, dice)
	return &Set{dice: owned}, nil
}

// Len returns the number of dice in the set.
func (s *Set) Len() int { return len(s.dice) }

// Die returns the die at index i (0-based).
//
// Precondition: 0 <= i < Len(). Panics otherwise.
func (s *Set) Die(i int) Die {
	if i < 0 || i >= len(s.dice) {
		panic(fmt.Sprintf("dice: die index %d out of range [0, %d)", i, len(s.dice)))
	}
	return s.dice[i]
}
