// Package probability computes pairwise win probabilities between dice and
// renders them as a text table for the interactive help screen.
package probability

import (
	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

// WinProbability returns the probability that a throw of a beats a throw of
// b, counting every (face of a, face of b) pair once. Ties count as
// non-wins.
//
// Postcondition: 0 <= result <= 1; WinProbability(a,b) + WinProbability(b,a) <= 1.
func WinProbability(a, b dice.Die) float64 {
	wins := 0
	for i := 0; i < a.Size(); i++ {
		for j := 0; j < b.Size(); j++ {
			if a.Face(i) > b.Face(j) {
				wins++
			}
		}
	}
	return float64(wins) / float64(a.Size()*b.Size())
}
