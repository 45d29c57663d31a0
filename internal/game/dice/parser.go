package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDie parses a comma-separated integer list such as "2,2,4,4,9,9".
// Whitespace around values is tolerated.
//
// Precondition: spec must be non-empty.
// Postcondition: returns a Die with one face per value, or a descriptive error.
func ParseDie(spec string) (Die, error) {
	if strings.TrimSpace(spec) == "" {
		return Die{}, fmt.Errorf("dice: empty die specification")
	}

	parts := strings.Split(spec, ",")
	faces := make([]int, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Die{}, fmt.Errorf("dice: face %d of %q is not an integer: %w", i+1, spec, err)
		}
		faces = append(faces, v)
	}
	return NewDie(faces)
}

// ParseSet parses one die specification per argument into a Set.
//
// Postcondition: returns a Set with Len() == len(args), or an error when
// fewer than MinDice specifications are given or any fails to parse. No
// entropy is consumed on any path.
func ParseSet(args []string) (*Set, error) {
	if len(args) < MinDice {
		return nil, fmt.Errorf("dice: at least %d dice are required, got %d", MinDice, len(args))
	}
	dice := make([]Die, 0, len(args))
	for i, arg := range args {
		d, err := ParseDie(arg)
		if err != nil {
			return nil, fmt.Errorf("dice: die %d: %w", i+1, err)
		}
		dice = append(dice, d)
	}
	return NewSet(dice)
}
