// Package cli implements the interactive prompter: numbered menus with an
// exit option and a help option that renders the probability table. Invalid
// input is recovered locally by re-prompting and never propagates; an exit
// request surfaces as ErrExit so the orchestrator can tear down cleanly.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/fairdice/internal/config"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

// ErrExit is returned from any input-waiting point when the user asks to
// leave (the X option) or the input stream ends.
var ErrExit = errors.New("cli: exit requested")

const (
	ansiCyan  = "\x1b[36m"
	ansiReset = "\x1b[0m"
)

// Prompter reads menu selections from an input stream and writes prompts to
// an output stream. It implements match.Player.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	set     *dice.Set
	help    func() string
	prompt  string
	color   bool
}

// NewPrompter creates a Prompter over the given streams.
//
// Precondition: in, out, and set must be non-nil; help must render the
// probability table (or other help text) when invoked.
func NewPrompter(in io.Reader, out io.Writer, set *dice.Set, help func() string, ui config.UIConfig) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		set:     set,
		help:    help,
		prompt:  ui.Prompt,
		color:   ui.Color,
	}
}

// GuessFirstMove asks for the user's guess of the committed first-move bit.
func (p *Prompter) GuessFirstMove(_ string) (int, error) {
	return p.menu("Try to guess my selection.", []int{0, 1}, []string{"0", "1"})
}

// ChooseDie asks the user to pick one of the still-selectable dice.
// Menu keys are the dice's indices in the set, so the numbering stays
// stable after the computer has taken one.
func (p *Prompter) ChooseDie(options []int) (int, error) {
	labels := make([]string, len(options))
	for i, idx := range options {
		labels[i] = p.set.Die(idx).String()
	}
	return p.menu("Choose your die:", options, labels)
}

// Contribute asks for the user's additive contribution for a throw.
func (p *Prompter) Contribute(bound int, _ string) (int, error) {
	values := make([]int, bound+1)
	labels := make([]string, bound+1)
	for i := 0; i <= bound; i++ {
		values[i] = i
		labels[i] = strconv.Itoa(i)
	}
	title := fmt.Sprintf("Add your number modulo %d.", bound+1)
	return p.menu(title, values, labels)
}

// menu renders a numbered menu and reads until a valid selection, exit, or
// end of input. Help re-prompts without consuming the turn.
func (p *Prompter) menu(title string, values []int, labels []string) (int, error) {
	for {
		fmt.Fprintln(p.out, p.colorize(title))
		for i, v := range values {
			fmt.Fprintf(p.out, "%d - %s\n", v, labels[i])
		}
		fmt.Fprintln(p.out, "X - exit")
		fmt.Fprintln(p.out, "? - help")
		fmt.Fprint(p.out, p.prompt)

		if !p.scanner.Scan() {
			// End of input: treat like an explicit exit request.
			return 0, ErrExit
		}
		line := strings.TrimSpace(p.scanner.Text())

		switch strings.ToUpper(line) {
		case "X":
			return 0, ErrExit
		case "?":
			fmt.Fprintln(p.out, p.help())
			continue
		}

		v, err := strconv.Atoi(line)
		if err == nil {
			for _, valid := range values {
				if v == valid {
					return v, nil
				}
			}
		}
		fmt.Fprintf(p.out, "Invalid selection %q, try again.\n", line)
	}
}

func (p *Prompter) colorize(s string) string {
	if !p.color {
		return s
	}
	return ansiCyan + s + ansiReset
}
