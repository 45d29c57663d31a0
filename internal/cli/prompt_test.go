package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/fairdice/internal/cli"
	"github.com/cory-johannsen/fairdice/internal/config"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

func testSet(t *testing.T) *dice.Set {
	t.Helper()
	set, err := dice.ParseSet([]string{"2,2,4,4,9,9", "1,1,6,6,8,8", "3,3,5,5,7,7"})
	require.NoError(t, err)
	return set
}

func newTestPrompter(t *testing.T, input string, out *bytes.Buffer) *cli.Prompter {
	t.Helper()
	ui := config.UIConfig{Color: false, Prompt: "> "}
	help := func() string { return "HELP TABLE" }
	return cli.NewPrompter(strings.NewReader(input), out, testSet(t), help, ui)
}

func TestGuessFirstMove_Valid(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "1\n", &out)

	v, err := p.GuessFirstMove("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Contains(t, out.String(), "Try to guess my selection.")
	assert.Contains(t, out.String(), "X - exit")
	assert.Contains(t, out.String(), "? - help")
}

func TestMenu_RepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "abc\n9\n0\n", &out)

	v, err := p.GuessFirstMove("")
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Contains(t, out.String(), `Invalid selection "abc"`)
	assert.Contains(t, out.String(), `Invalid selection "9"`, "out-of-range numbers are invalid too")
}

func TestMenu_HelpRendersTableAndRepromptsWithoutConsumingTheTurn(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "?\n1\n", &out)

	v, err := p.GuessFirstMove("")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Contains(t, out.String(), "HELP TABLE")
	assert.Equal(t, 2, strings.Count(out.String(), "Try to guess my selection."),
		"help must re-render the menu")
}

func TestMenu_ExitUpperAndLower(t *testing.T) {
	for _, input := range []string{"X\n", "x\n"} {
		var out bytes.Buffer
		p := newTestPrompter(t, input, &out)
		_, err := p.GuessFirstMove("")
		assert.ErrorIs(t, err, cli.ErrExit, "input %q must request exit", input)
	}
}

func TestMenu_EOFBehavesLikeExit(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "", &out)
	_, err := p.GuessFirstMove("")
	assert.ErrorIs(t, err, cli.ErrExit)
}

func TestChooseDie_MenuKeysAreSetIndices(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "2\n", &out)

	// Die 1 already taken by the opponent; keys 0 and 2 remain.
	v, err := p.ChooseDie([]int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Contains(t, out.String(), "0 - 2,2,4,4,9,9")
	assert.Contains(t, out.String(), "2 - 3,3,5,5,7,7")
	assert.NotContains(t, out.String(), "1 - 1,1,6,6,8,8", "a taken die must not be offered")
}

func TestChooseDie_RejectsTakenIndex(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "1\n0\n", &out)

	v, err := p.ChooseDie([]int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Contains(t, out.String(), `Invalid selection "1"`)
}

func TestContribute_FullRange(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "5\n", &out)

	v, err := p.Contribute(5, "")
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Contains(t, out.String(), "Add your number modulo 6.")
	assert.Contains(t, out.String(), "0 - 0")
	assert.Contains(t, out.String(), "5 - 5")
}

func TestContribute_BoundZero(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, "0\n", &out)

	v, err := p.Contribute(0, "")
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestColorize_WrapsTitleWhenEnabled(t *testing.T) {
	var out bytes.Buffer
	ui := config.UIConfig{Color: true, Prompt: "> "}
	p := cli.NewPrompter(strings.NewReader("1\n"), &out, testSet(t), func() string { return "" }, ui)

	_, err := p.GuessFirstMove("")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\x1b[36mTry to guess my selection.\x1b[0m")
}
