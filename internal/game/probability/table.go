package probability

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

const cornerLabel = "User dice v"

// RenderTable renders the pairwise win-probability matrix for set as an
// aligned text table. Rows are the user's die, columns the computer's;
// the diagonal (same die on both sides) is marked "- (p)".
//
// Precondition: set must be non-nil.
func RenderTable(set *dice.Set) string {
	n := set.Len()

	// Cell text first, widths second.
	header := make([]string, n+1)
	header[0] = cornerLabel
	for i := 0; i < n; i++ {
		header[i+1] = set.Die(i).String()
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, n+1)
		row[0] = set.Die(i).String()
		for j := 0; j < n; j++ {
			p := WinProbability(set.Die(i), set.Die(j))
			if i == j {
				row[j+1] = fmt.Sprintf("- (%.4f)", p)
			} else {
				row[j+1] = fmt.Sprintf("%.4f", p)
			}
		}
		rows[i] = row
	}

	widths := make([]int, n+1)
	for c := 0; c <= n; c++ {
		widths[c] = len(header[c])
		for _, row := range rows {
			if len(row[c]) > widths[c] {
				widths[c] = len(row[c])
			}
		}
	}

	var b strings.Builder
	b.WriteString("Probability of the win for the user:\n")
	writeSeparator(&b, widths)
	writeRow(&b, header, widths)
	writeSeparator(&b, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	writeSeparator(&b, widths)
	return b.String()
}

func writeSeparator(b *strings.Builder, widths []int) {
	for _, w := range widths {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("+\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for c, cell := range cells {
		fmt.Fprintf(b, "| %-*s ", widths[c], cell)
	}
	b.WriteString("|\n")
}
