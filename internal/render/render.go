// Package render draws games on a terminal with termenv colors. On a
// terminal without color support the output is plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/muesli/termenv"
)

// Colors of the two players and the neutral pieces
const (
	Player1Color = "#3B82F6"
	Player2Color = "#EF4444"
	NeutralColor = "#EAB308"
	DrawColor    = "#A3A3A3"
)

type Renderer struct {
	out *termenv.Output
}

func New(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) Output() *termenv.Output {
	return r.out
}

// Style of a text in the player's color
func (r *Renderer) Player(p magnets.Player, s string) termenv.Style {
	switch p {
	case magnets.Player1:
		return r.out.String(s).Foreground(r.out.Color(Player1Color))
	case magnets.Player2:
		return r.out.String(s).Foreground(r.out.Color(Player2Color))
	}
	return r.out.String(s).Foreground(r.out.Color(DrawColor))
}

func (r *Renderer) cell(c magnets.Cell) string {
	sign := " "
	if c.Polarity.Polarized() {
		sign = c.Polarity.String()
	}

	switch c.Owner {
	case magnets.OwnerPlayer1:
		return " " + r.Player(magnets.Player1, "1"+sign).Bold().String()
	case magnets.OwnerPlayer2:
		return " " + r.Player(magnets.Player2, "2"+sign).Bold().String()
	case magnets.OwnerNeutral:
		return " " + r.out.String("n"+sign).Foreground(r.out.Color(NeutralColor)).String()
	}
	return " " + r.out.String(" .").Faint().String()
}

// Board draws the grid in the same layout as magnets.Board.String
func (r *Renderer) Board(b magnets.Board) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := range magnets.Size {
		fmt.Fprintf(&sb, "%3d", c)
	}
	sb.WriteByte('\n')

	for row := range magnets.Size {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := range magnets.Size {
			sb.WriteString(r.cell(b.At(magnets.Pos{Row: row, Col: col})))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Status is a one line summary of the game
func (r *Renderer) Status(s magnets.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "phase %s, turn %d/%d", s.Phase, s.MainTurns, s.MaxMainTurns)

	switch s.Phase {
	case magnets.PhaseEnded:
		sb.WriteString(", winner ")
		sb.WriteString(r.Winner(s.Winner))
	case magnets.PhaseMain:
		fmt.Fprintf(&sb, ", %s to move, dice %d", r.Player(s.Current, s.Current.String()).Bold(), s.Dice)
	}
	fmt.Fprintf(&sb, ", clusters %s %d / %s %d of %d",
		r.Player(magnets.Player1, "P1"), s.AcquiredBy(magnets.Player1),
		r.Player(magnets.Player2, "P2"), s.AcquiredBy(magnets.Player2),
		s.TotalClusters())
	return sb.String()
}

func (r *Renderer) Winner(w magnets.Winner) string {
	return r.Player(w.Player(), w.String()).Bold().String()
}

// Game writes the status line and the board
func (r *Renderer) Game(w io.Writer, e *magnets.Engine) error {
	_, err := fmt.Fprintf(w, "%s\n%s", r.Status(e.State()), r.Board(e.Board()))
	return err
}
