package magnets

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// mainEngine returns an empty board already in the main phase, player 1 to
// move with a full dice budget
func mainEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(WithSeed(42), WithLogger(quietLog()))
	e.state.Phase = PhaseMain
	e.state.Current = Player1
	e.state.Dice = 6
	e.state.Rolled = true
	return e
}

func put(t *testing.T, e *Engine, owner Owner, anchor Pos, o Orientation) MagnetID {
	t.Helper()
	shape, err := ShapeFor(o)
	require.NoError(t, err)
	for _, c := range shape.Cells(anchor) {
		require.True(t, c.InBounds(), "cell %s", c)
		require.True(t, e.board.At(c).Empty(), "cell %s taken", c)
	}
	return e.board.Place(shape, anchor, owner)
}

func sorted(ps []Pos) []Pos {
	return SortPositions(append([]Pos(nil), ps...))
}
