package ai

import (
	"testing"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/stretchr/testify/require"
)

// newGame returns a seeded game in the main phase, player 1 to move
func newGame(t *testing.T, seed int64) *magnets.Engine {
	t.Helper()
	e := magnets.NewEngine(magnets.WithSeed(seed), magnets.WithLogger(quietLog()))
	_, err := e.PlaceHome(4, 3, magnets.Orientation0)
	require.NoError(t, err)
	_, err = e.PlaceHome(9, 10, magnets.Orientation0)
	require.NoError(t, err)
	require.Equal(t, magnets.PhaseMain, e.Phase())
	return e
}

type piece struct {
	owner  magnets.Owner
	anchor magnets.Pos
	o      magnets.Orientation
}

// position builds a main phase position holding the given magnets
func position(t *testing.T, current magnets.Player, pieces ...piece) Position {
	t.Helper()
	var b magnets.Board
	for _, p := range pieces {
		shape, err := magnets.ShapeFor(p.o)
		require.NoError(t, err)
		for _, c := range shape.Cells(p.anchor) {
			require.True(t, c.InBounds(), "cell %s", c)
			require.True(t, b.At(c).Empty(), "cell %s taken", c)
		}
		b.Place(shape, p.anchor, p.owner)
	}
	return Position{Board: b, Current: current, Phase: magnets.PhaseMain}
}

func pos(r, c int) magnets.Pos {
	return magnets.Pos{Row: r, Col: c}
}

// firstLegal returns the first generated translation the engine accepts
func firstLegal(t *testing.T, e *magnets.Engine) Move {
	t.Helper()
	for _, m := range (SimplifiedModel{}).Moves(PositionOf(e)) {
		if legal(e, m) {
			return m
		}
	}
	t.Fatal("no legal move in the position")
	return Move{}
}
