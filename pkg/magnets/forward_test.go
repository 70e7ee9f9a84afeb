package magnets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingSet(t *testing.T) {
	e := mainEngine(t)
	put(t, e, OwnerPlayer1, Pos{5, 3}, Orientation0)
	put(t, e, OwnerNeutral, Pos{5, 5}, Orientation0)
	b := e.Board()

	cluster := b.MagneticCluster(Pos{5, 3})
	moving, err := b.MovingSet(cluster, OwnerPlayer1)
	require.NoError(t, err)
	assert.Equal(t, sorted([]Pos{{5, 3}, {5, 4}, {5, 5}, {5, 6}}), sorted(moving))
	assert.Equal(t, cluster, moving[:len(cluster)], "cluster first")

	b.cells[5][6].Owner = OwnerPlayer2
	_, err = b.MovingSet(cluster, OwnerPlayer1)
	assert.ErrorIs(t, err, ErrBlocked)

	b.cells[5][6] = Cell{}
	_, err = b.MovingSet(cluster, OwnerPlayer1)
	assert.ErrorIs(t, err, ErrCorruptMagnet)
	assert.False(t, IsRuleViolation(err))
}

func TestCheckShiftAndShift(t *testing.T) {
	e := mainEngine(t)
	put(t, e, OwnerPlayer1, Pos{0, 0}, Orientation0)
	put(t, e, OwnerNeutral, Pos{1, 2}, Orientation0)
	b := e.Board()
	cells := []Pos{{0, 0}, {0, 1}}

	assert.ErrorIs(t, b.CheckShift(cells, Delta{-1, 0}), ErrOutOfBounds)
	assert.ErrorIs(t, b.CheckShift(cells, Delta{0, -1}), ErrOutOfBounds)
	assert.NoError(t, b.CheckShift(cells, Delta{0, 1}), "own cells make room")
	assert.ErrorIs(t, b.CheckShift([]Pos{{0, 2}}, Delta{1, 0}), ErrBlocked)

	before := b
	dst := b.Shift(cells, Delta{0, 1})
	assert.Equal(t, []Pos{{0, 1}, {0, 2}}, dst)
	assert.True(t, b.At(Pos{0, 0}).Empty())
	assert.Equal(t, before.At(Pos{0, 0}), b.At(Pos{0, 1}))
	assert.Equal(t, before.At(Pos{0, 1}), b.At(Pos{0, 2}))
	assert.NoError(t, b.CheckInvariants())
}

func TestBoardConvert(t *testing.T) {
	e := mainEngine(t)
	put(t, e, OwnerPlayer1, Pos{5, 3}, Orientation0)
	put(t, e, OwnerNeutral, Pos{5, 5}, Orientation0)
	b := e.Board()

	converted := b.Convert([]Pos{{5, 4}}, Player1)
	assert.Equal(t, []Pos{{5, 5}}, converted)
	assert.Equal(t, OwnerPlayer1, b.At(Pos{5, 5}).Owner)
	assert.Equal(t, OwnerNeutral, b.At(Pos{5, 6}).Owner)
	assert.Equal(t, OwnerNeutral, e.board.At(Pos{5, 5}).Owner, "the engine's board is a copy")
}

func TestCloneWithRandLeavesSourceAlone(t *testing.T) {
	a, b := mainEngine(t), mainEngine(t)
	a.Clone(WithSeed(3))
	assert.Equal(t, a.rng.Int63(), b.rng.Int63())

	a.Clone()
	assert.NotEqual(t, a.rng.Int63(), b.rng.Int63())
}
