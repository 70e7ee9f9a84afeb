package magnets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupScenario(t *testing.T) {
	e := NewEngine(WithSeed(42), WithLogger(quietLog()))
	require.Equal(t, PhaseHomeSetup, e.Phase())

	_, err := e.PlaceHome(4, 3, Orientation0)
	require.NoError(t, err)

	b := e.Board()
	assert.Equal(t, Cell{Owner: OwnerPlayer1, Polarity: PolarityPositive, Magnet: 1}, b.At(Pos{4, 3}))
	assert.Equal(t, Cell{Owner: OwnerPlayer1, Polarity: PolarityNegative, Magnet: 1}, b.At(Pos{4, 4}))
	assert.Equal(t, PhaseHomeSetup, e.Phase())
	assert.Equal(t, Player2, e.Current())

	_, err = e.PlaceHome(9, 10, Orientation0)
	require.NoError(t, err)

	s := e.State()
	assert.Equal(t, PhaseMain, s.Phase)
	assert.Equal(t, Player1, s.Current)
	assert.Equal(t, 0, s.Dice)
	assert.Equal(t, [2]int{4, 4}, s.NeutralCounts)
	assert.Len(t, s.Partition, 8, "neutrals are spaced apart, one cluster each")
	assert.Equal(t, Home{Placed: true, Anchor: Pos{9, 10}, Orientation: Orientation0, Magnet: 2}, s.HomeOf(Player2))

	b = e.Board()
	assert.Equal(t, 16, b.Count(OwnerNeutral))
	for r := range Size {
		assert.NotEqual(t, OwnerNeutral, b.At(Pos{r, MiddleColumn}).Owner)
	}
	for _, entry := range s.Partition {
		assert.Len(t, entry.Cells, 2)
	}
	assert.NoError(t, e.CheckInvariants())
}

func TestSetupIsDeterministic(t *testing.T) {
	play := func() Board {
		e := NewEngine(WithSeed(7), WithLogger(quietLog()))
		_, err := e.PlaceHome(4, 3, Orientation0)
		require.NoError(t, err)
		_, err = e.PlaceHome(9, 10, Orientation0)
		require.NoError(t, err)
		return e.Board()
	}
	assert.Equal(t, play(), play())
}

func TestPlaceHomeRejections(t *testing.T) {
	e := NewEngine(WithSeed(1), WithLogger(quietLog()))

	_, err := e.PlaceHome(4, 9, Orientation0)
	assert.ErrorIs(t, err, ErrWrongHalf)
	_, err = e.PlaceHome(4, 6, Orientation0)
	assert.ErrorIs(t, err, ErrForbiddenColumn)
	_, err = e.PlaceHome(4, 3, 45)
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.Equal(t, Board{}, e.Board())

	_, err = e.PlaceNeutral(Player1, 4, 10, Orientation0)
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = e.RollDice()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestSeedingFailure(t *testing.T) {
	rules := DefaultRules()
	rules.NeutralsPerSide = 40
	rules.SeedAttempts = 200
	rules.PieceAttempts = 50
	e := NewEngine(WithSeed(3), WithLogger(quietLog()), WithRules(rules))

	_, err := e.PlaceHome(4, 3, Orientation0)
	require.NoError(t, err)
	_, err = e.PlaceHome(9, 10, Orientation0)
	require.ErrorIs(t, err, ErrSeedingFailed)
	assert.False(t, IsRuleViolation(err))

	assert.Equal(t, PhaseNeutralSetup, e.Phase())
	b := e.Board()
	assert.Zero(t, b.Count(OwnerNeutral), "nothing committed")
}

func TestReset(t *testing.T) {
	e := NewEngine(WithSeed(42), WithLogger(quietLog()))
	id := e.ID()
	_, err := e.PlaceHome(4, 3, Orientation0)
	require.NoError(t, err)

	e.Reset()
	assert.NotEqual(t, id, e.ID())
	assert.Equal(t, Board{}, e.Board())
	assert.Equal(t, PhaseHomeSetup, e.Phase())
	assert.Equal(t, Player1, e.Current())
	assert.Equal(t, 4, e.State().MaxMainTurns)
}

func TestCloneIsIndependent(t *testing.T) {
	e := clusterBoard(t)
	e.state.Partition = []Partition{{Cells: []Pos{{5, 5}}}}

	c := e.Clone()
	_, err := c.MoveCluster(c.SelectCluster(Pos{5, 3}), Delta{-1, 0}, Player1)
	require.Error(t, err, "(4,3) is in the way")
	_, err = c.MoveCluster(c.SelectCluster(Pos{4, 3}), Delta{-1, 0}, Player1)
	require.NoError(t, err)
	c.state.Partition[0].Owner = Player2

	assert.Equal(t, Cell{Owner: OwnerPlayer1, Polarity: PolarityPositive, Magnet: 2}, e.board.At(Pos{4, 3}))
	assert.Equal(t, NoPlayer, e.state.Partition[0].Owner)
	assert.Equal(t, 6, e.Dice())
}

func TestRollDice(t *testing.T) {
	e := mainEngine(t)
	e.state.Dice = 0
	e.state.Rolled = false

	sawSix := false
	for range 200 {
		e.state.Rolled = false
		roll, err := e.RollDice()
		require.NoError(t, err)
		require.GreaterOrEqual(t, roll.Value, 1)
		require.LessOrEqual(t, roll.Value, 6)
		assert.Equal(t, roll.Value, e.Dice())

		if roll.Value == 6 {
			sawSix = true
			assert.Equal(t, Player1, e.state.StealAllowed)
		} else {
			assert.Equal(t, NoPlayer, e.state.StealAllowed)
		}

		_, err = e.RollDice()
		assert.ErrorIs(t, err, ErrAlreadyRolled)
	}
	assert.True(t, sawSix)
}

func TestNextPlayer(t *testing.T) {
	e := mainEngine(t)
	e.state.StealAllowed = Player1

	assert.Equal(t, Player2, e.NextPlayer())
	s := e.State()
	assert.Equal(t, 0, s.Dice)
	assert.False(t, s.Rolled)
	assert.Equal(t, NoPlayer, s.StealAllowed)
	assert.Equal(t, 1, s.MainTurns)

	_, err := e.EndTurn(Player1)
	assert.ErrorIs(t, err, ErrNotYourTurn)
	p, err := e.EndTurn(Player2)
	require.NoError(t, err)
	assert.Equal(t, Player1, p)
}

func TestNextPlayerOutsideMainPhase(t *testing.T) {
	e := NewEngine(WithSeed(42), WithLogger(quietLog()))
	assert.Equal(t, Player1, e.NextPlayer())
	assert.Equal(t, Player1, e.Current())

	_, err := e.PlaceHome(4, 3, Orientation0)
	require.NoError(t, err)
	assert.Equal(t, Player2, e.NextPlayer())
	assert.Equal(t, PhaseHomeSetup, e.Phase())
	assert.Equal(t, 0, e.State().MainTurns)

	_, err = e.PlaceHome(9, 10, Orientation0)
	require.NoError(t, err)
	assert.Equal(t, PhaseMain, e.Phase())
	assert.Equal(t, Player1, e.Current())
}

func TestTurnCapResolution(t *testing.T) {
	cases := []struct {
		name     string
		acquired [2]int
		last     Player
		total    int
		want     Winner
	}{
		{"no clusters", [2]int{0, 0}, NoPlayer, 0, WinnerDraw},
		{"more clusters", [2]int{1, 0}, Player1, 3, WinnerPlayer1},
		{"player two ahead", [2]int{0, 1}, Player2, 4, WinnerPlayer2},
		{"tie broken by last acquirer", [2]int{1, 1}, Player2, 4, WinnerPlayer2},
		{"tie without acquirer", [2]int{0, 0}, NoPlayer, 4, WinnerDraw},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := mainEngine(t)
			e.state.Partition = make([]Partition, tc.total)
			e.state.Acquired = tc.acquired
			e.state.LastAcquirer = tc.last

			for range 3 {
				e.NextPlayer()
				require.Equal(t, PhaseMain, e.Phase())
			}
			e.NextPlayer()
			assert.Equal(t, PhaseEnded, e.Phase())
			assert.Equal(t, tc.want, e.Winner())

			// ended games ignore further turn changes
			cur := e.Current()
			assert.Equal(t, cur, e.NextPlayer())
			_, err := e.EndTurn(cur)
			assert.ErrorIs(t, err, ErrGameEnded)
		})
	}
}

func TestCheckWinner(t *testing.T) {
	cases := []struct {
		name     string
		acquired [2]int
		last     Player
		want     Winner
	}{
		{"majority", [2]int{3, 0}, Player1, WinnerPlayer1},
		{"half is not a majority", [2]int{2, 1}, Player1, WinnerNone},
		{"player two majority", [2]int{1, 3}, Player2, WinnerPlayer2},
		{"all claimed tie", [2]int{2, 2}, Player2, WinnerPlayer2},
		{"all claimed tie no acquirer", [2]int{2, 2}, NoPlayer, WinnerDraw},
		{"open", [2]int{1, 1}, Player1, WinnerNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := mainEngine(t)
			e.state.Partition = make([]Partition, 4)
			e.state.Acquired = tc.acquired
			e.state.LastAcquirer = tc.last

			assert.Equal(t, tc.want, e.checkWinner())
			if tc.want == WinnerNone {
				assert.Equal(t, PhaseMain, e.Phase())
			} else {
				assert.Equal(t, PhaseEnded, e.Phase())
			}
		})
	}
}

func TestOwnershipTransfer(t *testing.T) {
	e := mainEngine(t)
	id := put(t, e, OwnerNeutral, Pos{3, 3}, Orientation0)
	e.state.Partition = buildPartition(&e.board)
	e.state.Partition = append(e.state.Partition, make([]Partition, 3)...)

	e.board.cells[3][3].Owner = OwnerPlayer2
	assert.Equal(t, []int{0}, e.updateOwnership())
	assert.Equal(t, [2]int{0, 1}, e.state.Acquired)
	assert.Equal(t, Player2, e.state.LastAcquirer)

	// mixed owners keep the previous owner
	e.board.cells[3][4].Owner = OwnerPlayer1
	assert.Empty(t, e.updateOwnership())
	assert.Equal(t, Player2, e.state.Partition[0].Owner)

	e.board.cells[3][3].Owner = OwnerPlayer1
	assert.Equal(t, []int{0}, e.updateOwnership())
	assert.Equal(t, [2]int{1, 0}, e.state.Acquired)
	assert.Equal(t, Player1, e.state.LastAcquirer)

	cells, ok := e.board.MagnetCells(id)
	require.True(t, ok)
	assert.Equal(t, [2]Pos{{3, 3}, {3, 4}}, cells)
}
