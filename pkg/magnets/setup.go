package magnets

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PlaceHome places the current player's home magnet. Once both homes are
// down the neutral pieces are seeded and the game enters the main phase.
func (e *Engine) PlaceHome(row, col int, orientation Orientation) (Outcome, error) {
	if e.state.Phase != PhaseHomeSetup {
		if e.state.Phase == PhaseNeutralSetup {
			return Outcome{}, violation(ReasonWrongPhase, "neutral pieces are placed automatically")
		}
		return Outcome{}, violation(ReasonWrongPhase, "cannot place in phase %s", e.state.Phase)
	}

	shape, err := ShapeFor(orientation)
	if err != nil {
		return Outcome{}, err
	}
	player := e.state.Current
	anchor := Pos{row, col}
	if err := e.board.CanPlace(shape, anchor, PhaseHomeSetup, player); err != nil {
		return Outcome{}, err
	}

	id := e.board.Place(shape, anchor, player.Owner())
	e.state.Homes[player-1] = Home{Placed: true, Anchor: anchor, Orientation: orientation, Magnet: id}
	e.log.WithFields(logrus.Fields{"player": player, "anchor": anchor, "orientation": orientation}).
		Info("home placed")

	if player == Player1 {
		e.state.Current = Player2
		return Outcome{Message: "Placed home piece."}, nil
	}

	e.state.Phase = PhaseNeutralSetup
	e.state.Current = Player1
	if err := e.SeedNeutrals(); err != nil {
		return Outcome{Message: "Placed home piece."}, err
	}
	return Outcome{Message: "Placed home piece. Neutral pieces seeded."}, nil
}

// PlaceNeutral always fails, neutral pieces are seeded by the engine
func (e *Engine) PlaceNeutral(player Player, row, col int, orientation Orientation) (Outcome, error) {
	if e.state.Phase != PhaseNeutralSetup {
		return Outcome{}, violation(ReasonWrongPhase, "cannot place in phase %s", e.state.Phase)
	}
	return Outcome{}, violation(ReasonWrongPhase, "neutral pieces are placed automatically")
}

// SeedNeutrals randomly places the neutral pieces on a scratch board,
// computes the initial partition and switches to the main phase. On failure
// nothing is committed and the game stays in the neutral setup phase.
func (e *Engine) SeedNeutrals() error {
	if e.state.Phase != PhaseNeutralSetup {
		return violation(ReasonWrongPhase, "cannot seed in phase %s", e.state.Phase)
	}

	next := e.board
	counts := [2]int{}
	target := e.rules.NeutralsPerSide

	for attempts := 0; (counts[0] < target || counts[1] < target) && attempts < e.rules.SeedAttempts; {
		for _, p := range [2]Player{Player1, Player2} {
			if counts[p-1] >= target {
				continue
			}
			if e.seedOne(&next, p) {
				counts[p-1]++
			}
			attempts++
		}
	}

	if counts[0] < target || counts[1] < target {
		return e.fault(fmt.Errorf("%w: placed %d/%d neutrals after %d attempts",
			ErrSeedingFailed, counts[0]+counts[1], 2*target, e.rules.SeedAttempts))
	}

	e.board = next
	e.state.NeutralCounts = counts
	e.state.Partition = buildPartition(&e.board)
	e.state.Phase = PhaseMain
	e.state.Current = Player1
	e.state.MainTurns = 0
	e.state.Dice = 0
	e.state.Rolled = false
	e.log.WithField("clusters", len(e.state.Partition)).Info("neutral pieces seeded, main phase")
	return nil
}

// seedOne tries to put a single neutral magnet into p's opponent half, at
// least NeutralSpacing (manhattan) away from every other neutral cell
func (e *Engine) seedOne(b *Board, p Player) bool {
	var cols []int
	for c := range Size {
		if InHalf(p.Opponent(), c) {
			cols = append(cols, c)
		}
	}

	for range e.rules.PieceAttempts {
		shape := shapes[Orientations[e.rng.Intn(len(Orientations))]]
		anchor := Pos{Row: e.rng.Intn(Size), Col: cols[e.rng.Intn(len(cols))]}

		if b.CanPlace(shape, anchor, PhaseNeutralSetup, p) != nil {
			continue
		}
		if tooClose(b, shape.Cells(anchor), e.rules.NeutralSpacing) {
			continue
		}
		b.Place(shape, anchor, OwnerNeutral)
		return true
	}
	return false
}

func tooClose(b *Board, cells [2]Pos, spacing int) bool {
	for r := range Size {
		for c := range Size {
			if b.cells[r][c].Owner != OwnerNeutral {
				continue
			}
			for _, cell := range cells {
				if cell.Distance(Pos{r, c}) < spacing {
					return true
				}
			}
		}
	}
	return false
}

// buildPartition groups the neutral cells into adjacency clusters, scanning
// row-major
func buildPartition(b *Board) []Partition {
	visited := make(map[Pos]bool)
	var partition []Partition

	for r := range Size {
		for c := range Size {
			pos := Pos{r, c}
			if b.At(pos).Owner != OwnerNeutral || visited[pos] {
				continue
			}
			cells := b.AdjacencyCluster(pos)
			for _, cell := range cells {
				visited[cell] = true
			}
			partition = append(partition, Partition{Cells: SortPositions(cells)})
		}
	}
	return partition
}
