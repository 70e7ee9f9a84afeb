package ai

import "github.com/IlikeChooros/fluxwars/pkg/magnets"

// Position is the search's private view of a game: its own copy of the
// grid and the few state fields the forward model needs. It never aliases
// the live engine.
type Position struct {
	Board   magnets.Board
	Current magnets.Player
	Phase   magnets.Phase
	Ply     int
}

// PositionOf snapshots the engine
func PositionOf(e *magnets.Engine) Position {
	return Position{
		Board:   e.Board(),
		Current: e.Current(),
		Phase:   e.Phase(),
	}
}

// ForwardModel is the game as the tree search sees it. Implementations
// must treat positions as values.
type ForwardModel interface {
	// Translations available to the player to move
	Moves(Position) []Move
	Apply(Position, Move) Position
	Terminal(Position) bool
	// Player ahead in the position, NoPlayer on a tie
	Leader(Position) magnets.Player
}

// SimplifiedModel approximates the rules for fast simulations. Translations
// only: the cluster and the partners it drags move one step, then moved
// pieces convert neighbouring neutrals of opposite polarity, single hop.
// There is no force-pull, rotation, steal, dice or cluster ownership, every
// move hands the turn over, and the leader is the one with more pieces.
type SimplifiedModel struct{}

func (SimplifiedModel) Moves(p Position) []Move {
	if p.Phase == magnets.PhaseEnded || !p.Current.Valid() {
		return nil
	}

	var moves []Move
	owner := p.Current.Owner()
	for _, cluster := range Clusters(&p.Board, p.Current) {
		moving, err := p.Board.MovingSet(cluster, owner)
		if err != nil {
			continue
		}
		for _, dir := range magnets.Directions {
			if p.Board.CheckShift(moving, dir.Delta()) == nil {
				moves = append(moves, Move{Kind: Translate, Anchor: cluster[0], Dir: dir})
			}
		}
	}
	return moves
}

func (SimplifiedModel) Apply(p Position, m Move) Position {
	next := p
	next.Current = p.Current.Opponent()
	next.Ply++

	owner := p.Current.Owner()
	cluster := p.Board.MagneticCluster(m.Anchor)
	moving, err := p.Board.MovingSet(cluster, owner)
	if m.Kind != Translate || len(cluster) == 0 || err != nil {
		return next
	}
	if next.Board.CheckShift(moving, m.Dir.Delta()) != nil {
		return next
	}

	moved := next.Board.Movers(next.Board.Shift(moving, m.Dir.Delta()), owner)
	next.Board.Convert(moved, p.Current)
	return next
}

func (SimplifiedModel) Terminal(p Position) bool {
	return p.Phase == magnets.PhaseEnded
}

func (SimplifiedModel) Leader(p Position) magnets.Player {
	p1, p2 := p.Board.Count(magnets.OwnerPlayer1), p.Board.Count(magnets.OwnerPlayer2)
	switch {
	case p1 > p2:
		return magnets.Player1
	case p2 > p1:
		return magnets.Player2
	}
	return magnets.NoPlayer
}

// Clusters lists the player's magnetic clusters, each started from its
// first cell in row-major order, which is also the cluster's anchor
func Clusters(b *magnets.Board, player magnets.Player) [][]magnets.Pos {
	var clusters [][]magnets.Pos
	visited := make(map[magnets.Pos]bool)
	owner := player.Owner()

	for r := range magnets.Size {
		for c := range magnets.Size {
			pos := magnets.Pos{Row: r, Col: c}
			if visited[pos] || b.At(pos).Owner != owner {
				continue
			}
			cluster := b.MagneticCluster(pos)
			for _, cell := range cluster {
				visited[cell] = true
			}
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}
