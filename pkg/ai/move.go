package ai

import (
	"fmt"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
)

type MoveKind uint8

const (
	Translate MoveKind = iota
	Rotate
	Steal
)

func (k MoveKind) String() string {
	switch k {
	case Translate:
		return "MOVE"
	case Rotate:
		return "ROTATE"
	case Steal:
		return "STEAL"
	}
	return fmt.Sprintf("MoveKind(%d)", uint8(k))
}

// Move is a single action of a player. It names an anchor cell rather than
// a whole cluster, the cluster is re-derived when the move is applied, so a
// Move stays comparable and cheap to copy.
type Move struct {
	Kind   MoveKind
	Anchor magnets.Pos
	Dir    magnets.Direction
	// Destination of a steal
	Target magnets.Pos
}

func (m Move) String() string {
	switch m.Kind {
	case Rotate:
		return fmt.Sprintf("ROTATE %s", m.Anchor)
	case Steal:
		return fmt.Sprintf("STEAL %s %s", m.Anchor, m.Target)
	}
	return fmt.Sprintf("MOVE %s %s", m.Anchor, m.Dir)
}

// Apply plays the move on the engine on behalf of actor
func (m Move) Apply(e *magnets.Engine, actor magnets.Player) (magnets.Outcome, error) {
	switch m.Kind {
	case Translate:
		return e.MoveCluster(e.SelectCluster(m.Anchor), m.Dir.Delta(), actor)
	case Rotate:
		b := e.Board()
		partner, ok := b.Partner(m.Anchor)
		if !ok {
			return magnets.Outcome{}, fmt.Errorf("%w: no magnet at %s", magnets.ErrMalformedInput, m.Anchor)
		}
		return e.Rotate([]magnets.Pos{m.Anchor, partner}, actor)
	case Steal:
		return e.Steal(actor, m.Anchor, m.Target)
	}
	return magnets.Outcome{}, fmt.Errorf("%w: unknown move kind %d", magnets.ErrMalformedInput, m.Kind)
}
