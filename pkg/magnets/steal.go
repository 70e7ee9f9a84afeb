package magnets

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// StealTargets lists the opponent's cells the player may steal, row-major.
// Home magnets are never eligible. Preferred targets touch one of the
// player's cells of opposite polarity; if there are none, any opponent cell
// touching one of the player's cells qualifies.
func (e *Engine) StealTargets(player Player) []Pos {
	if !player.Valid() {
		return nil
	}
	opp := player.Opponent()
	home := e.state.HomeOf(opp).Magnet
	own := player.Owner()

	var strict, loose []Pos
	for r := range Size {
		for c := range Size {
			pos := Pos{r, c}
			cell := e.board.At(pos)
			if cell.Owner != opp.Owner() || !cell.Polarity.Polarized() {
				continue
			}
			if home != 0 && cell.Magnet == home {
				continue
			}

			touching, opposite := false, false
			for _, d := range neighbourDeltas {
				n := e.board.At(pos.Add(d))
				if n.Owner != own {
					continue
				}
				touching = true
				if n.Polarity.Polarized() && n.Polarity != cell.Polarity {
					opposite = true
				}
			}
			if opposite {
				strict = append(strict, pos)
			}
			if touching {
				loose = append(loose, pos)
			}
		}
	}
	if len(strict) > 0 {
		return strict
	}
	return loose
}

// Steal relocates the opponent magnet holding source so that source lands on
// target, next to one of the actor's cells; the partner goes to the side it
// was on, or the first free neighbour of target. The magnet becomes the
// actor's under a new id. Only allowed right after the top dice face and it
// does not spend the dice budget.
func (e *Engine) Steal(actor Player, source, target Pos) (Outcome, error) {
	if err := e.requireTurn(actor); err != nil {
		return Outcome{}, err
	}
	if e.state.StealAllowed != actor {
		return Outcome{}, violation(ReasonStealNotAllowed, "no steal granted this turn")
	}
	if !containsPos(e.StealTargets(actor), source) {
		return Outcome{}, violation(ReasonTargetNotEligible, "requested piece %s not eligible", source)
	}
	partner, ok := e.board.Partner(source)
	if !ok {
		return Outcome{}, e.fault(fmt.Errorf("%w: no partner for %s", ErrCorruptMagnet, source))
	}
	if !target.InBounds() {
		return Outcome{}, violation(ReasonOutOfBounds, "out of bounds")
	}
	if target != source && target != partner && !e.board.At(target).Empty() {
		return Outcome{}, violation(ReasonBlocked, "target %s is occupied", target)
	}

	srcCell, partnerCell := e.board.At(source), e.board.At(partner)
	next := e.board
	next.clear(source)
	next.clear(partner)

	if !touchesPolarized(&next, target, actor.Owner()) {
		return Outcome{}, violation(ReasonTargetNotEligible, "target %s does not touch your pieces", target)
	}
	partnerDst, ok := partnerSpot(&next, target, partner.Sub(source))
	if !ok {
		return Outcome{}, violation(ReasonNoSpaceForPartner, "no room next to %s for the other pole", target)
	}

	id := next.newMagnet()
	next.set(target, Cell{Owner: actor.Owner(), Polarity: srcCell.Polarity, Magnet: id})
	next.set(partnerDst, Cell{Owner: actor.Owner(), Polarity: partnerCell.Polarity, Magnet: id})
	e.state.StealAllowed = NoPlayer

	out := Outcome{Message: "Stole opponent piece."}
	e.log.WithFields(logrus.Fields{"player": actor, "from": source, "to": target}).Debug("steal")
	e.commit(&next, actor, &out)
	out.Cluster = e.clusterFrom(target)
	return out, nil
}

func touchesPolarized(b *Board, pos Pos, owner Owner) bool {
	for _, d := range neighbourDeltas {
		n := b.At(pos.Add(d))
		if n.Owner == owner && n.Polarity.Polarized() {
			return true
		}
	}
	return false
}

// partnerSpot tries the original offset first, then every direction in
// order
func partnerSpot(b *Board, target Pos, offset Delta) (Pos, bool) {
	candidates := make([]Delta, 0, 5)
	candidates = append(candidates, offset)
	for _, dir := range Directions {
		candidates = append(candidates, dir.Delta())
	}
	for _, d := range candidates {
		p := target.Add(d)
		if p != target && p.InBounds() && b.At(p).Empty() {
			return p, true
		}
	}
	return Pos{}, false
}
