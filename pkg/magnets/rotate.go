package magnets

import "fmt"

// Rotate turns an actor-owned magnet 90 degrees clockwise around its first
// cell. Costs one move of the dice budget, and the rotated magnet pulls and
// converts like a translated one.
func (e *Engine) Rotate(cluster []Pos, actor Player) (Outcome, error) {
	if err := e.requireTurn(actor); err != nil {
		return Outcome{}, err
	}
	if e.state.Dice <= 0 {
		return Outcome{}, violation(ReasonDiceExhausted, "no moves left, roll the dice or end the turn")
	}
	if len(cluster) != 2 {
		return Outcome{}, violation(ReasonInvalidShape, "only a single magnet can rotate")
	}
	if err := e.validateCluster(cluster); err != nil {
		return Outcome{}, err
	}

	pivot, second := cluster[0], cluster[1]
	pc, sc := e.board.At(pivot), e.board.At(second)
	if pc.Owner != actor.Owner() || sc.Owner != actor.Owner() {
		return Outcome{}, violation(ReasonNotOwned, "can only rotate your own magnet")
	}
	if pc.Magnet == 0 || pc.Magnet != sc.Magnet {
		return Outcome{}, violation(ReasonInvalidShape, "cells %s and %s are not one magnet", pivot, second)
	}
	offset := second.Sub(pivot)
	if !offset.Unit() {
		return Outcome{}, e.fault(fmt.Errorf("%w: magnet %d cells are not adjacent", ErrCorruptMagnet, pc.Magnet))
	}

	dst := pivot.Add(offset.RotateCW())
	if !dst.InBounds() {
		return Outcome{}, violation(ReasonOutOfBounds, "out of bounds")
	}
	if dst != second && !e.board.At(dst).Empty() {
		return Outcome{}, violation(ReasonBlocked, "blocked at %s", dst)
	}

	next := e.board
	next.clear(second)
	next.set(dst, sc)
	moved := []Pos{pivot, dst}

	out := Outcome{Message: "Magnet rotated."}
	out.Pulled = forcePull(&next, moved)
	out.Converted = convert(&next, moved, actor)
	if len(out.Converted) > 0 {
		out.Message += " Converted neutrals."
	}

	e.commit(&next, actor, &out)
	out.Cluster = e.clusterFrom(pivot)
	e.consumeMove()
	return out, nil
}
