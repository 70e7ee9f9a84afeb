package magnets

import "fmt"

// MoveCluster translates cluster by one step on behalf of actor. The cluster
// may hold the actor's cells and neutral cells; the partner of every cell
// is dragged along so magnets never split. On success the moved pieces pull
// and convert neutrals, ownership and the winner are re-evaluated and one
// move of the dice budget is spent. On failure the board is untouched.
func (e *Engine) MoveCluster(cluster []Pos, delta Delta, actor Player) (Outcome, error) {
	if err := e.requireTurn(actor); err != nil {
		return Outcome{}, err
	}
	if e.state.Dice <= 0 {
		return Outcome{}, violation(ReasonDiceExhausted, "no moves left, roll the dice or end the turn")
	}
	if !delta.Unit() {
		return Outcome{}, e.fault(fmt.Errorf("%w: delta %v is not a unit step", ErrMalformedInput, delta))
	}
	if err := e.validateCluster(cluster); err != nil {
		return Outcome{}, err
	}

	actorOwner := actor.Owner()
	for _, pos := range cluster {
		if o := e.board.At(pos).Owner; o != actorOwner && o != OwnerNeutral {
			return Outcome{}, violation(ReasonNotOwned, "cannot move opponent pieces")
		}
	}

	moving, err := e.board.MovingSet(cluster, actorOwner)
	if err != nil {
		if !IsRuleViolation(err) {
			return Outcome{}, e.fault(err)
		}
		return Outcome{}, err
	}
	if err := e.board.CheckShift(moving, delta); err != nil {
		return Outcome{}, err
	}

	// Copy-on-write: the live board is replaced only on commit
	next := e.board
	moved := next.Movers(next.Shift(moving, delta), actorOwner)

	out := Outcome{Message: "Cluster moved."}
	out.Pulled = forcePull(&next, moved)
	out.Converted = convert(&next, moved, actor)
	if len(out.Converted) > 0 {
		out.Message += " Converted neutrals."
	}

	e.commit(&next, actor, &out)
	out.Cluster = e.clusterFrom(cluster[0].Add(delta))
	e.consumeMove()
	return out, nil
}

// validateCluster rejects input no legal caller produces: empty, off-board
// or duplicated cells
func (e *Engine) validateCluster(cluster []Pos) error {
	if len(cluster) == 0 {
		return e.fault(fmt.Errorf("%w: empty cluster", ErrMalformedInput))
	}
	seen := make(map[Pos]bool, len(cluster))
	for _, pos := range cluster {
		if !pos.InBounds() {
			return e.fault(fmt.Errorf("%w: cluster cell %s is off the board", ErrMalformedInput, pos))
		}
		if seen[pos] {
			return e.fault(fmt.Errorf("%w: cluster cell %s listed twice", ErrMalformedInput, pos))
		}
		seen[pos] = true
	}
	return nil
}

// clusterFrom re-derives the selection after an action
func (e *Engine) clusterFrom(pos Pos) []Pos {
	if e.board.At(pos).Owner == OwnerNeutral {
		return e.board.AdjacencyCluster(pos)
	}
	return e.board.MagneticCluster(pos)
}

// forcePull attracts neutral magnets toward the moved cells: an opposite
// pole two steps away, with an empty cell in between, moves one step closer
// along with its partner. Pieces that just moved are never pulled. Earlier
// pulls win over later conflicting ones, a pull only lands on empty cells.
func forcePull(b *Board, moved []Pos) []MagnetID {
	var pulled []MagnetID

	for _, pos := range moved {
		pol := b.At(pos).Polarity
		if !pol.Polarized() {
			continue
		}
		for _, d := range neighbourDeltas {
			gap, far := pos.Add(d), pos.Add(d).Add(d)
			if !far.InBounds() || !b.At(gap).Empty() {
				continue
			}
			fc := b.At(far)
			if fc.Owner != OwnerNeutral || fc.Polarity != pol.Opposite() || containsMagnet(pulled, fc.Magnet) {
				continue
			}
			partner, ok := b.Partner(far)
			if !ok || b.At(partner).Owner != OwnerNeutral {
				continue
			}
			if containsPos(moved, far) || containsPos(moved, partner) {
				continue
			}

			step := d.Neg()
			src := [2]Pos{far, partner}
			dst := [2]Pos{far.Add(step), partner.Add(step)}
			if !pullFits(b, src, dst) {
				continue
			}

			cells := [2]Cell{b.At(src[0]), b.At(src[1])}
			b.clear(src[0])
			b.clear(src[1])
			b.set(dst[0], cells[0])
			b.set(dst[1], cells[1])
			pulled = append(pulled, fc.Magnet)
		}
	}
	return pulled
}

func pullFits(b *Board, src, dst [2]Pos) bool {
	for _, d := range dst {
		if !d.InBounds() {
			return false
		}
		if d != src[0] && d != src[1] && !b.At(d).Empty() {
			return false
		}
	}
	return true
}

// convert flips every neutral neighbour of opposite polarity of a moved
// cell to the actor, except the moved cell's own partner. Single hop: cells
// converted here are only inspected if they moved themselves.
func convert(b *Board, moved []Pos, actor Player) []Pos {
	var converted []Pos
	for _, pos := range moved {
		from := b.At(pos)
		pol := from.Polarity
		if !pol.Polarized() {
			continue
		}
		for _, d := range neighbourDeltas {
			n := pos.Add(d)
			if !n.InBounds() {
				continue
			}
			cell := b.At(n)
			if cell.Owner != OwnerNeutral || !cell.Polarity.Polarized() || cell.Polarity == pol {
				continue
			}
			if from.Magnet != 0 && cell.Magnet == from.Magnet {
				continue
			}
			cell.Owner = actor.Owner()
			b.set(n, cell)
			converted = append(converted, n)
		}
	}
	return converted
}

func containsMagnet(ids []MagnetID, id MagnetID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
