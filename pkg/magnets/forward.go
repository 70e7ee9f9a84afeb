package magnets

// Board level steps of a translation. The engine composes them with pull,
// ownership and turn bookkeeping; the search's forward model uses them
// directly on its private copies.

// MovingSet is the cluster plus the partner of each of its cells. A partner
// held by a player other than owner blocks the move.
func (b *Board) MovingSet(cluster []Pos, owner Owner) ([]Pos, error) {
	moving := append(make([]Pos, 0, 2*len(cluster)), cluster...)
	for _, pos := range cluster {
		if b.At(pos).Magnet == 0 {
			continue
		}
		partner, ok := b.Partner(pos)
		if !ok {
			return nil, fmtFault(ErrCorruptMagnet, "no partner for %s", pos)
		}
		if containsPos(moving, partner) {
			continue
		}
		if o := b.At(partner).Owner; o != owner && o != OwnerNeutral {
			return nil, violation(ReasonBlocked, "magnet at %s is held by the opponent at %s", pos, partner)
		}
		moving = append(moving, partner)
	}
	return moving, nil
}

// CheckShift verifies every cell can step by delta: the destination is on
// the board and either empty or one of the cells.
func (b *Board) CheckShift(cells []Pos, delta Delta) error {
	for _, pos := range cells {
		dst := pos.Add(delta)
		if !dst.InBounds() {
			return violation(ReasonOutOfBounds, "out of bounds")
		}
		if !b.At(dst).Empty() && !containsPos(cells, dst) {
			return violation(ReasonBlocked, "blocked at %s", dst)
		}
	}
	return nil
}

// Shift moves the cells one step and returns their destinations, in order.
// The move must have passed CheckShift.
func (b *Board) Shift(cells []Pos, delta Delta) []Pos {
	moved := make([]Cell, len(cells))
	for i, pos := range cells {
		moved[i] = b.At(pos)
		b.clear(pos)
	}
	dst := make([]Pos, len(cells))
	for i, pos := range cells {
		dst[i] = pos.Add(delta)
		b.set(dst[i], moved[i])
	}
	return dst
}

// Movers keeps the destinations that act on their neighbours once a move
// lands: the owner's cells and the neutrals carried along
func (b *Board) Movers(cells []Pos, owner Owner) []Pos {
	movers := make([]Pos, 0, len(cells))
	for _, pos := range cells {
		if o := b.At(pos).Owner; o == owner || o == OwnerNeutral {
			movers = append(movers, pos)
		}
	}
	return movers
}

// Convert hands every neutral neighbour of opposite polarity of the moved
// cells to actor, single hop. Returns the converted cells.
func (b *Board) Convert(moved []Pos, actor Player) []Pos {
	return convert(b, moved, actor)
}
