package magnets

import "github.com/sirupsen/logrus"

// updateOwnership re-evaluates every initial partition against the current
// board. An entry belongs to a player once that player is the only owner
// among its cells, empty and neutral cells discarded. A change of owner
// moves the acquired count. Returns the indices of newly acquired entries.
func (e *Engine) updateOwnership() []int {
	var acquired []int
	for i := range e.state.Partition {
		entry := &e.state.Partition[i]
		owner, ok := e.soleOwner(entry)
		if !ok || owner == entry.Owner {
			continue
		}
		if entry.Owner.Valid() {
			e.state.Acquired[entry.Owner-1]--
		}
		entry.Owner = owner
		e.state.Acquired[owner-1]++
		e.state.LastAcquirer = owner
		acquired = append(acquired, i)
		e.log.WithFields(logrus.Fields{"cluster": i, "player": owner}).Debug("cluster acquired")
	}
	return acquired
}

// soleOwner looks at the entry's fixed cells, whatever stands on them now
func (e *Engine) soleOwner(entry *Partition) (Player, bool) {
	owner := NoPlayer
	for _, pos := range entry.Cells {
		p, ok := e.board.At(pos).Owner.Player()
		if !ok {
			continue
		}
		if owner != NoPlayer && owner != p {
			return NoPlayer, false
		}
		owner = p
	}
	return owner, owner != NoPlayer
}

// checkWinner applies the majority rule: more than half of the clusters
// wins outright. When every cluster is claimed and the counts tie, the last
// acquirer wins, or it's a draw if nobody acquired anything.
func (e *Engine) checkWinner() Winner {
	total := e.state.TotalClusters()
	if total == 0 || e.state.Phase == PhaseEnded {
		return e.state.Winner
	}

	a1, a2 := e.state.Acquired[0], e.state.Acquired[1]
	switch {
	case a1 > total/2:
		e.end(WinnerPlayer1, "majority")
	case a2 > total/2:
		e.end(WinnerPlayer2, "majority")
	case a1+a2 >= total && a1 == a2:
		e.end(winnerOf(e.state.LastAcquirer), "all clusters claimed")
	}
	return e.state.Winner
}

// resolve forces a result once the turn cap is hit
func (e *Engine) resolve() {
	if e.checkWinner() != WinnerNone {
		return
	}
	a1, a2 := e.state.Acquired[0], e.state.Acquired[1]
	switch {
	case a1 > a2:
		e.end(WinnerPlayer1, "turn limit")
	case a2 > a1:
		e.end(WinnerPlayer2, "turn limit")
	default:
		e.end(winnerOf(e.state.LastAcquirer), "turn limit")
	}
}

func (e *Engine) end(w Winner, cause string) {
	e.state.Winner = w
	e.state.Phase = PhaseEnded
	e.state.Dice = 0
	e.state.StealAllowed = NoPlayer
	e.log.WithFields(logrus.Fields{"winner": w, "cause": cause}).Info("game over")
}
