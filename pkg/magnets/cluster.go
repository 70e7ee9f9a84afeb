package magnets

import "sort"

// MagneticCluster is the gameplay connectivity rule. Starting from a
// player-owned cell it expands through same-owner neighbours of alternating
// polarity. Neutral neighbours of opposite polarity to the touching player
// cell are included as leaves and never expanded. Opponent cells never join.
// Cells are returned in visiting order, start first.
func (b *Board) MagneticCluster(start Pos) []Pos {
	owner := b.At(start).Owner
	if _, ok := owner.Player(); !ok {
		return nil
	}

	visited := make(map[Pos]bool)
	queue := []Pos{start}
	cluster := make([]Pos, 0, 8)
	visited[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cluster = append(cluster, cur)
		pol := b.At(cur).Polarity

		for _, d := range neighbourDeltas {
			n := cur.Add(d)
			if !n.InBounds() || visited[n] {
				continue
			}
			neigh := b.At(n)
			if !neigh.Polarity.Polarized() || neigh.Polarity == pol {
				continue
			}
			switch neigh.Owner {
			case owner:
				visited[n] = true
				queue = append(queue, n)
			case OwnerNeutral:
				// Leaf, never queued
				visited[n] = true
				cluster = append(cluster, n)
			}
		}
	}
	return cluster
}

// AdjacencyCluster is the setup partition rule: plain 4-connected flood
// fill over the start cell's owner, polarity ignored. Empty start cells
// yield nil.
func (b *Board) AdjacencyCluster(start Pos) []Pos {
	owner := b.At(start).Owner
	if !start.InBounds() || owner == OwnerEmpty {
		return nil
	}

	visited := map[Pos]bool{start: true}
	stack := []Pos{start}
	cluster := make([]Pos, 0, 4)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cluster = append(cluster, cur)

		for _, d := range neighbourDeltas {
			n := cur.Add(d)
			if !n.InBounds() || visited[n] || b.At(n).Owner != owner {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return cluster
}

// SortPositions orders positions row-major, in place
func SortPositions(ps []Pos) []Pos {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Col < ps[j].Col
	})
	return ps
}

func containsPos(ps []Pos, p Pos) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
