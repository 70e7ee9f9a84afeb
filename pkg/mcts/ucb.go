package mcts

import "math"

// Chooses which child of parent the search descends into
type SelectionPolicy[T MoveLike, P any] interface {
	Select(tree *Tree[T, P], parent int32) int32
}

type UCB1[T MoveLike, P any] struct {
	ExplorationParam float64
}

func NewUCB1[T MoveLike, P any](explorationParam float64) *UCB1[T, P] {
	return &UCB1[T, P]{ExplorationParam: max(0, explorationParam)}
}

func (u *UCB1[T, P]) SetExplorationParam(c float64) {
	u.ExplorationParam = max(0, c)
}

// Select picks the first unvisited child, otherwise the one maximizing
// wins/visits + C * sqrt(2 * ln(parent_visits) / visits)
func (u *UCB1[T, P]) Select(tree *Tree[T, P], parent int32) int32 {
	node := tree.Node(parent)
	if node.Terminal() || len(node.Children) == 0 {
		return parent
	}

	best := node.Children[0]
	bestScore := math.Inf(-1)
	lnParentVisits := math.Log(float64(max(node.N(), 1)))

	for _, index := range node.Children {
		child := tree.Node(index)
		visits := child.N()
		if visits == 0 {
			return index
		}

		ucb1 := float64(child.Q())/float64(visits) +
			u.ExplorationParam*math.Sqrt(2*lnParentVisits/float64(visits))
		if ucb1 > bestScore {
			bestScore = ucb1
			best = index
		}
	}
	return best
}
