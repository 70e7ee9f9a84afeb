package mcts

// Walks from the simulated node up to the root, updating the statistics
type StrategyLike[T MoveLike, P any] interface {
	Backpropagate(tree *Tree[T, P], node int32, result Result)
}

// RootPerspective treats the result as the score of a single player and
// credits it unchanged to every ancestor. Selection then optimizes that
// player's outcome at every level, opponent nodes included.
type RootPerspective[T MoveLike, P any] struct{}

func (RootPerspective[T, P]) Backpropagate(tree *Tree[T, P], node int32, result Result) {
	for node >= 0 {
		n := tree.Node(node)
		n.AddN(1)
		n.AddQ(result)
		node = n.Parent
	}
}

// ZeroSum assumes a 2 player game where the result is given for the player
// to move at the simulated node, and the value for the opponent is exactly
// 1 - result. Each node keeps the value of the player who moved into it.
type ZeroSum[T MoveLike, P any] struct{}

func (ZeroSum[T, P]) Backpropagate(tree *Tree[T, P], node int32, result Result) {
	for node >= 0 {
		result = 1.0 - result
		n := tree.Node(node)
		n.AddN(1)
		n.AddQ(result)
		node = n.Parent
	}
}
