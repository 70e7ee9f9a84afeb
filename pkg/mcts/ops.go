package mcts

import "math/rand"

// GameOperations is the forward model the search runs on. Positions are
// values: Play must return a new position and leave its input untouched,
// since every node keeps its own copy.
type GameOperations[T MoveLike, P any] interface {
	// Legal moves in the position, in a stable order
	Moves(P) []T
	// Position after playing the move
	Play(P, T) P
	// Whether the game is over in this position
	Terminal(P) bool
	// Simulate the game from the position and score it, the random source
	// belongs to the calling worker
	Rollout(P, *rand.Rand) Result
}
