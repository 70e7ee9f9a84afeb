package mcts

import "time"

// Main thread id, which has some privileges, like calling the listener during the search
const mainThreadId = 0

// Exploration parameter used in UCB1 formula, higher values increase exploration
// while lower values increase exploitation.
var ExplorationParam float64 = 1.41

// Set the exploration parameter used in UCB1 formula
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for random number generators in MCTS,
// by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

const (
	// When choosing the best child, choose the one with most visits,
	// this is the go-to method for MCTS
	BestChildMostVisits BestChildPolicy = iota

	// Choose the child with the best win rate, among the ones with enough visits
	BestChildWinRate
)
