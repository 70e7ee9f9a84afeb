package mcts

// Other types, which didn't fit to MCTS or Node files

// Result of the rollout, should range from [0, 1]. Whose perspective it is
// depends on the strategy, see RootPerspective and ZeroSum
type Result float64
type MoveLike comparable
type BestChildPolicy int
type SeedGeneratorFnType func() int64
