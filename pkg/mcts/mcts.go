package mcts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
)

// Returned by the search when the root position has no legal moves
var ErrNoMoves = errors.New("mcts: no legal moves in the root position")

type TreeStats struct {
	maxdepth atomic.Int32
	cps      atomic.Uint32
	cycles   atomic.Uint32
}

type MCTS[T MoveLike, P any] struct {
	TreeStats
	Limiter   LimiterLike
	listener  *StatsListener[T]
	policy    SelectionPolicy[T, P]
	strategy  StrategyLike[T, P]
	ops       GameOperations[T, P]
	tree      *Tree[T, P]
	seed      int64
	searching atomic.Bool
}

// Create new tree rooted at the given position. A nil policy defaults to
// UCB1 with ExplorationParam, a nil strategy to ZeroSum.
func NewMCTS[T MoveLike, P any](
	operations GameOperations[T, P],
	root P,
	selectionPolicy SelectionPolicy[T, P],
	strategy StrategyLike[T, P],
) *MCTS[T, P] {
	if selectionPolicy == nil {
		selectionPolicy = NewUCB1[T, P](ExplorationParam)
	}
	if strategy == nil {
		strategy = ZeroSum[T, P]{}
	}

	return &MCTS[T, P]{
		Limiter:  LimiterLike(NewLimiter()),
		listener: &StatsListener[T]{nCycles: 1},
		policy:   selectionPolicy,
		strategy: strategy,
		ops:      operations,
		tree:     newTree[T](root, operations.Terminal(root)),
		seed:     SeedGeneratorFn(),
	}
}

func (mcts *MCTS[T, P]) invokeListener(f ListenerFunc[T]) {
	if f != nil {
		f(toListenerStats(mcts))
	}
}

func (mcts *MCTS[T, P]) ResetListener() {
	mcts.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

func (mcts *MCTS[T, P]) StatsListener() *StatsListener[T] {
	return mcts.listener
}

func (mcts *MCTS[T, P]) SetListener(listener StatsListener[T]) {
	*mcts.listener = listener
}

// Seed of the main worker's random source, worker i uses seed + i
func (mcts *MCTS[T, P]) SetSeed(seed int64) {
	mcts.seed = seed
}

func (mcts *MCTS[T, P]) Seed() int64 {
	return mcts.seed
}

func (mcts *MCTS[T, P]) IsSearching() bool {
	return mcts.searching.Load()
}

// Stop the search
func (mcts *MCTS[T, P]) Stop() {
	mcts.Limiter.SetStop(true)
}

// Maxiumum depth reached during the search, note that usually MaxDepth != len(pv)
func (mcts *MCTS[T, P]) MaxDepth() int {
	return int(mcts.maxdepth.Load())
}

// Total number of simulations ran during the last search, over all workers
func (mcts *MCTS[T, P]) Cycles() int {
	return int(mcts.cycles.Load())
}

// Get cycles per second statistic
func (mcts *MCTS[T, P]) Cps() uint32 {
	return mcts.cps.Load()
}

// Get the reason why the search was stopped, valid after search ends
func (mcts *MCTS[T, P]) StopReason() StopReason {
	return mcts.Limiter.StopReason()
}

func (mcts *MCTS[T, P]) SetLimits(limits *Limits) {
	mcts.Limiter.SetLimits(limits)
}

func (mcts *MCTS[T, P]) Limits() *Limits {
	return mcts.Limiter.Limits()
}

func (mcts *MCTS[T, P]) Strategy() StrategyLike[T, P] {
	return mcts.strategy
}

// The main tree, don't touch it while searching
func (mcts *MCTS[T, P]) Tree() *Tree[T, P] {
	return mcts.tree
}

func (mcts *MCTS[T, P]) Root() *NodeBase[T, P] {
	return mcts.tree.Root()
}

func (mcts *MCTS[T, P]) String() string {
	return fmt.Sprintf("MCTS={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, Searching=%v, Root=%v}",
		mcts.Size(), mcts.MaxDepth(), mcts.Cps(), mcts.Cycles(), mcts.IsSearching(), mcts.tree.Root())
}

// Get the size of the tree (by counting reachable nodes)
func (mcts *MCTS[T, P]) Count() int {
	return mcts.tree.count(0)
}

// Get the size of the tree
func (mcts *MCTS[T, P]) Size() uint32 {
	return uint32(mcts.tree.Len())
}

// Tries to make given 'move' the new root, keeping its subtree.
// Returns false if the root has no such child.
func (mcts *MCTS[T, P]) MakeMove(move T) bool {
	if mcts.IsSearching() {
		return false
	}

	child := mcts.tree.ChildByMove(0, move)
	if child == -1 {
		return false
	}

	mcts.tree = mcts.tree.subtree(child)
	mcts.maxdepth.Store(max(0, int32(mcts.MaxDepth()-1)))
	return true
}

// Discard the tree and start over from the given position
func (mcts *MCTS[T, P]) Reset(root P) {
	if mcts.IsSearching() {
		mcts.Stop()
	}
	mcts.tree = newTree[T](root, mcts.ops.Terminal(root))
	mcts.maxdepth.Store(0)
	mcts.cycles.Store(0)
	mcts.cps.Store(0)
}

// 'the best move' in the position, the most visited root child
func (mcts *MCTS[T, P]) RootMove() (T, bool) {
	var move T
	best := mcts.BestChild(0, BestChildMostVisits)
	if best == -1 {
		return move, false
	}
	return mcts.tree.Node(best).Move, true
}

// Current evaluation of the position, from the best child's point of view
func (mcts *MCTS[T, P]) RootScore() Result {
	if best := mcts.BestChild(0, BestChildMostVisits); best != -1 {
		return mcts.tree.Node(best).AvgQ()
	}
	return Result(math.NaN())
}

// Return best child of the node based on the policy, -1 if there is none.
// Ties go to the child expanded first.
func (mcts *MCTS[T, P]) BestChild(node int32, policy BestChildPolicy) int32 {
	best := int32(-1)
	parent := mcts.tree.Node(node)

	switch policy {
	case BestChildMostVisits:
		var maxVisits int32
		for _, index := range parent.Children {
			if v := mcts.tree.Node(index).N(); v > maxVisits {
				maxVisits = v
				best = index
			}
		}
	case BestChildWinRate:
		const minVisitsThreshold = 10
		bestWinRate := -1.0
		for _, index := range parent.Children {
			child := mcts.tree.Node(index)
			if child.N() < minVisitsThreshold {
				continue
			}
			if wr := float64(child.AvgQ()); wr > bestWinRate {
				bestWinRate = wr
				best = index
			}
		}
	}
	return best
}

type PvResult[T MoveLike] struct {
	Root     int32
	Pv       []T
	Terminal bool
}

// Returns the best move lines, as many as Limits.MultiPv
func (mcts *MCTS[T, P]) MultiPv(policy BestChildPolicy) []PvResult[T] {
	pvCount := mcts.Limiter.Limits().MultiPv
	roots := slices.Clone(mcts.tree.Root().Children)
	slices.SortStableFunc(roots, func(a, b int32) int {
		return int(mcts.tree.Node(b).N()) - int(mcts.tree.Node(a).N())
	})

	multipv := make([]PvResult[T], 0, pvCount)
	for i := 0; i < pvCount && i < len(roots); i++ {
		pv, terminal := mcts.Pv(roots[i], policy, true)
		multipv = append(multipv, PvResult[T]{
			Root:     roots[i],
			Pv:       pv,
			Terminal: terminal,
		})
	}
	return multipv
}

// Get the principal variation (ie. the best sequence of nodes)
// from given starting node, returns whether it ends in a terminal node
func (mcts *MCTS[T, P]) PvNodes(from int32, policy BestChildPolicy, includeRoot bool) ([]int32, bool) {
	pv := make([]int32, 0, mcts.MaxDepth()+1)
	if includeRoot {
		pv = append(pv, from)
	}

	node := from
	for {
		next := mcts.BestChild(node, policy)
		if next == -1 {
			break
		}
		pv = append(pv, next)
		node = next
	}
	return pv, mcts.tree.Node(node).Terminal()
}

// Get the principal variation, but only the moves
func (mcts *MCTS[T, P]) Pv(from int32, policy BestChildPolicy, includeRoot bool) ([]T, bool) {
	nodes, terminal := mcts.PvNodes(from, policy, includeRoot)
	pv := make([]T, len(nodes))
	for i, index := range nodes {
		pv[i] = mcts.tree.Node(index).Move
	}
	return pv, terminal
}

// Runs the search on a single worker, see SearchMultiThreaded
func (mcts *MCTS[T, P]) Search(ctx context.Context) error {
	return mcts.search(ctx, 1)
}
