package mcts

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// worker runs simulations on its own tree with its own random source
type worker[T MoveLike, P any] struct {
	id       int
	tree     *Tree[T, P]
	rand     *rand.Rand
	budget   uint32
	cycles   uint32
	maxdepth int32
}

// Runs Limits.NThreads workers, each building an independent tree from the
// root position with its own seeded random source. The cycle budget is
// split between them and their trees are merged into the main one by move,
// in worker order, so a fixed seed and thread count give the same result.
// Blocks until every worker is done.
func (mcts *MCTS[T, P]) SearchMultiThreaded(ctx context.Context) error {
	return mcts.search(ctx, mcts.Limiter.Limits().NThreads)
}

// Only sets the limits and resets the counters, doesn't start the search
func (mcts *MCTS[T, P]) setupSearch() {
	mcts.Limiter.Reset()
	mcts.cps.Store(0)
	mcts.cycles.Store(0)
	mcts.maxdepth.Store(0)
	mcts.searching.Store(true)
}

func (mcts *MCTS[T, P]) search(ctx context.Context, threads int) error {
	mcts.tree.generate(0, mcts.ops)
	root := mcts.tree.Root()
	if root.Terminal() || (len(root.untried) == 0 && len(root.Children) == 0) {
		return ErrNoMoves
	}

	threads = max(1, threads)
	mcts.setupSearch()
	defer mcts.searching.Store(false)

	workers := make([]*worker[T, P], threads)
	for id := range workers {
		tree := mcts.tree
		if id != mainThreadId {
			tree = newTree[T](root.Position, false)
		}
		workers[id] = &worker[T, P]{
			id:     id,
			tree:   tree,
			rand:   rand.New(rand.NewSource(mcts.seed + int64(id))),
			budget: mcts.budget(id, threads),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	mcts.Limiter.SetContext(gctx)
	for _, w := range workers {
		g.Go(func() error {
			mcts.work(w)
			return nil
		})
	}
	err := g.Wait()

	cyclesDone := true
	maxdepth := 0
	for _, w := range workers {
		cyclesDone = cyclesDone && w.cycles >= w.budget
		maxdepth = max(maxdepth, int(w.maxdepth))
	}
	mcts.Limiter.EvaluateStopReason(uint32(workers[mainThreadId].tree.Len()), maxdepth, cyclesDone)

	for _, w := range workers[1:] {
		mcts.tree.merge(0, w.tree, 0)
	}
	mcts.maxdepth.Store(int32(maxdepth))
	mcts.invokeListener(mcts.listener.onStop)
	return err
}

// Cycle budget of a worker, the remainder goes to the first workers
func (mcts *MCTS[T, P]) budget(id, threads int) uint32 {
	limits := mcts.Limiter.Limits()
	if limits.Infinite || limits.Cycles == DefaultCyclesLimit {
		return math.MaxUint32
	}
	per := limits.Cycles / uint32(threads)
	if uint32(id) < limits.Cycles%uint32(threads) {
		per++
	}
	return per
}

// Actual search loop of a worker, simply calls:
//
// 1. selection - to choose the most promising node, expanding one new child
//
// 2. rollout - to simulate the game from it and get the result
//
// 3. backpropagate - to update the counters up to the root
//
// Until runs out of the budget, time, or is stopped.
func (mcts *MCTS[T, P]) work(w *worker[T, P]) {
	for w.cycles < w.budget && mcts.Limiter.Ok(uint32(w.tree.Len()), int(w.maxdepth)) {
		node := mcts.Selection(w.tree, w.rand)
		leaf := w.tree.Node(node)
		depth := leaf.Depth
		result := mcts.ops.Rollout(leaf.Position, w.rand)
		mcts.strategy.Backpropagate(w.tree, node, result)

		w.cycles++
		total := mcts.cycles.Add(1)
		mcts.cps.Store(uint32(uint64(total) * 1000 / uint64(mcts.Limiter.Elapsed())))

		if depth > w.maxdepth {
			w.maxdepth = depth
			if w.id == mainThreadId {
				mcts.maxdepth.Store(depth)
				mcts.invokeListener(mcts.listener.onDepth)
			}
		}
		if w.id == mainThreadId {
			invokeCycle(mcts.listener, mcts, w.cycles)
		}
	}
}

// Selection descends from the root through fully expanded nodes using the
// selection policy, then expands one random untried move of the node it
// stopped at. Returns the node to simulate from.
func (mcts *MCTS[T, P]) Selection(tree *Tree[T, P], rng *rand.Rand) int32 {
	index := int32(0)
	for {
		node := tree.Node(index)
		if node.Terminal() {
			return index
		}
		tree.generate(index, mcts.ops)
		if !node.Expanded() {
			break
		}
		index = mcts.policy.Select(tree, index)
	}

	node := tree.Node(index)
	if len(node.untried) == 0 {
		// no legal moves, simulate from here
		return index
	}

	i := rng.Intn(len(node.untried))
	move := node.untried[i]
	last := len(node.untried) - 1
	node.untried[i] = node.untried[last]
	node.untried = node.untried[:last]

	position := mcts.ops.Play(node.Position, move)
	return tree.add(index, move, position, mcts.ops.Terminal(position))
}
