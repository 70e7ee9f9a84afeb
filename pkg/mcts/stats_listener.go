package mcts

type SearchLine[T MoveLike] struct {
	BestMove T
	Moves    []T
	Eval     float64
	Visits   int32
	Terminal bool
}

type ListenerTreeStats[T MoveLike] struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	Lines      []SearchLine[T]
	StopReason StopReason
}

// Convert the tree's state to 'ListenerTreeStats' struct
func toListenerStats[T MoveLike, P any](mcts *MCTS[T, P]) ListenerTreeStats[T] {
	pv := mcts.MultiPv(BestChildMostVisits)
	lines := make([]SearchLine[T], len(pv))
	for i := range pv {
		root := mcts.tree.Node(pv[i].Root)
		lines[i] = SearchLine[T]{
			BestMove: root.Move,
			Moves:    pv[i].Pv,
			Eval:     float64(root.AvgQ()),
			Visits:   root.N(),
			Terminal: pv[i].Terminal,
		}
	}

	return ListenerTreeStats[T]{
		Lines:      lines,
		Maxdepth:   mcts.MaxDepth(),
		Cycles:     mcts.Cycles(),
		TimeMs:     int(mcts.Limiter.Elapsed()),
		Cps:        mcts.Cps(),
		Size:       mcts.Size(),
		StopReason: mcts.Limiter.StopReason(),
	}
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[T MoveLike] func(ListenerTreeStats[T])

type StatsListener[T MoveLike] struct {
	// called when 'max depth' of the main tree increases
	onDepth ListenerFunc[T]

	// called every N iterations of the main worker
	onCycle ListenerFunc[T]
	nCycles int

	// called once the search stops and the workers' trees are merged
	onStop ListenerFunc[T]
}

func NewStatsListener[T MoveLike]() StatsListener[T] {
	return StatsListener[T]{nCycles: 1}
}

// Attach new on max depth change callback, called only by the main worker,
// meaning no need for synchronization here
func (listener *StatsListener[T]) OnDepth(onDepth ListenerFunc[T]) *StatsListener[T] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration callback, this slows the search down because of
// the pv evaluation, so use a large interval
func (listener *StatsListener[T]) OnCycle(onCycle ListenerFunc[T]) *StatsListener[T] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[T]) SetCycleInterval(n int) *StatsListener[T] {
	listener.nCycles = max(n, 1)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[T]) OnStop(onStop ListenerFunc[T]) *StatsListener[T] {
	listener.onStop = onStop
	return listener
}

func invokeCycle[T MoveLike, P any](listener *StatsListener[T], mcts *MCTS[T, P], cycles uint32) {
	if listener.onCycle != nil && cycles%uint32(listener.nCycles) == 0 {
		listener.onCycle(toListenerStats(mcts))
	}
}
