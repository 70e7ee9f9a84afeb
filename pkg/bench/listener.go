package bench

// ListenerLike receives the arena's progress. Workers call it from their
// own goroutines, so implementations must be safe for concurrent use.
type ListenerLike interface {
	OnStart(info VersusSummary)
	// After every turn of a game
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo)
	// When a worker has played all of its games
	OnFinishedWork(info VersusWorkerInfo)
	OnEnd(summary VersusSummary)
}

// DefaultListener ignores everything
type DefaultListener struct{}

func (DefaultListener) OnStart(VersusSummary)           {}
func (DefaultListener) OnMoveMade(VersusWorkerInfo)     {}
func (DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (DefaultListener) OnEnd(VersusSummary)             {}
