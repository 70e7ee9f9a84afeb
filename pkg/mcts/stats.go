package mcts

import (
	"math"
	"sync/atomic"
)

// Visit and reward counters of a node. Read and written with atomics, so a
// listener may look at them while a worker is running.
type NodeStats struct {
	q uint64 // compounded rewards for this node with 10^-3 precision
	n int32
}

// Average outcome for this node, 0 if it was never visited
func (stats *NodeStats) AvgQ() Result {
	n := stats.N()
	if n == 0 {
		return 0
	}
	return stats.Q() / Result(n)
}

// Cumulated rewards for this node
func (stats *NodeStats) Q() Result {
	return Result(atomic.LoadUint64(&stats.q)) / 1e3
}

// Raw cumulated rewards, with 10^-3 precision
func (stats *NodeStats) RawQ() uint64 {
	return atomic.LoadUint64(&stats.q)
}

// Add new outcome to this node
func (stats *NodeStats) AddQ(result Result) {
	atomic.AddUint64(&stats.q, uint64(math.Round(float64(result)*1e3)))
}

// Get number of visits to this node
func (stats *NodeStats) N() int32 {
	return atomic.LoadInt32(&stats.n)
}

func (stats *NodeStats) AddN(visits int32) {
	atomic.AddInt32(&stats.n, visits)
}

func (stats *NodeStats) Clone() NodeStats {
	return NodeStats{
		q: atomic.LoadUint64(&stats.q),
		n: atomic.LoadInt32(&stats.n),
	}
}

// merge adds other's counters to these
func (stats *NodeStats) merge(other *NodeStats) {
	atomic.AddUint64(&stats.q, other.RawQ())
	atomic.AddInt32(&stats.n, other.N())
}
