package mcts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"
)

const (
	branchFactor = 20
	gameLength   = 8
)

type Move int

type dummyPos struct {
	depth int
	first Move
}

var dummyRoot = dummyPos{first: -1}

// A dummy game: every position has 'branchFactor' moves, the game ends after
// 'gameLength' plies and rollouts are random (0.5 == draw, 1 == win, 0 == loss)
type DummyOps struct{}

func (DummyOps) Moves(p dummyPos) []Move {
	moves := make([]Move, branchFactor)
	for i := range moves {
		moves[i] = Move(i)
	}
	return moves
}

func (DummyOps) Play(p dummyPos, m Move) dummyPos {
	if p.depth == 0 {
		p.first = m
	}
	p.depth++
	return p
}

func (DummyOps) Terminal(p dummyPos) bool {
	return p.depth >= gameLength
}

func (DummyOps) Rollout(p dummyPos, r *rand.Rand) Result {
	switch r.Intn(3) {
	case 0:
		return 0.5
	case 1:
		return 1.0
	default:
		return 0.0
	}
}

// Same game, but one first move always wins
type biasedOps struct {
	DummyOps
	winning Move
}

func (b biasedOps) Rollout(p dummyPos, r *rand.Rand) Result {
	if p.first == b.winning {
		return 1.0
	}
	return b.DummyOps.Rollout(p, r)
}

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", SeedGeneratorFn())

	os.Exit(m.Run())
}

func GetDummyMCTS(t *testing.T) *MCTS[Move, dummyPos] {
	tree := NewMCTS[Move](DummyOps{}, dummyRoot, nil, nil)
	tree.SetLimits(DefaultLimits().SetCycles(10000))
	if err := tree.Search(context.Background()); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	return tree
}

// Tests checking if the search is working correctly

func TestDummySearch(t *testing.T) {
	tree := GetDummyMCTS(t)

	if len(tree.Root().Children) == 0 {
		t.Fatal("No children found after search")
	}
	if tree.Cycles() != 10000 || tree.Root().N() != 10000 {
		t.Fatalf("cycles=%d root visits=%d, want 10000", tree.Cycles(), tree.Root().N())
	}
	if tree.StopReason() != StopCycles {
		t.Fatalf("stop reason %s, want Cycles", tree.StopReason())
	}
	if _, ok := tree.RootMove(); !ok {
		t.Fatal("No root move after search")
	}
	if tree.Count() != int(tree.Size()) {
		t.Fatalf("reachable nodes %d != arena size %d", tree.Count(), tree.Size())
	}

	pv, _ := tree.Pv(0, BestChildMostVisits, false)
	t.Logf("eval %.2f cps %d cycles %d pv %v", tree.RootScore(), tree.Cps(), tree.Cycles(), pv)
}

func TestSearchFindsWinningMove(t *testing.T) {
	for _, threads := range []int{1, 4} {
		tree := NewMCTS[Move](biasedOps{winning: 13}, dummyRoot, nil, RootPerspective[Move, dummyPos]{})
		tree.SetLimits(DefaultLimits().SetCycles(4000).SetThreads(threads))
		if err := tree.SearchMultiThreaded(context.Background()); err != nil {
			t.Fatalf("threads=%d: search failed: %v", threads, err)
		}

		move, ok := tree.RootMove()
		if !ok || move != 13 {
			t.Fatalf("threads=%d: root move %v (ok=%v), want 13", threads, move, ok)
		}
		if score := tree.RootScore(); score != 1.0 {
			t.Fatalf("threads=%d: root score %.3f, want 1", threads, score)
		}
	}
}

func rootVisits(tree *MCTS[Move, dummyPos]) [branchFactor]int32 {
	var visits [branchFactor]int32
	for _, index := range tree.Root().Children {
		node := tree.Tree().Node(index)
		visits[node.Move] = node.N()
	}
	return visits
}

func TestSearchIsDeterministic(t *testing.T) {
	for _, threads := range []int{1, 3} {
		run := func() (Move, [branchFactor]int32) {
			tree := NewMCTS[Move](DummyOps{}, dummyRoot, nil, nil)
			tree.SetSeed(7)
			tree.SetLimits(DefaultLimits().SetCycles(3000).SetThreads(threads))
			if err := tree.SearchMultiThreaded(context.Background()); err != nil {
				t.Fatalf("search failed: %v", err)
			}
			move, _ := tree.RootMove()
			return move, rootVisits(tree)
		}

		m1, v1 := run()
		m2, v2 := run()
		if m1 != m2 || v1 != v2 {
			t.Fatalf("threads=%d: searches differ: %v %v vs %v %v", threads, m1, v1, m2, v2)
		}
	}
}

func TestDummySearchRootParallel(t *testing.T) {
	tree := NewMCTS[Move](DummyOps{}, dummyRoot, nil, nil)
	tree.SetLimits(DefaultLimits().SetCycles(4001).SetThreads(4))
	if err := tree.SearchMultiThreaded(context.Background()); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if tree.Root().N() != 4001 || tree.Cycles() != 4001 {
		t.Fatalf("root visits %d cycles %d, want 4001", tree.Root().N(), tree.Cycles())
	}

	seen := make(map[Move]bool)
	var sum int32
	for _, index := range tree.Root().Children {
		node := tree.Tree().Node(index)
		if seen[node.Move] {
			t.Fatalf("move %v merged twice", node.Move)
		}
		seen[node.Move] = true
		sum += node.N()
	}
	if len(seen)+len(tree.Root().Untried()) != branchFactor {
		t.Fatalf("children %d + untried %d != %d", len(seen), len(tree.Root().Untried()), branchFactor)
	}
	if sum != tree.Root().N() {
		t.Fatalf("children visits %d != root visits %d", sum, tree.Root().N())
	}
	if tree.Count() != int(tree.Size()) {
		t.Fatalf("reachable nodes %d != arena size %d", tree.Count(), tree.Size())
	}
}

func TestDummySearchWithListener(t *testing.T) {
	tree := NewMCTS[Move](DummyOps{}, dummyRoot, nil, nil)
	tree.SetLimits(DefaultLimits().SetCycles(10000).SetThreads(4))

	stops, cycles := 0, 0
	listener := NewStatsListener[Move]()
	listener.
		OnDepth(func(stats ListenerTreeStats[Move]) {
			mainLine := stats.Lines[0]
			t.Logf("depth %d cycle %d cps %d eval %.2f pv %v", stats.Maxdepth, stats.Cycles, stats.Cps, mainLine.Eval, mainLine.Moves)
		}).
		OnCycle(func(stats ListenerTreeStats[Move]) {
			cycles++
		}).
		SetCycleInterval(500).
		OnStop(func(stats ListenerTreeStats[Move]) {
			stops++
			if stats.StopReason != StopCycles {
				t.Errorf("stop reason %s, want Cycles", stats.StopReason)
			}
			if stats.Cycles != 10000 {
				t.Errorf("cycles %d, want 10000", stats.Cycles)
			}
			t.Logf("stop reason %s after %d cycles, maxdepth %d cps %d pv %v", stats.StopReason, stats.Cycles, stats.Maxdepth, stats.Cps, stats.Lines[0].Moves)
		})

	tree.SetListener(listener)
	if err := tree.SearchMultiThreaded(context.Background()); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stops != 1 {
		t.Fatalf("OnStop called %d times, want 1", stops)
	}
	// main worker runs 2500 cycles
	if cycles != 5 {
		t.Fatalf("OnCycle called %d times, want 5", cycles)
	}

	pv, _ := tree.Pv(0, BestChildMostVisits, false)
	if len(pv) <= 2 {
		t.Fatalf("No pv found after search, %v", pv)
	}
}

func TestSearchContextCancel(t *testing.T) {
	tree := NewMCTS[Move](DummyOps{}, dummyRoot, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tree.Search(ctx); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if tree.StopReason()&StopInterrupt == 0 {
		t.Fatalf("stop reason %s, want Interrupt", tree.StopReason())
	}
	if tree.Cycles() == 0 || tree.IsSearching() {
		t.Fatalf("cycles %d searching %v", tree.Cycles(), tree.IsSearching())
	}
}

func TestSearchNoMoves(t *testing.T) {
	tree := NewMCTS[Move](DummyOps{}, dummyPos{depth: gameLength}, nil, nil)
	tree.SetLimits(DefaultLimits().SetCycles(10))

	if err := tree.Search(context.Background()); !errors.Is(err, ErrNoMoves) {
		t.Fatalf("err = %v, want ErrNoMoves", err)
	}
	if _, ok := tree.RootMove(); ok {
		t.Fatal("root move found in a terminal position")
	}
}

// Actual unit tests for MCTS components, like subtree copies, UCB1 calculation, etc.

func TestMakeMove(t *testing.T) {
	tree := GetDummyMCTS(t)

	maxdepth := tree.MaxDepth()
	size := tree.Size()
	pv, _ := tree.Pv(0, BestChildMostVisits, false)
	if len(pv) <= 2 {
		t.Fatalf("No pv found after search, %v", pv)
	}

	if tree.MakeMove(Move(branchFactor + 1)) {
		t.Fatal("MakeMove accepted a move that is not a root child")
	}
	if !tree.MakeMove(pv[0]) {
		t.Fatalf("MakeMove(%v) failed", pv[0])
	}

	if tree.MaxDepth() >= maxdepth {
		t.Fatalf("Max depth not decreased after MakeMove, was %d, now %d", maxdepth, tree.MaxDepth())
	}
	if tree.Size() >= size {
		t.Fatalf("Tree size not decreased after MakeMove, was %d, now %d", size, tree.Size())
	}
	if root := tree.Root(); root.Parent != -1 || root.Depth != 0 || root.Position.depth != 1 {
		t.Fatalf("bad new root %v", root)
	}

	newPv, _ := tree.Pv(0, BestChildMostVisits, false)
	if len(pv)-1 != len(newPv) {
		t.Fatalf("PV length not decreased after MakeMove, was %d, now %d", len(pv), len(newPv))
	}
	for i := range newPv {
		if pv[i+1] != newPv[i] {
			t.Fatalf("PV move %d not matching after MakeMove, was %v, now %v", i, pv, newPv)
		}
	}
	t.Logf("Tree size before move: %d, after move: %d", size, tree.Size())
}

func deepCompare(t1 *Tree[Move, dummyPos], i1 int32, t2 *Tree[Move, dummyPos], i2 int32) bool {
	n1, n2 := t1.Node(i1), t2.Node(i2)
	if n1.Move != n2.Move || n1.Flags != n2.Flags || n1.Position != n2.Position {
		return false
	}
	if n1.N() != n2.N() || n1.RawQ() != n2.RawQ() {
		return false
	}
	if len(n1.Children) != len(n2.Children) || len(n1.untried) != len(n2.untried) {
		return false
	}
	for i := range n1.Children {
		if !deepCompare(t1, n1.Children[i], t2, n2.Children[i]) {
			return false
		}
	}
	return true
}

func TestSubtreeCopy(t *testing.T) {
	tree := GetDummyMCTS(t)
	clone := tree.Tree().subtree(0)

	if !deepCompare(tree.Tree(), 0, clone, 0) {
		t.Fatal("Copied tree does not match original")
	}
	for _, child := range clone.Root().Children {
		if clone.Node(child).Parent != 0 {
			t.Fatal("Copied child's parent does not point to copied root")
		}
	}

	clone.Root().AddN(1)
	if clone.Root().N() == tree.Root().N() {
		t.Fatal("Copy shares statistics with the original")
	}
}

func TestUCB1Select(t *testing.T) {
	tree := newTree[Move](dummyRoot, false)
	a := tree.add(0, 0, dummyPos{depth: 1, first: 0}, false)
	b := tree.add(0, 1, dummyPos{depth: 1, first: 1}, false)
	c := tree.add(0, 2, dummyPos{depth: 1, first: 2}, false)

	tree.Root().AddN(20)
	tree.Node(a).AddN(10)
	tree.Node(a).AddQ(5)
	tree.Node(b).AddN(10)
	tree.Node(b).AddQ(8)

	policy := NewUCB1[Move, dummyPos](1.41)
	if got := policy.Select(tree, 0); got != c {
		t.Fatalf("Select = %d, want the unvisited child %d", got, c)
	}

	tree.Node(c).AddN(10)
	tree.Node(c).AddQ(2)
	if got := policy.Select(tree, 0); got != b {
		t.Fatalf("Select = %d, want the best win rate %d", got, b)
	}

	// a leaf is its own selection
	if got := policy.Select(tree, c); got != c {
		t.Fatalf("Select on a leaf = %d, want %d", got, c)
	}
}

func TestBackpropagate(t *testing.T) {
	build := func() (*Tree[Move, dummyPos], int32, int32) {
		tree := newTree[Move](dummyRoot, false)
		a := tree.add(0, 3, dummyPos{depth: 1, first: 3}, false)
		b := tree.add(a, 4, dummyPos{depth: 2, first: 3}, false)
		return tree, a, b
	}

	tree, a, b := build()
	RootPerspective[Move, dummyPos]{}.Backpropagate(tree, b, 1.0)
	for _, i := range []int32{0, a, b} {
		if n := tree.Node(i); n.N() != 1 || n.Q() != 1.0 {
			t.Fatalf("root perspective node %d: n=%d q=%.2f", i, n.N(), n.Q())
		}
	}

	tree, a, b = build()
	ZeroSum[Move, dummyPos]{}.Backpropagate(tree, b, 1.0)
	want := map[int32]Result{b: 0, a: 1, 0: 0}
	for i, q := range want {
		if n := tree.Node(i); n.N() != 1 || n.Q() != q {
			t.Fatalf("zero sum node %d: n=%d q=%.2f, want q=%.2f", i, n.N(), n.Q(), q)
		}
	}
	if tree.Node(b).Depth != 2 {
		t.Fatalf("depth %d, want 2", tree.Node(b).Depth)
	}
}
