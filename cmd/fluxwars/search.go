package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/mcts"
)

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.out)
	seed := fs.Int64("seed", 0, "game and search seed, 0 picks one")
	sims := fs.Int("sims", a.cfg.Search.Simulations, "simulation budget")
	threads := fs.Int("threads", a.cfg.Search.Threads, "search workers")
	interval := fs.Int("interval", 0, "print the lines every N simulations of the main worker")
	lines := fs.Int("lines", 3, "number of lines to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gameSeed := a.seed(*seed)
	e, err := a.newGame(gameSeed)
	if err != nil {
		return err
	}
	if _, err := e.RollDice(); err != nil {
		return err
	}

	config := a.cfg.Search
	config.Simulations = *sims
	config.Threads = *threads
	config.Seed = gameSeed
	s := ai.NewTreeSearch(config, a.log)

	listener := mcts.NewStatsListener[ai.Move]()
	listener.OnStop(func(stats mcts.ListenerTreeStats[ai.Move]) {
		fmt.Fprintf(a.out, "search stopped (%s): %d cycles, %d nodes, depth %d, %d cps\n",
			stats.StopReason, stats.Cycles, stats.Size, stats.Maxdepth, stats.Cps)
	})
	if *interval > 0 {
		listener.OnCycle(func(stats mcts.ListenerTreeStats[ai.Move]) {
			if len(stats.Lines) > 0 {
				line := stats.Lines[0]
				fmt.Fprintf(a.out, "[cycle %d] best %s, eval %.3f, visits %d\n",
					stats.Cycles, line.BestMove, line.Eval, line.Visits)
			}
		}).SetCycleInterval(*interval)
	}
	s.Listener = &listener

	tree, err := s.Search(ctx, ai.PositionOf(e), e.Current())
	if err != nil {
		return err
	}

	tree.Limits().SetMultiPv(*lines)
	fmt.Fprintf(a.out, "%s to move, dice %d, seed %d\n", e.Current(), e.Dice(), gameSeed)
	for i, line := range tree.MultiPv(mcts.BestChildMostVisits) {
		root := tree.Tree().Node(line.Root)
		fmt.Fprintf(a.out, "%d. %s eval %.3f visits %d pv %v\n", i+1, root.Move, root.AvgQ(), root.N(), line.Pv)
	}
	return nil
}
