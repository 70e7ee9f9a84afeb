package main

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/IlikeChooros/fluxwars/pkg/bench"
	"github.com/sirupsen/logrus"
)

func (a *app) arena(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p1 := fs.String("p1", "easy", "tier of the first player: easy, normal or expert")
	p2 := fs.String("p2", a.cfg.Difficulty.String(), "tier of the second player")
	games := fs.Int("games", 20, "number of games")
	workers := fs.Int("workers", 2, "games played at once")
	seed := fs.Int64("seed", 0, "seed of the first game, 0 picks one")
	live := fs.Bool("live", false, "rewrite one status line per worker in place")
	asJSON := fs.Bool("json", false, "print only the summary, as json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	first, err := a.player(*p1, a.cfg.Search)
	if err != nil {
		return err
	}
	second, err := a.player(*p2, a.cfg.Search)
	if err != nil {
		return err
	}

	arena := bench.NewVersusArena(first, second)
	arena.Rules = a.cfg.Rules
	// engines log every action, keep the arena readable
	arena.Log = a.log.WithField("arena", true)
	if a.log.Logger.GetLevel() < logrus.DebugLevel {
		quiet := logrus.New()
		quiet.SetLevel(logrus.WarnLevel)
		quiet.SetOutput(a.log.Logger.Out)
		arena.Log = logrus.NewEntry(quiet)
	}
	arena.Setup(*games, *workers, a.seed(*seed))

	var listener bench.ListenerLike = bench.NewTerminalListener(a.out, *live)
	if *asJSON {
		listener = bench.DefaultListener{}
	}

	summary, err := arena.Run(ctx, listener)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return nil
}
