package main

/*
FluxWars command line

	fluxwars play   [-p1 easy] [-p2 normal] [-seed N] [-quiet]
	fluxwars search [-seed N] [-sims N] [-threads N] [-interval N]
	fluxwars arena  [-p1 easy] [-p2 normal] [-games N] [-workers N] [-seed N] [-live] [-json]

Defaults come from the FLUXWARS_* environment, see internal/config.
*/

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/IlikeChooros/fluxwars/internal/config"
	"github.com/IlikeChooros/fluxwars/internal/suggest"
	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

const usage = `usage: fluxwars <command> [flags]

commands:
  play     play one game between two AI tiers
  search   run a single search on a fresh game and print its lines
  arena    play many games between two AI tiers
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "fluxwars:", err)
		os.Exit(1)
	}
}

// app carries what every command shares
type app struct {
	cfg config.Config
	log *logrus.Entry
	out io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return flag.ErrHelp
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	logger.SetOutput(os.Stderr)
	a := &app{cfg: cfg, log: logrus.NewEntry(logger), out: out}

	switch args[0] {
	case "play":
		return a.play(ctx, args[1:])
	case "search":
		return a.search(ctx, args[1:])
	case "arena":
		return a.arena(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	fmt.Fprint(out, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// seed of a game, time based unless configured
func (a *app) seed(flagged int64) int64 {
	if flagged != 0 {
		return flagged
	}
	if a.cfg.Seed != 0 {
		return a.cfg.Seed
	}
	return time.Now().UnixNano()
}

func (a *app) suggester() ai.Suggester {
	if a.cfg.OpenAIKey == "" {
		return nil
	}
	return suggest.NewOpenAI(a.cfg.OpenAIURL, a.cfg.OpenAIKey, a.cfg.OpenAIModel)
}

func (a *app) player(tier string, search ai.SearchConfig) (ai.Player, error) {
	d, err := ai.ParseDifficulty(tier)
	if err != nil {
		return nil, err
	}
	return ai.NewPlayer(d, search, a.suggester(), a.log)
}

// newGame places the homes of both players and seeds the neutrals
func (a *app) newGame(seed int64) (*magnets.Engine, error) {
	e := magnets.NewEngine(
		magnets.WithSeed(seed),
		magnets.WithRules(a.cfg.Rules),
		magnets.WithLogger(a.log),
	)
	if _, err := e.PlaceHome(4, 3, magnets.Orientation0); err != nil {
		return nil, err
	}
	if _, err := e.PlaceHome(9, 10, magnets.Orientation0); err != nil {
		return nil, err
	}
	return e, nil
}
