package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/IlikeChooros/fluxwars/internal/render"
	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
)

func (a *app) play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p1 := fs.String("p1", "easy", "tier of player 1: easy, normal or expert")
	p2 := fs.String("p2", a.cfg.Difficulty.String(), "tier of player 2")
	seed := fs.Int64("seed", 0, "game seed, 0 picks one")
	quiet := fs.Bool("quiet", false, "only print the result")
	if err := fs.Parse(args); err != nil {
		return err
	}

	players := map[magnets.Player]ai.Player{}
	for seat, tier := range map[magnets.Player]string{magnets.Player1: *p1, magnets.Player2: *p2} {
		p, err := a.player(tier, a.cfg.Search)
		if err != nil {
			return err
		}
		players[seat] = p
	}

	gameSeed := a.seed(*seed)
	e, err := a.newGame(gameSeed)
	if err != nil {
		return err
	}
	r := render.New(a.out)
	fmt.Fprintf(a.out, "game %s, seed %d, %s vs %s\n", e.ID(), gameSeed, players[magnets.Player1].Name(), players[magnets.Player2].Name())

	for e.Phase() == magnets.PhaseMain {
		actor := e.Current()
		report, err := ai.TakeTurn(ctx, e, players[actor])
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if *quiet {
			continue
		}

		fmt.Fprintf(a.out, "\n%s rolled %d, played %v", r.Player(actor, actor.String()).Bold(), report.Dice, report.Moves)
		if report.Err != nil {
			fmt.Fprintf(a.out, " (turn ended: %v)", report.Err)
		}
		fmt.Fprintln(a.out)
		if err := r.Game(a.out, e); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "\nwinner: %s\n", r.Winner(e.Winner()))
	return nil
}
