package bench

import (
	"context"
	"fmt"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

/*
Arena benchmark subpackage, plays a series of games between two ai.Player
implementations and counts who wins.
*/

// HomeSpot is a fixed home placement used by every arena game
type HomeSpot struct {
	Row, Col    int
	Orientation magnets.Orientation
}

var DefaultHomes = [2]HomeSpot{
	{Row: 4, Col: 3, Orientation: magnets.Orientation0},
	{Row: 9, Col: 10, Orientation: magnets.Orientation0},
}

// VersusArena pits two players against each other. Both players are shared
// by the workers, so they must be safe for concurrent use.
type VersusArena struct {
	VersusArenaStats
	Player1  ai.Player
	Player2  ai.Player
	NGames   int
	NWorkers int
	// Game i is played on an engine seeded with Seed + i
	Seed  int64
	Rules magnets.Rules
	Homes [2]HomeSpot
	Log   *logrus.Entry
}

func NewVersusArena(p1, p2 ai.Player) *VersusArena {
	return &VersusArena{
		Player1:  p1,
		Player2:  p2,
		NGames:   100,
		NWorkers: 2,
		Seed:     1,
		Rules:    magnets.DefaultRules(),
		Homes:    DefaultHomes,
		Log:      logrus.NewEntry(logrus.StandardLogger()),
	}
}

func (va *VersusArena) Setup(nGames, nWorkers int, seed int64) {
	va.NGames = nGames
	va.NWorkers = nWorkers
	va.Seed = seed
}

func (va *VersusArena) summary() VersusSummary {
	return VersusSummary{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          va.NWorkers,
		P1Name:           va.Player1.Name(),
		P2Name:           va.Player2.Name(),
	}
}

// Run plays the games on NWorkers goroutines and blocks until they're done.
// Worker w plays games w, w+NWorkers, ... and players swap seats between
// consecutive games, Player1 moving first in the even ones. On cancellation
// the games played so far are summarized and the context's error returned.
func (va *VersusArena) Run(ctx context.Context, listener ListenerLike) (VersusSummary, error) {
	if va.NGames < 0 || va.NWorkers < 1 {
		return VersusSummary{}, fmt.Errorf("bench: invalid setup, %d games on %d workers", va.NGames, va.NWorkers)
	}
	if listener == nil {
		listener = DefaultListener{}
	}

	listener.OnStart(va.summary())
	g, gctx := errgroup.WithContext(ctx)
	for id := range min(va.NWorkers, max(va.NGames, 1)) {
		g.Go(func() error {
			return va.worker(gctx, id, listener)
		})
	}
	err := g.Wait()

	summary := va.summary()
	listener.OnEnd(summary)
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}

func (va *VersusArena) worker(ctx context.Context, id int, listener ListenerLike) error {
	info := VersusWorkerInfo{
		WorkerID: id,
		P1Name:   va.Player1.Name(),
		P2Name:   va.Player2.Name(),
	}
	for game := id; game < va.NGames; game += va.NWorkers {
		info.NGames++
	}

	for game := id; game < va.NGames; game += va.NWorkers {
		if err := ctx.Err(); err != nil {
			return err
		}

		info.Game = game
		info.Moves = nil
		result, err := va.playGame(ctx, game, &info, listener)
		if err != nil {
			return err
		}

		info.FinishedGames++
		info.Result = result
		switch result {
		case VersusPl1Win:
			info.P1Wins++
		case VersusPl2Win:
			info.P2Wins++
		default:
			info.Draws++
		}
		info.GameMoveNum = len(info.Moves)
		listener.OnFinishedGame(info)
	}

	listener.OnFinishedWork(info)
	return nil
}

// newGame sets up a seeded engine with both homes placed, in the main phase
func (va *VersusArena) newGame(game int) (*magnets.Engine, error) {
	e := magnets.NewEngine(
		magnets.WithSeed(va.Seed+int64(game)),
		magnets.WithRules(va.Rules),
		magnets.WithLogger(va.Log.WithField("arena_game", game)),
	)
	for _, home := range va.Homes {
		if _, err := e.PlaceHome(home.Row, home.Col, home.Orientation); err != nil {
			return nil, fmt.Errorf("bench: game %d: %w", game, err)
		}
	}
	if e.Phase() != magnets.PhaseMain {
		return nil, fmt.Errorf("bench: game %d did not reach the main phase", game)
	}
	return e, nil
}

func (va *VersusArena) playGame(ctx context.Context, game int, info *VersusWorkerInfo, listener ListenerLike) (VersusMatchResult, error) {
	e, err := va.newGame(game)
	if err != nil {
		return VersusDraw, err
	}

	p1First := game%2 == 0
	seats := map[magnets.Player]ai.Player{
		magnets.Player1: va.Player1,
		magnets.Player2: va.Player2,
	}
	if !p1First {
		seats[magnets.Player1], seats[magnets.Player2] = va.Player2, va.Player1
	}

	// Every turn ends through the engine, so the turn cap bounds the game
	for turn := 0; e.Phase() == magnets.PhaseMain; turn++ {
		if turn > va.Rules.MaxMainTurns {
			return VersusDraw, fmt.Errorf("bench: game %d exceeded %d turns", game, va.Rules.MaxMainTurns)
		}
		report, err := ai.TakeTurn(ctx, e, seats[e.Current()])
		if err != nil {
			return VersusDraw, fmt.Errorf("bench: game %d: %w", game, err)
		}
		if err := ctx.Err(); err != nil {
			return VersusDraw, err
		}
		info.Moves = append(info.Moves, report.Moves...)
		info.GameMoveNum = len(info.Moves)
		listener.OnMoveMade(*info)
	}

	winner := e.Winner()
	result := toAgentResult(winner, p1First)
	va.record(result, winner)
	va.Log.WithFields(logrus.Fields{
		"game":   game,
		"winner": winner,
		"result": result,
		"moves":  len(info.Moves),
	}).Debug("arena game done")
	return result, nil
}
