package ai

import (
	"context"
	"errors"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

// Upper bound of moves taken in a single turn
const MaxMovesPerTurn = 20

// TurnReport summarizes what a player did during one turn
type TurnReport struct {
	Player magnets.Player
	Dice   int
	Moves  []Move
	Stole  bool
	// Set when the turn ended early: no moves, a rejected move or a
	// cancelled context
	Err error
}

// TakeTurn plays a whole turn for the player to move: rolls the dice if it
// wasn't rolled, spends a granted steal, then applies the player's moves
// until the dice budget passes the turn or the game ends. A player with no
// moves, or whose move is rejected, ends the turn explicitly. Returns an
// error only for engine faults, or when it's nobody's turn to take.
func TakeTurn(ctx context.Context, e *magnets.Engine, p Player) (TurnReport, error) {
	actor := e.Current()
	report := TurnReport{Player: actor}
	log := e.Logger().WithFields(logrus.Fields{"player": actor, "ai": p.Name()})

	switch e.Phase() {
	case magnets.PhaseMain:
	case magnets.PhaseEnded:
		return report, magnets.ErrGameEnded
	default:
		return report, magnets.ErrWrongPhase
	}

	if !e.State().Rolled {
		roll, err := e.RollDice()
		if err != nil {
			return report, err
		}
		report.Dice = roll.Value
		if len(roll.StealTargets) > 0 {
			target := roll.StealTargets[0]
			steal := Move{Kind: Steal, Anchor: target, Target: target}
			if _, err := steal.Apply(e, actor); err == nil {
				report.Stole = true
				report.Moves = append(report.Moves, steal)
			} else if !magnets.IsRuleViolation(err) {
				return report, err
			} else {
				log.WithError(err).Debug("steal rejected")
			}
		}
	} else {
		report.Dice = e.Dice()
	}

	for range MaxMovesPerTurn {
		if e.Phase() != magnets.PhaseMain || e.Current() != actor || e.Dice() <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			report.Err = err
			break
		}

		move, err := p.ChooseMove(ctx, e)
		if err != nil {
			report.Err = err
			if !errors.Is(err, ErrNoMoves) && ctx.Err() == nil {
				log.WithError(err).Warn("player failed to choose a move")
			}
			break
		}
		if _, err := move.Apply(e, actor); err != nil {
			if !magnets.IsRuleViolation(err) {
				return report, err
			}
			report.Err = err
			log.WithError(err).WithField("move", move).Warn("move rejected")
			break
		}
		report.Moves = append(report.Moves, move)
	}

	if e.Phase() == magnets.PhaseMain && e.Current() == actor {
		if _, err := e.EndTurn(actor); err != nil {
			return report, err
		}
	}
	log.WithFields(logrus.Fields{"dice": report.Dice, "moves": len(report.Moves)}).Debug("turn done")
	return report, nil
}
