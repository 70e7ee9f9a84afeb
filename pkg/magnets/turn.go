package magnets

import "github.com/sirupsen/logrus"

// Result of a dice roll; StealTargets is filled when the roll grants a steal
type Roll struct {
	Value        int
	StealTargets []Pos
}

// RollDice rolls once per turn for the current player. Rolling the top face
// grants one steal this turn.
func (e *Engine) RollDice() (Roll, error) {
	if err := e.requireTurn(e.state.Current); err != nil {
		return Roll{}, err
	}
	if e.state.Rolled {
		return Roll{}, violation(ReasonAlreadyRolled, "dice already rolled this turn")
	}

	value := 1 + e.rng.Intn(e.rules.DiceFaces)
	e.state.Dice = value
	e.state.Rolled = true
	e.state.StealAllowed = NoPlayer

	roll := Roll{Value: value}
	if value == e.rules.DiceFaces {
		e.state.StealAllowed = e.state.Current
		roll.StealTargets = e.StealTargets(e.state.Current)
	}
	e.log.WithFields(logrus.Fields{"player": e.state.Current, "dice": value}).Debug("dice rolled")
	return roll, nil
}

// NextPlayer ends the current turn of the main phase, counting it and
// forcing a result once the cap is reached. Outside the main phase it does
// nothing, setup hands the turn over by itself. Returns the player to move.
func (e *Engine) NextPlayer() Player {
	if e.state.Phase != PhaseMain {
		return e.state.Current
	}

	e.state.Dice = 0
	e.state.Rolled = false
	e.state.StealAllowed = NoPlayer

	e.state.MainTurns++
	if e.state.MainTurns >= e.state.MaxMainTurns {
		e.resolve()
		return e.state.Current
	}

	e.state.Current = e.state.Current.Opponent()
	e.log.WithFields(logrus.Fields{"player": e.state.Current, "turn": e.state.MainTurns}).Debug("next player")
	return e.state.Current
}

// EndTurn is NextPlayer on behalf of actor
func (e *Engine) EndTurn(actor Player) (Player, error) {
	if err := e.requireTurn(actor); err != nil {
		return e.state.Current, err
	}
	return e.NextPlayer(), nil
}

// spend one move of the dice budget, passing the turn when it runs out
func (e *Engine) consumeMove() {
	if e.state.Phase != PhaseMain {
		return
	}
	e.state.Dice--
	if e.state.Dice <= 0 {
		e.NextPlayer()
	}
}
