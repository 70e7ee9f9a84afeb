package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

// ErrNoMoves is returned by a player that has nothing legal to play
var ErrNoMoves = errors.New("ai: no legal moves")

// Player decides the next action of the player to move. It must not mutate
// the engine it is given.
type Player interface {
	Name() string
	ChooseMove(ctx context.Context, e *magnets.Engine) (Move, error)
}

type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Expert:
		return "expert"
	}
	return fmt.Sprintf("difficulty(%d)", uint8(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "normal", "":
		return Normal, nil
	case "expert":
		return Expert, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q, want easy, normal or expert", s)
}

// NewPlayer builds the player of a tier. The suggester is only used by the
// expert tier and may be nil, in which case it always falls back to search.
func NewPlayer(d Difficulty, config SearchConfig, suggester Suggester, log *logrus.Entry) (Player, error) {
	switch d {
	case Easy:
		return NewHeuristic(log), nil
	case Normal:
		return NewTreeSearch(config, log), nil
	case Expert:
		return NewAdvisor(suggester, NewTreeSearch(config, log), log), nil
	}
	return nil, fmt.Errorf("unknown difficulty %d", d)
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
