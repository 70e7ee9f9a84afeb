package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

var ErrUnparsable = errors.New("ai: no move in suggestion")

// Suggester answers a text prompt describing the game with a move in free
// text, e.g. a language model client
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

type SuggesterFunc func(ctx context.Context, prompt string) (string, error)

func (f SuggesterFunc) Suggest(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Advisor is the expert tier: it asks a suggester for a move and plays it
// when it is legal, otherwise the fallback player decides
type Advisor struct {
	Suggester Suggester
	Fallback  Player
	log       *logrus.Entry
}

func NewAdvisor(suggester Suggester, fallback Player, log *logrus.Entry) *Advisor {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Advisor{
		Suggester: suggester,
		Fallback:  fallback,
		log:       log.WithField("ai", "advisor"),
	}
}

func (a *Advisor) Name() string {
	return "advisor"
}

func (a *Advisor) ChooseMove(ctx context.Context, e *magnets.Engine) (Move, error) {
	move, err := a.suggest(ctx, e)
	if err == nil {
		return move, nil
	}
	if ctx.Err() != nil {
		return Move{}, ctx.Err()
	}

	a.log.WithError(err).Warn("falling back")
	if a.Fallback == nil {
		return Move{}, ErrNoMoves
	}
	return a.Fallback.ChooseMove(ctx, e)
}

func (a *Advisor) suggest(ctx context.Context, e *magnets.Engine) (Move, error) {
	if a.Suggester == nil {
		return Move{}, errors.New("no suggester configured")
	}

	text, err := a.Suggester.Suggest(ctx, Prompt(e))
	if err != nil {
		return Move{}, fmt.Errorf("suggester: %w", err)
	}
	move, err := ParseSuggestion(text)
	if err != nil {
		return Move{}, err
	}

	b := e.Board()
	if b.At(move.Anchor).Owner != e.Current().Owner() {
		return Move{}, fmt.Errorf("suggested %s is not a piece of %s", move.Anchor, e.Current())
	}
	if !legal(e, move) {
		return Move{}, fmt.Errorf("suggested move %s is illegal", move)
	}
	a.log.WithFields(logrus.Fields{"player": e.Current(), "move": move}).Debug("suggestion accepted")
	return move, nil
}

var (
	coordPattern   = regexp.MustCompile(`\((\d+)\s*,\s*(\d+)\)`)
	dirPattern     = regexp.MustCompile(`(?i)\b(up|down|left|right)\b`)
	compassPattern = regexp.MustCompile(`(?i)\b(north|south|west|east)\b`)
)

var dirWords = map[string]magnets.Direction{
	"up":    magnets.DirUp,
	"north": magnets.DirUp,
	"down":  magnets.DirDown,
	"south": magnets.DirDown,
	"left":  magnets.DirLeft,
	"west":  magnets.DirLeft,
	"right": magnets.DirRight,
	"east":  magnets.DirRight,
}

// ParseSuggestion reads a translation out of free text. The first (r,c)
// pair is the anchor. The direction is the first of UP, DOWN, LEFT, RIGHT
// (any case), then the first compass word; with neither, the move steps
// toward the center of the board.
func ParseSuggestion(text string) (Move, error) {
	coord := coordPattern.FindStringSubmatch(text)
	if coord == nil {
		return Move{}, ErrUnparsable
	}
	row, err1 := strconv.Atoi(coord[1])
	col, err2 := strconv.Atoi(coord[2])
	anchor := magnets.Pos{Row: row, Col: col}
	if err1 != nil || err2 != nil || !anchor.InBounds() {
		return Move{}, fmt.Errorf("%w: %s is off the board", ErrUnparsable, coord[0])
	}

	move := Move{Kind: Translate, Anchor: anchor}
	if word := dirPattern.FindString(text); word != "" {
		move.Dir = dirWords[strings.ToLower(word)]
		return move, nil
	}
	if word := compassPattern.FindString(text); word != "" {
		move.Dir = dirWords[strings.ToLower(word)]
		return move, nil
	}

	switch {
	case row < center.Row:
		move.Dir = magnets.DirDown
	case row > center.Row:
		move.Dir = magnets.DirUp
	case col < center.Col:
		move.Dir = magnets.DirRight
	default:
		move.Dir = magnets.DirLeft
	}
	return move, nil
}

// Prompt describes the game for a suggester from the point of view of the
// player to move
func Prompt(e *magnets.Engine) string {
	player := e.Current()
	state := e.State()
	b := e.Board()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== FLUXWARS GAME STATE ===\n\n")
	fmt.Fprintf(&sb, "You are %s\n", player)
	fmt.Fprintf(&sb, "Turn: %d of %d\n", state.MainTurns+1, state.MaxMainTurns)
	fmt.Fprintf(&sb, "Phase: %s\n\n", state.Phase)
	fmt.Fprintf(&sb, "BOARD (%dx%d), rows top to bottom, columns left to right:\n", magnets.Size, magnets.Size)
	sb.WriteString(b.String())
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Pieces: P1=%d P2=%d neutral=%d\n",
		b.Count(magnets.OwnerPlayer1), b.Count(magnets.OwnerPlayer2), b.Count(magnets.OwnerNeutral))
	fmt.Fprintf(&sb, "Clusters acquired: P1=%d P2=%d of %d\n\n",
		state.AcquiredBy(magnets.Player1), state.AcquiredBy(magnets.Player2), state.TotalClusters())

	fmt.Fprintf(&sb, "Your clusters:\n")
	for i, cluster := range Clusters(&b, player) {
		fmt.Fprintf(&sb, "  %d: %d cells at %v\n", i+1, len(cluster), cluster)
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- Adjacent cells of opposite polarity form a cluster that moves together\n")
	sb.WriteString("- Touching a neutral cell of opposite polarity converts it\n")
	sb.WriteString("- Owning every piece of a neutral cluster acquires it\n")
	fmt.Fprintf(&sb, "\nYou have %d moves left. Answer with MOVE (row,col) UP|DOWN|LEFT|RIGHT.\n", e.Dice())
	return sb.String()
}
