package ai

import (
	"context"
	"slices"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

// Weights of the heuristic score
const (
	contactWeight = 10
	centerWeight  = 2
)

var center = magnets.Pos{Row: magnets.Size / 2, Col: magnets.Size / 2}

// Heuristic is the lowest tier: it greedily plays the translation that
// touches the most convertible neutrals, preferring moves toward the center
type Heuristic struct {
	log *logrus.Entry
}

func NewHeuristic(log *logrus.Entry) *Heuristic {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Heuristic{log: log.WithField("ai", "heuristic")}
}

func (h *Heuristic) Name() string {
	return "heuristic"
}

type scoredMove struct {
	move  Move
	score float64
}

// ChooseMove returns the best scoring translation the engine accepts
func (h *Heuristic) ChooseMove(ctx context.Context, e *magnets.Engine) (Move, error) {
	if err := ctx.Err(); err != nil {
		return Move{}, err
	}

	player := e.Current()
	b := e.Board()
	owner := player.Owner()

	var candidates []scoredMove
	for _, cluster := range Clusters(&b, player) {
		moving, err := b.MovingSet(cluster, owner)
		if err != nil {
			continue
		}
		for _, dir := range magnets.Directions {
			if b.CheckShift(moving, dir.Delta()) != nil {
				continue
			}
			candidates = append(candidates, scoredMove{
				move:  Move{Kind: Translate, Anchor: cluster[0], Dir: dir},
				score: scoreTranslation(&b, moving, dir),
			})
		}
	}

	// Stable, so equal scores keep generation order
	slices.SortStableFunc(candidates, func(x, y scoredMove) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		}
		return 0
	})

	for _, c := range candidates {
		if !legal(e, c.move) {
			continue
		}
		h.log.WithFields(logrus.Fields{
			"player": player,
			"move":   c.move,
			"score":  c.score,
		}).Debug("heuristic move")
		return c.move, nil
	}
	return Move{}, ErrNoMoves
}

// scoreTranslation counts the neutral cells of opposite polarity that the
// moving cells would touch at their destinations, and how much closer to
// the center they get on average
func scoreTranslation(b *magnets.Board, moving []magnets.Pos, dir magnets.Direction) float64 {
	delta := dir.Delta()
	contacts := 0
	before, after := 0, 0

	for _, pos := range moving {
		pol := b.At(pos).Polarity
		dst := pos.Add(delta)
		for _, d := range magnets.Directions {
			n := dst.Add(d.Delta())
			if slices.Contains(moving, n) {
				continue
			}
			cell := b.At(n)
			if cell.Owner == magnets.OwnerNeutral && cell.Polarity.Polarized() && cell.Polarity != pol {
				contacts++
			}
		}
		before += pos.Distance(center)
		after += dst.Distance(center)
	}

	approach := float64(before-after) / float64(len(moving))
	return float64(contacts)*contactWeight + approach*centerWeight
}

// legal tries the move on a silent copy of the game, leaving the game's
// random source alone
func legal(e *magnets.Engine, m Move) bool {
	trial := e.Clone(magnets.WithSeed(1), magnets.WithLogger(quietLog()))
	_, err := m.Apply(trial, trial.Current())
	return err == nil
}
