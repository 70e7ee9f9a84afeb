package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/IlikeChooros/fluxwars/pkg/mcts"
	"github.com/sirupsen/logrus"
)

type SearchConfig struct {
	// Simulation budget of one decision
	Simulations int
	// Random plies played after the expanded node
	RolloutDepth int
	// UCT exploration constant
	Exploration float64
	// Independent search workers, merged at the end
	Threads int
	// Seed of the first worker, 0 picks one from mcts.SeedGeneratorFn
	Seed int64
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Simulations:  100,
		RolloutDepth: 10,
		Exploration:  1.41,
		Threads:      1,
	}
}

func (c SearchConfig) Validate() error {
	switch {
	case c.Simulations < 1:
		return fmt.Errorf("simulations must be positive, got %d", c.Simulations)
	case c.RolloutDepth < 0:
		return fmt.Errorf("rollout depth must not be negative, got %d", c.RolloutDepth)
	case c.Exploration < 0:
		return fmt.Errorf("exploration must not be negative, got %g", c.Exploration)
	case c.Threads < 1:
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	return nil
}

// rolloutOps adapts a forward model to the search library, scoring every
// simulation for a single player
type rolloutOps struct {
	model  ForwardModel
	player magnets.Player
	depth  int
}

func (o rolloutOps) Moves(p Position) []Move {
	return o.model.Moves(p)
}

func (o rolloutOps) Play(p Position, m Move) Position {
	return o.model.Apply(p, m)
}

func (o rolloutOps) Terminal(p Position) bool {
	return o.model.Terminal(p)
}

// Rollout plays uniformly random moves up to the depth cap and scores the
// final position: 1 if the player leads, 0.5 on a tie, 0 otherwise
func (o rolloutOps) Rollout(p Position, r *rand.Rand) mcts.Result {
	for depth := 0; depth < o.depth && !o.model.Terminal(p); depth++ {
		moves := o.model.Moves(p)
		if len(moves) == 0 {
			break
		}
		p = o.model.Apply(p, moves[r.Intn(len(moves))])
	}

	switch o.model.Leader(p) {
	case o.player:
		return 1
	case magnets.NoPlayer:
		return 0.5
	}
	return 0
}

// TreeSearch picks moves with Monte Carlo tree search over a forward model
type TreeSearch struct {
	Config SearchConfig
	Model  ForwardModel
	// Attached to every search when set
	Listener *mcts.StatsListener[Move]
	log      *logrus.Entry
}

func NewTreeSearch(config SearchConfig, log *logrus.Entry) *TreeSearch {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TreeSearch{
		Config: config,
		Model:  SimplifiedModel{},
		log:    log.WithField("ai", "mcts"),
	}
}

func (s *TreeSearch) Name() string {
	return "mcts"
}

// Search runs the configured budget from the position, scoring simulations
// for player. Returns the searched tree.
func (s *TreeSearch) Search(ctx context.Context, pos Position, player magnets.Player) (*mcts.MCTS[Move, Position], error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	ops := rolloutOps{model: s.Model, player: player, depth: s.Config.RolloutDepth}
	tree := mcts.NewMCTS[Move](
		ops, pos,
		mcts.NewUCB1[Move, Position](s.Config.Exploration),
		mcts.RootPerspective[Move, Position]{},
	)
	if s.Config.Seed != 0 {
		tree.SetSeed(s.Config.Seed)
	}
	tree.SetLimits(mcts.DefaultLimits().
		SetCycles(uint32(s.Config.Simulations)).
		SetThreads(s.Config.Threads))
	if s.Listener != nil {
		tree.SetListener(*s.Listener)
	}

	if err := tree.SearchMultiThreaded(ctx); err != nil {
		if errors.Is(err, mcts.ErrNoMoves) {
			return tree, ErrNoMoves
		}
		return tree, err
	}
	return tree, nil
}

// ChooseMove returns the most visited root move for the player to move
func (s *TreeSearch) ChooseMove(ctx context.Context, e *magnets.Engine) (Move, error) {
	player := e.Current()
	tree, err := s.Search(ctx, PositionOf(e), player)
	if err != nil {
		return Move{}, err
	}

	move, ok := tree.RootMove()
	if !ok {
		return Move{}, ErrNoMoves
	}
	s.log.WithFields(logrus.Fields{
		"player": player,
		"move":   move,
		"score":  fmt.Sprintf("%.3f", tree.RootScore()),
		"cycles": tree.Cycles(),
		"cps":    tree.Cps(),
		"nodes":  tree.Size(),
	}).Debug("search done")
	return move, nil
}
