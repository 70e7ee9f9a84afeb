package magnets

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine is the authoritative game: it owns the board and the game state
// and is the only thing allowed to mutate them. It is not safe for
// concurrent use.
type Engine struct {
	id    uuid.UUID
	board Board
	state State
	rules Rules
	rng   *rand.Rand
	log   *logrus.Entry
}

type Option func(*Engine)

// WithRand sets the random source used for dice and neutral seeding
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func WithRules(rules Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// NewEngine creates an engine in the home setup phase
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = logrus.NewEntry(logrus.StandardLogger())
	}
	e.Reset()
	return e
}

// Reset reinitializes the board and state, the game gets a new id
func (e *Engine) Reset() {
	e.id = uuid.New()
	e.board = Board{}
	e.state = newState(e.rules)
	e.log = e.log.WithField("game", e.id.String())
	e.log.Debug("game reset")
}

func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Board returns a copy of the grid
func (e *Engine) Board() Board {
	return e.board
}

// State returns a deep copy of the game state
func (e *Engine) State() State {
	return e.state.Clone()
}

func (e *Engine) Dice() int {
	return e.state.Dice
}

func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) Phase() Phase {
	return e.state.Phase
}

func (e *Engine) Current() Player {
	return e.state.Current
}

func (e *Engine) Winner() Winner {
	return e.state.Winner
}

// Logger returns the engine's log entry
func (e *Engine) Logger() *logrus.Entry {
	return e.log
}

func (e *Engine) SetLogger(log *logrus.Entry) {
	e.log = log
}

// Clone makes an independent copy of the game. Options override the copied
// settings. Unless one sets the random source, the clone's is seeded from
// this engine's one, so cloning advances it.
func (e *Engine) Clone(opts ...Option) *Engine {
	c := &Engine{
		id:    e.id,
		board: e.board,
		state: e.state.Clone(),
		rules: e.rules,
		log:   e.log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(e.rng.Int63()))
	}
	return c
}

// SelectCluster returns the cluster a click on pos selects: the magnetic
// cluster from a player cell, the adjacency cluster from a neutral one
func (e *Engine) SelectCluster(pos Pos) []Pos {
	switch e.board.At(pos).Owner {
	case OwnerPlayer1, OwnerPlayer2:
		return e.board.MagneticCluster(pos)
	case OwnerNeutral:
		return e.board.AdjacencyCluster(pos)
	}
	return nil
}

// CheckInvariants verifies the grid and the bookkeeping
func (e *Engine) CheckInvariants() error {
	if err := e.board.CheckInvariants(); err != nil {
		return err
	}
	if e.state.Acquired[0]+e.state.Acquired[1] > e.state.TotalClusters() {
		return fmtFault(ErrCorruptMagnet, "acquired clusters %v exceed total %d",
			e.state.Acquired, e.state.TotalClusters())
	}
	return nil
}

// Outcome describes a successful action
type Outcome struct {
	Message   string
	Converted []Pos
	Pulled    []MagnetID
	Cluster   []Pos
	Acquired  []int
}

// checks shared by every main phase action
func (e *Engine) requireTurn(actor Player) error {
	if e.state.Phase == PhaseEnded {
		return violation(ReasonGameEnded, "game over, no moves allowed")
	}
	if e.state.Phase != PhaseMain {
		return violation(ReasonWrongPhase, "not in the main phase")
	}
	if actor != e.state.Current {
		return violation(ReasonNotYourTurn, "it is %s's turn", e.state.Current)
	}
	return nil
}

// commit swaps in the snapshot, then runs the bookkeeping every
// ownership-changing action shares
func (e *Engine) commit(next *Board, actor Player, out *Outcome) {
	e.board = *next
	out.Acquired = e.updateOwnership()
	e.checkWinner()
	if e.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		if err := e.CheckInvariants(); err != nil {
			e.log.WithError(err).Error("invariant check failed")
		}
	}
	e.log.WithFields(logrus.Fields{
		"player":    actor,
		"converted": len(out.Converted),
		"acquired":  len(out.Acquired),
	}).Debug(out.Message)
}

// fault logs and returns err
func (e *Engine) fault(err error) error {
	e.log.WithError(err).Error("engine fault")
	return err
}
