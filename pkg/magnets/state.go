package magnets

// Game phase, only ever moves forward
type Phase uint8

const (
	PhaseHomeSetup Phase = iota
	PhaseNeutralSetup
	PhaseMain
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseHomeSetup:
		return "home_setup"
	case PhaseNeutralSetup:
		return "neutral_setup"
	case PhaseMain:
		return "main"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// Game result
type Winner uint8

const (
	WinnerNone Winner = iota
	WinnerPlayer1
	WinnerPlayer2
	WinnerDraw
)

func winnerOf(p Player) Winner {
	switch p {
	case Player1:
		return WinnerPlayer1
	case Player2:
		return WinnerPlayer2
	}
	return WinnerDraw
}

// Player returns the winning player, NoPlayer for none or a draw
func (w Winner) Player() Player {
	switch w {
	case WinnerPlayer1:
		return Player1
	case WinnerPlayer2:
		return Player2
	}
	return NoPlayer
}

func (w Winner) String() string {
	switch w {
	case WinnerPlayer1:
		return "player1"
	case WinnerPlayer2:
		return "player2"
	case WinnerDraw:
		return "draw"
	}
	return "none"
}

// Home placement record, fixed after setup
type Home struct {
	Placed      bool
	Anchor      Pos
	Orientation Orientation
	Magnet      MagnetID
}

// Partition is one initial neutral cluster: the cells it covered at the end
// of setup. The positions stay fixed for the rest of the game.
type Partition struct {
	Cells []Pos
	Owner Player
}

func (p Partition) clone() Partition {
	return Partition{
		Cells: append([]Pos(nil), p.Cells...),
		Owner: p.Owner,
	}
}

// State is the turn/phase bookkeeping of a game. Per-player arrays are
// indexed by Player-1.
type State struct {
	Phase         Phase
	Current       Player
	Dice          int
	Rolled        bool
	Homes         [2]Home
	NeutralCounts [2]int
	Acquired      [2]int
	LastAcquirer  Player
	Partition     []Partition
	MainTurns     int
	MaxMainTurns  int
	StealAllowed  Player
	Winner        Winner
}

func newState(rules Rules) State {
	return State{
		Phase:        PhaseHomeSetup,
		Current:      Player1,
		MaxMainTurns: rules.MaxMainTurns,
	}
}

// Deep copy, shares no memory with s
func (s State) Clone() State {
	c := s
	c.Partition = make([]Partition, len(s.Partition))
	for i := range s.Partition {
		c.Partition[i] = s.Partition[i].clone()
	}
	return c
}

// TotalClusters is the number of initial neutral partitions
func (s *State) TotalClusters() int {
	return len(s.Partition)
}

func (s *State) AcquiredBy(p Player) int {
	if !p.Valid() {
		return 0
	}
	return s.Acquired[p-1]
}

func (s *State) HomeOf(p Player) Home {
	if !p.Valid() {
		return Home{}
	}
	return s.Homes[p-1]
}

// Rules are the tunable constants of a game
type Rules struct {
	MaxMainTurns    int
	NeutralsPerSide int
	NeutralSpacing  int
	PieceAttempts   int
	SeedAttempts    int
	DiceFaces       int
}

func DefaultRules() Rules {
	return Rules{
		MaxMainTurns:    4,
		NeutralsPerSide: 4,
		NeutralSpacing:  4,
		PieceAttempts:   2000,
		SeedAttempts:    20000,
		DiceFaces:       6,
	}
}
