package magnets

import "fmt"

// Size of the (square) board
const Size = 15

// MiddleColumn may never hold a piece during setup
const MiddleColumn = Size / 2

// Cell ownership
type Owner uint8

const (
	OwnerEmpty Owner = iota
	OwnerPlayer1
	OwnerPlayer2
	OwnerNeutral
)

func (o Owner) String() string {
	switch o {
	case OwnerEmpty:
		return "empty"
	case OwnerPlayer1:
		return "player1"
	case OwnerPlayer2:
		return "player2"
	case OwnerNeutral:
		return "neutral"
	default:
		return fmt.Sprintf("owner(%d)", uint8(o))
	}
}

// Player returns the player owning the cell, if it's owned by one
func (o Owner) Player() (Player, bool) {
	switch o {
	case OwnerPlayer1:
		return Player1, true
	case OwnerPlayer2:
		return Player2, true
	}
	return NoPlayer, false
}

// Player identifies one of the two seats, NoPlayer is used for 'none'
type Player uint8

const (
	NoPlayer Player = iota
	Player1
	Player2
)

func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

// Owner value written on cells owned by this player
func (p Player) Owner() Owner {
	switch p {
	case Player1:
		return OwnerPlayer1
	case Player2:
		return OwnerPlayer2
	}
	return OwnerEmpty
}

func (p Player) String() string {
	if p.Valid() {
		return fmt.Sprintf("P%d", uint8(p))
	}
	return "none"
}

// Magnetic charge of a single cell
type Polarity uint8

const (
	PolarityNone Polarity = iota
	PolarityPositive
	PolarityNegative
)

func (p Polarity) Opposite() Polarity {
	switch p {
	case PolarityPositive:
		return PolarityNegative
	case PolarityNegative:
		return PolarityPositive
	}
	return PolarityNone
}

// Polarized is true for '+' and '-'
func (p Polarity) Polarized() bool {
	return p == PolarityPositive || p == PolarityNegative
}

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "+"
	case PolarityNegative:
		return "-"
	}
	return ""
}

// Identifier shared by the two cells of a magnet, 0 means no magnet
type MagnetID uint32

// Board coordinates
type Pos struct {
	Row, Col int
}

func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Pos) Add(d Delta) Pos {
	return Pos{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

func (p Pos) Sub(o Pos) Delta {
	return Delta{DRow: p.Row - o.Row, DCol: p.Col - o.Col}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan distance between two positions
func (p Pos) Distance(o Pos) int {
	return abs(p.Row-o.Row) + abs(p.Col-o.Col)
}

// Row/column offset
type Delta struct {
	DRow, DCol int
}

func (d Delta) Neg() Delta {
	return Delta{DRow: -d.DRow, DCol: -d.DCol}
}

// Unit is true for the four orthogonal unit steps
func (d Delta) Unit() bool {
	return abs(d.DRow)+abs(d.DCol) == 1
}

// 90 degrees clockwise: (dr, dc) -> (dc, -dr)
func (d Delta) RotateCW() Delta {
	return Delta{DRow: d.DCol, DCol: -d.DRow}
}

// Named unit step
type Direction uint8

const (
	DirRight Direction = iota
	DirLeft
	DirDown
	DirUp
)

// Order in which the engine scans neighbours
var neighbourDeltas = [4]Delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Directions in move-generation order
var Directions = [4]Direction{DirRight, DirLeft, DirDown, DirUp}

func (d Direction) Delta() Delta {
	switch d {
	case DirRight:
		return Delta{0, 1}
	case DirLeft:
		return Delta{0, -1}
	case DirDown:
		return Delta{1, 0}
	default:
		return Delta{-1, 0}
	}
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "RIGHT"
	case DirLeft:
		return "LEFT"
	case DirDown:
		return "DOWN"
	default:
		return "UP"
	}
}

// DirectionOf converts a unit delta back into a direction
func DirectionOf(d Delta) (Direction, bool) {
	for _, dir := range Directions {
		if dir.Delta() == d {
			return dir, true
		}
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
