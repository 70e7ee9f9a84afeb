package magnets

import (
	"fmt"
	"strings"
)

// Single square of the grid
type Cell struct {
	Owner    Owner
	Polarity Polarity
	Magnet   MagnetID
}

func (c Cell) Empty() bool {
	return c.Owner == OwnerEmpty
}

// Board is the 15x15 grid plus the magnet id counter. It is a plain value:
// assigning it makes a full, independent copy, which is what the engine
// uses as its copy-on-write snapshot.
type Board struct {
	cells      [Size][Size]Cell
	nextMagnet MagnetID
}

// At returns the cell at pos, the zero Cell if pos is off the board
func (b *Board) At(pos Pos) Cell {
	if !pos.InBounds() {
		return Cell{}
	}
	return b.cells[pos.Row][pos.Col]
}

func (b *Board) set(pos Pos, c Cell) {
	b.cells[pos.Row][pos.Col] = c
}

func (b *Board) clear(pos Pos) {
	b.cells[pos.Row][pos.Col] = Cell{}
}

// Owners returns the ownership grid
func (b *Board) Owners() [Size][Size]Owner {
	var grid [Size][Size]Owner
	for r := range Size {
		for c := range Size {
			grid[r][c] = b.cells[r][c].Owner
		}
	}
	return grid
}

// Polarities returns the polarity grid
func (b *Board) Polarities() [Size][Size]Polarity {
	var grid [Size][Size]Polarity
	for r := range Size {
		for c := range Size {
			grid[r][c] = b.cells[r][c].Polarity
		}
	}
	return grid
}

// Count the cells owned by o
func (b *Board) Count(o Owner) int {
	n := 0
	for r := range Size {
		for c := range Size {
			if b.cells[r][c].Owner == o {
				n++
			}
		}
	}
	return n
}

// MagnetCells returns both cells of a magnet, ok is false unless exactly
// two cells carry the id
func (b *Board) MagnetCells(id MagnetID) (cells [2]Pos, ok bool) {
	if id == 0 {
		return cells, false
	}
	n := 0
	for r := range Size {
		for c := range Size {
			if b.cells[r][c].Magnet != id {
				continue
			}
			if n == 2 {
				return cells, false
			}
			cells[n] = Pos{r, c}
			n++
		}
	}
	return cells, n == 2
}

// Partner returns the other cell of the magnet at pos
func (b *Board) Partner(pos Pos) (Pos, bool) {
	cell := b.At(pos)
	if cell.Magnet == 0 {
		return Pos{}, false
	}
	// Committed magnets are always orthogonally adjacent
	for _, d := range neighbourDeltas {
		n := pos.Add(d)
		if n.InBounds() && b.cells[n.Row][n.Col].Magnet == cell.Magnet {
			return n, true
		}
	}
	cells, ok := b.MagnetCells(cell.Magnet)
	if !ok {
		return Pos{}, false
	}
	if cells[0] == pos {
		return cells[1], true
	}
	return cells[0], true
}

// Orientation of a piece, in degrees
type Orientation int

const (
	Orientation0   Orientation = 0
	Orientation90  Orientation = 90
	Orientation180 Orientation = 180
	Orientation270 Orientation = 270
)

var Orientations = [4]Orientation{Orientation0, Orientation90, Orientation180, Orientation270}

// One pole of a shape, relative to the anchor cell
type ShapeCell struct {
	Offset   Delta
	Polarity Polarity
}

// Shape of a magnet: positive pole on the anchor, negative pole next to it
type Shape [2]ShapeCell

var shapes = map[Orientation]Shape{
	Orientation0:   {{Delta{0, 0}, PolarityPositive}, {Delta{0, 1}, PolarityNegative}},
	Orientation90:  {{Delta{0, 0}, PolarityPositive}, {Delta{1, 0}, PolarityNegative}},
	Orientation180: {{Delta{0, 0}, PolarityPositive}, {Delta{0, -1}, PolarityNegative}},
	Orientation270: {{Delta{0, 0}, PolarityPositive}, {Delta{-1, 0}, PolarityNegative}},
}

// ShapeFor looks up the piece catalogue
func ShapeFor(o Orientation) (Shape, error) {
	s, ok := shapes[o]
	if !ok {
		return Shape{}, violation(ReasonInvalidShape, "invalid orientation %d", int(o))
	}
	return s, nil
}

// Cells occupied by the shape anchored at pos
func (s Shape) Cells(pos Pos) [2]Pos {
	return [2]Pos{pos.Add(s[0].Offset), pos.Add(s[1].Offset)}
}

// InHalf reports whether col lies in the player's own half
func InHalf(p Player, col int) bool {
	switch p {
	case Player1:
		return col >= 0 && col < MiddleColumn
	case Player2:
		return col > MiddleColumn && col < Size
	}
	return false
}

// CanPlace checks placement legality of a shape for the given setup phase:
// home pieces go into the player's half, neutral pieces into the opponent's
func (b *Board) CanPlace(s Shape, pos Pos, phase Phase, player Player) error {
	for _, cell := range s.Cells(pos) {
		if cell.Col == MiddleColumn {
			return violation(ReasonForbiddenColumn, "placement touches the forbidden middle column")
		}
	}

	var half Player
	switch phase {
	case PhaseHomeSetup:
		half = player
	case PhaseNeutralSetup:
		half = player.Opponent()
	default:
		return violation(ReasonWrongPhase, "cannot place in phase %s", phase)
	}
	for _, cell := range s.Cells(pos) {
		if !InHalf(half, cell.Col) {
			if phase == PhaseHomeSetup {
				return violation(ReasonWrongHalf, "home piece must be fully inside %s's half", player)
			}
			return violation(ReasonWrongHalf, "neutral piece must be placed on the opponent's half")
		}
	}

	for _, cell := range s.Cells(pos) {
		if !cell.InBounds() {
			return violation(ReasonOutOfBounds, "out of bounds")
		}
		if !b.At(cell).Empty() {
			return violation(ReasonBlocked, "cell %s already occupied", cell)
		}
	}
	return nil
}

// Place writes the shape and returns the fresh magnet id. Legality is the
// caller's concern.
func (b *Board) Place(s Shape, pos Pos, owner Owner) MagnetID {
	id := b.newMagnet()
	for _, sc := range s {
		b.set(pos.Add(sc.Offset), Cell{Owner: owner, Polarity: sc.Polarity, Magnet: id})
	}
	return id
}

func (b *Board) newMagnet() MagnetID {
	b.nextMagnet++
	return b.nextMagnet
}

// CheckInvariants verifies the grid invariants: a polarized cell is never
// empty, and every magnet id is held by exactly two adjacent cells of
// opposite polarity.
func (b *Board) CheckInvariants() error {
	type seen struct {
		pos   Pos
		pol   Polarity
		count int
	}
	magnets := make(map[MagnetID]*seen)

	for r := range Size {
		for c := range Size {
			cell := b.cells[r][c]
			pos := Pos{r, c}
			if cell.Owner > OwnerNeutral {
				return fmt.Errorf("%w: %s has owner %d", ErrCorruptMagnet, pos, cell.Owner)
			}
			if cell.Polarity != PolarityNone && cell.Owner == OwnerEmpty {
				return fmt.Errorf("%w: %s is polarized but empty", ErrCorruptMagnet, pos)
			}
			if cell.Magnet == 0 {
				continue
			}
			if !cell.Polarity.Polarized() {
				return fmt.Errorf("%w: %s belongs to magnet %d without polarity", ErrCorruptMagnet, pos, cell.Magnet)
			}
			s, ok := magnets[cell.Magnet]
			if !ok {
				magnets[cell.Magnet] = &seen{pos: pos, pol: cell.Polarity, count: 1}
				continue
			}
			s.count++
			if s.count > 2 {
				return fmt.Errorf("%w: magnet %d spans more than two cells", ErrCorruptMagnet, cell.Magnet)
			}
			if s.pol == cell.Polarity {
				return fmt.Errorf("%w: magnet %d has two %s poles", ErrCorruptMagnet, cell.Magnet, cell.Polarity)
			}
			if s.pos.Distance(pos) != 1 {
				return fmt.Errorf("%w: magnet %d cells %s and %s are not adjacent", ErrCorruptMagnet, cell.Magnet, s.pos, pos)
			}
		}
	}

	for id, s := range magnets {
		if s.count != 2 {
			return fmt.Errorf("%w: magnet %d has a single cell at %s", ErrCorruptMagnet, id, s.pos)
		}
	}
	return nil
}

// String renders the board as text, one row per line: '.' empty, '1'/'2'
// players, 'n' neutral, followed by the polarity sign
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := range Size {
		fmt.Fprintf(&sb, "%3d", c)
	}
	sb.WriteByte('\n')

	for r := range Size {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := range Size {
			cell := b.cells[r][c]
			switch cell.Owner {
			case OwnerEmpty:
				sb.WriteString("  .")
			case OwnerNeutral:
				fmt.Fprintf(&sb, " n%s", polaritySign(cell.Polarity))
			default:
				fmt.Fprintf(&sb, " %d%s", uint8(cell.Owner), polaritySign(cell.Polarity))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func polaritySign(p Polarity) string {
	if p.Polarized() {
		return p.String()
	}
	return " "
}
