// Package nav holds the selection model and the pure index transitions used by
// the gallery grid and the channel list. Nothing here touches the terminal; the
// TUI applies the results.
package nav

// Direction is a navigation key direction
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the direction name (used in logs)
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// DefaultColumns is the gallery column count
const DefaultColumns = 5

// Linear moves through a one-dimensional list. Up and Down step by one and
// stop at the ends; Left and Right are not list moves. ok is false when the
// move is blocked.
func Linear(index, length int, dir Direction) (next int, ok bool) {
	if length <= 0 || index < 0 || index >= length {
		return index, false
	}
	switch dir {
	case Up:
		if index > 0 {
			return index - 1, true
		}
	case Down:
		if index < length-1 {
			return index + 1, true
		}
	}
	return index, false
}

// Jump moves by delta and clamps to the list bounds. Used for paging and
// home/end, which unlike single steps land on the nearest valid index.
func Jump(index, length, delta int) (next int, ok bool) {
	if length <= 0 {
		return index, false
	}
	next = index + delta
	if next < 0 {
		next = 0
	}
	if next > length-1 {
		next = length - 1
	}
	return next, next != index
}

// Grid is a row-major grid with a fixed column count
type Grid struct {
	Columns int
}

// NewGrid returns a grid with the given column count (DefaultColumns when < 1)
func NewGrid(columns int) Grid {
	if columns < 1 {
		columns = DefaultColumns
	}
	return Grid{Columns: columns}
}

// Position returns the row and column of index
func (g Grid) Position(index int) (row, col int) {
	return index / g.Columns, index % g.Columns
}

// Rows returns the number of rows needed for length items
func (g Grid) Rows(length int) int {
	return (length + g.Columns - 1) / g.Columns
}

// Move applies a directional step. Vertical moves are bounded by rows (and
// Down additionally by length, since the last row may be short); horizontal
// moves are bounded by the column and by length.
func (g Grid) Move(index, length int, dir Direction) (next int, ok bool) {
	if length <= 0 || index < 0 || index >= length {
		return index, false
	}

	rowCount := g.Rows(length)
	row, col := g.Position(index)

	switch dir {
	case Up:
		if row > 0 {
			return index - g.Columns, true
		}
	case Down:
		if row < rowCount-1 && index+g.Columns < length {
			return index + g.Columns, true
		}
	case Left:
		if col > 0 {
			return index - 1, true
		}
	case Right:
		if col < g.Columns-1 && index+1 < length {
			return index + 1, true
		}
	}
	return index, false
}
