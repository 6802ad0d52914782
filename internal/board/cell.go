// Package board implements the five-in-a-row board on a padded grid.
package board

import "fmt"

// Board geometry.
const (
	MinSize = 5
	MaxSize = 30

	// Stride is the fixed row length of the padded grid. It leaves room for
	// a one-cell boundary ring around the largest playable board.
	Stride      = 32
	StorageSize = Stride * Stride
)

// Cell is a coordinate on the padded grid, encoded as x | y<<5.
// Playable cells are 1-based.
type Cell uint16

// NoCell is the invalid cell (0,0). It always lies on the boundary ring.
const NoCell Cell = 0

// NewCell creates a cell from 1-based coordinates.
func NewCell(x, y int) Cell {
	return Cell(x&0x1f) | Cell(y&0x1f)<<5
}

// X returns the column of the cell.
func (c Cell) X() int {
	return int(c) & 0x1f
}

// Y returns the row of the cell.
func (c Cell) Y() int {
	return int(c) >> 5
}

// Step returns the neighbouring cell in direction d.
func (c Cell) Step(d Direction) Cell {
	return Cell(int(c) + int(d))
}

// String returns the cell as "x,y".
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.X(), c.Y())
}

// Direction is a signed offset between neighbouring cells.
type Direction int

// The eight neighbour directions. Up decreases y.
const (
	Up        Direction = -Stride
	Right     Direction = 1
	Down      Direction = Stride
	Left      Direction = -1
	UpRight             = Up + Right
	DownRight           = Down + Right
	DownLeft            = Down + Left
	UpLeft              = Up + Left
)

// Axes lists the four lines through a cell as pairs of opposite directions.
var Axes = [4][2]Direction{
	{Up, Down},
	{UpRight, DownLeft},
	{Right, Left},
	{DownRight, UpLeft},
}
