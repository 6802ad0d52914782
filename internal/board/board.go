package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSize is returned when a board dimension is outside [MinSize, MaxSize].
var ErrInvalidSize = errors.New("invalid board size")

// Board is a padded grid of stones with an incrementally maintained Zobrist hash.
// Every cell outside the playable rectangle holds Boundary, so directional
// scans need no explicit bounds checks.
type Board struct {
	width  int
	height int
	hash   uint64
	count  int // non-empty playable cells
	keys   *ZobristKeys
	stones [StorageSize]Stone
}

// NewBoard creates an uninitialized board using the default Zobrist table.
// Call Initialize before use.
func NewBoard() *Board {
	return NewBoardWithKeys(defaultKeys)
}

// NewBoardWithKeys creates an uninitialized board sharing the given key table.
func NewBoardWithKeys(keys *ZobristKeys) *Board {
	b := &Board{keys: keys}
	for i := range b.stones {
		b.stones[i] = Boundary
	}
	return b
}

// Initialize resets the board to an empty width x height game.
func (b *Board) Initialize(width, height int) error {
	if width < MinSize || width > MaxSize || height < MinSize || height > MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	b.width = width
	b.height = height
	b.hash = 0
	b.count = 0

	for i := range b.stones {
		b.stones[i] = Boundary
	}
	for y := 1; y <= height; y++ {
		row := b.stones[NewCell(1, y) : NewCell(width, y)+1]
		for i := range row {
			row[i] = Empty
		}
	}
	return nil
}

// Width returns the number of playable columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of playable rows.
func (b *Board) Height() int {
	return b.height
}

// Hash returns the Zobrist hash of the position.
func (b *Board) Hash() uint64 {
	return b.hash
}

// Empty reports whether no stone has been placed.
// The zero hash stands in for an empty board; a collision is accepted as improbable.
func (b *Board) Empty() bool {
	return b.hash == 0
}

// StoneCount returns the number of occupied playable cells, forbidden ones
// included.
func (b *Board) StoneCount() int {
	return b.count
}

// Stone returns the stone on cell c.
func (b *Board) Stone(c Cell) Stone {
	return b.stones[c]
}

// Keys returns the Zobrist table used by the board.
func (b *Board) Keys() *ZobristKeys {
	return b.keys
}

// Center returns the middle cell of the playable area.
func (b *Board) Center() Cell {
	return NewCell((b.width+1)/2, (b.height+1)/2)
}

// IsInside reports whether c lies inside the playable area.
// The last row is reported as outside: text protocols reject moves there.
func (b *Board) IsInside(c Cell) bool {
	x, y := c.X(), c.Y()
	return x > 0 && x <= b.width && y > 0 && y < b.height
}

// IsEmptyCell reports whether c is inside and unoccupied.
func (b *Board) IsEmptyCell(c Cell) bool {
	return b.IsInside(c) && b.stones[c] == Empty
}

// Set writes stone s to cell c and updates the hash.
// Setting Empty undoes a previous Set. No legality check is done.
func (b *Board) Set(c Cell, s Stone) {
	old := b.stones[c]
	switch {
	case old == Empty && s != Empty:
		b.count++
	case old != Empty && s == Empty:
		b.count--
	}
	b.hash ^= b.keys[c][old]
	b.hash ^= b.keys[c][s]
	b.stones[c] = s
}

// countSimilar counts consecutive cells holding s, starting one step from c.
func (b *Board) countSimilar(c Cell, s Stone, d Direction) int {
	count := 0
	for c = c.Step(d); b.stones[c] == s; c = c.Step(d) {
		count++
	}
	return count
}

// IsTerminalMove reports whether placing s on c would complete five in a row.
// With exactFive only a line of exactly five counts; otherwise five or more.
// The board is only read: call it before Set.
func (b *Board) IsTerminalMove(c Cell, s Stone, exactFive bool) bool {
	for _, axis := range Axes {
		count := b.countSimilar(c, s, axis[0]) + b.countSimilar(c, s, axis[1])
		if (exactFive && count == 4) || (!exactFive && count >= 4) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy sharing the same key table.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// String returns a text diagram of the playable area.
func (b *Board) String() string {
	var sb strings.Builder

	sb.WriteString("   ")
	for x := 1; x <= b.width; x++ {
		if tens := x / 10; tens != 0 {
			fmt.Fprintf(&sb, "%d ", tens)
		} else {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n   ")
	for x := 1; x <= b.width; x++ {
		fmt.Fprintf(&sb, "%d ", x%10)
	}
	sb.WriteString("\n")

	for y := 1; y <= b.height; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 1; x <= b.width; x++ {
			sb.WriteByte(b.stones[NewCell(x, y)].Symbol())
			if x < b.width {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
