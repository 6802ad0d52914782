package board

// evalDirections are the directions walked back from a stone to find
// evaluation anchors. Forward scans run the opposite way.
var evalDirections = [4]Direction{DownLeft, Left, UpLeft, Up}

// GetPossibleMoves adds to cells every empty cell within Chebyshev distance
// dist of a real stone, in ascending cell order.
// An empty board yields no candidates; the caller picks the opening move.
func (b *Board) GetPossibleMoves(dist int, cells *CellSet) {
	var flags [StorageSize]bool

	for y := 1; y <= b.height; y++ {
		for x := 1; x <= b.width; x++ {
			if !b.stones[NewCell(x, y)].IsStone() {
				continue
			}
			y0, y1 := max(1, y-dist), min(b.height, y+dist)
			x0, x1 := max(1, x-dist), min(b.width, x+dist)
			for ny := y0; ny <= y1; ny++ {
				for nx := x0; nx <= x1; nx++ {
					flags[NewCell(nx, ny)] = true
				}
			}
		}
	}

	b.collect(&flags, cells, func(s Stone) bool { return s == Empty })
}

// GetCellsToEvaluate adds to cells the anchor cells for evaluation: every
// cell reached by walking up to dist cells (the stone itself included) from a
// real stone along DownLeft, Left, UpLeft and Up.
func (b *Board) GetCellsToEvaluate(dist int, cells *CellSet) {
	var flags [StorageSize]bool

	for y := 1; y <= b.height; y++ {
		for x := 1; x <= b.width; x++ {
			base := NewCell(x, y)
			if !b.stones[base].IsStone() {
				continue
			}
			for _, d := range evalDirections {
				c := base
				for i := 0; i < dist && b.stones[c] != Boundary; i++ {
					flags[c] = true
					c = c.Step(d)
				}
			}
		}
	}

	b.collect(&flags, cells, func(s Stone) bool { return s != Boundary })
}

// collect inserts flagged playable cells accepted by keep, in cell order.
func (b *Board) collect(flags *[StorageSize]bool, cells *CellSet, keep func(Stone) bool) {
	for y := 1; y <= b.height; y++ {
		for x := 1; x <= b.width; x++ {
			c := NewCell(x, y)
			if flags[c] && keep(b.stones[c]) {
				cells.Insert(c)
			}
		}
	}
}
