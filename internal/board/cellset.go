package board

// maxCells is the number of playable cells on the largest board.
const maxCells = MaxSize * MaxSize

// CellSet is a fixed-size ordered set of cells to avoid allocations.
// Insertion order is kept; duplicates are ignored.
type CellSet struct {
	cells  [maxCells]Cell
	member [StorageSize]bool
	count  int
}

// Insert adds c to the set. It returns false if c was already present.
func (cs *CellSet) Insert(c Cell) bool {
	if cs.member[c] {
		return false
	}
	cs.member[c] = true
	cs.cells[cs.count] = c
	cs.count++
	return true
}

// Contains returns true if the set contains c.
func (cs *CellSet) Contains(c Cell) bool {
	return cs.member[c]
}

// Len returns the number of cells in the set.
func (cs *CellSet) Len() int {
	return cs.count
}

// Get returns the cell at index i.
func (cs *CellSet) Get(i int) Cell {
	return cs.cells[i]
}

// Slice returns the cells in insertion order.
func (cs *CellSet) Slice() []Cell {
	return cs.cells[:cs.count]
}

// Clear empties the set.
func (cs *CellSet) Clear() {
	for _, c := range cs.cells[:cs.count] {
		cs.member[c] = false
	}
	cs.count = 0
}
