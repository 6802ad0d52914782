package engine

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/hailam/fiveplay/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTNone       TTFlag = iota // Slot claimed, nothing stored yet
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
	TTExact                    // Exact score
)

// String returns the flag name.
func (f TTFlag) String() string {
	switch f {
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	case TTExact:
		return "exact"
	default:
		return "none"
	}
}

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint64     // Full 64-bit Zobrist hash of the last position mapped here
	Value    float64    // Score (bounded by flag)
	BestMove board.Cell // Best move found
	Age      uint16     // Search generation that last touched the slot
	Depth    uint8      // Remaining search depth
	Flag     TTFlag     // Type of bound
}

var entrySize = uint64(unsafe.Sizeof(TTEntry{}))

// TTStats are usage counters for diagnostics.
type TTStats struct {
	Entries    uint64 // Table capacity
	Used       uint64 // Slots claimed at least once
	Lookups    uint64
	Hits       uint64
	Collisions uint64 // Misses that evicted a position touched in the same search
}

// TranspositionTable is a direct-mapped hash table of search results.
// Each slot holds one position; a miss always replaces the slot.
// It is owned by a single search and is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	age     uint16
	stats   TTStats
}

// NewTranspositionTable creates a transposition table from a size in bytes.
func NewTranspositionTable(sizeBytes uint64) *TranspositionTable {
	numEntries := sizeBytes / entrySize
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
	}
}

// TTHandle is a claimed slot returned by Find.
type TTHandle struct {
	entry *TTEntry
	key   uint64
}

// Entry returns a copy of the slot contents.
func (h TTHandle) Entry() TTEntry {
	return *h.entry
}

// Store writes a search result to the slot. The key is written again because
// a deeper node may have claimed the same slot since Find.
func (h TTHandle) Store(flag TTFlag, depth int, value float64, bestMove board.Cell) {
	h.entry.Key = h.key
	h.entry.Flag = flag
	h.entry.Depth = uint8(depth)
	h.entry.Value = value
	h.entry.BestMove = bestMove
}

// index maps a hash to its slot using the high 32 bits.
func (tt *TranspositionTable) index(hash uint64) uint64 {
	return (hash >> 32) % tt.size
}

// Find looks up hash. It reports whether the slot holds the same position;
// a found slot may still carry TTNone if it was claimed but never stored.
// On a miss the slot is claimed for hash and its payload is cleared.
func (tt *TranspositionTable) Find(hash uint64) (TTHandle, bool) {
	tt.stats.Lookups++

	entry := &tt.entries[tt.index(hash)]
	found := entry.Key == hash
	if found {
		tt.stats.Hits++
	} else {
		if entry.Key == 0 {
			tt.stats.Used++
		} else if entry.Age == tt.age {
			tt.stats.Collisions++
		}
		*entry = TTEntry{Key: hash}
	}
	entry.Age = tt.age

	return TTHandle{entry: entry, key: hash}, found
}

// NewSearch increments the age counter for a new search.
// The age is only used for statistics.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Reset clears the transposition table and its counters.
func (tt *TranspositionTable) Reset() {
	clear(tt.entries)
	tt.age = 0
	tt.stats = TTStats{}
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	// Sample first 1000 entries
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Flag != TTNone {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// SizeBytes returns the memory held by the entries.
func (tt *TranspositionTable) SizeBytes() uint64 {
	return tt.size * entrySize
}

// Stats returns a snapshot of the usage counters.
func (tt *TranspositionTable) Stats() TTStats {
	s := tt.stats
	s.Entries = tt.size
	return s
}

// PrintStats writes the usage counters in a human readable form.
func (tt *TranspositionTable) PrintStats(w io.Writer) {
	s := tt.Stats()
	fmt.Fprintln(w, "cache stats:")
	fmt.Fprintf(w, "  entries       : %d\n", s.Used)
	fmt.Fprintf(w, "  usage         : %.2f %%\n", percent(s.Used, s.Entries))
	fmt.Fprintf(w, "  hit rate      : %.2f %%\n", percent(s.Hits, s.Lookups))
	fmt.Fprintf(w, "  collision rate: %.2f %%\n", percent(s.Collisions, s.Lookups))
}

func percent(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
