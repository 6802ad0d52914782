package engine

import (
	"math"

	"github.com/hailam/fiveplay/internal/board"
)

// Search constants
const (
	// WinValue scores a completed five. It dominates any sum of pattern
	// scores and stays finite so negation and comparison are well defined.
	WinValue = 1e20

	// DrawValue scores a node without candidate moves.
	DrawValue = 0.0
)

// Infinity only opens the root window.
var Infinity = math.Inf(1)

// playerToMoveKey is mixed into the cache key of nodes where the player is
// to move, so the same stones with a different side to move never share an
// entry.
const playerToMoveKey uint64 = 0x9D39247E33776D41

// Candidate neighbourhoods: wider at the root, adjacent cells below it.
const (
	rootMoveDistance = 2
	moveDistance     = 1
)

// Searcher performs the NegaMax alpha-beta search on a single board.
type Searcher struct {
	tt        *TranspositionTable
	patterns  *Patterns
	exactFive bool
	useCache  bool
	stats     *SearchStats
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable, patterns *Patterns, stats *SearchStats) *Searcher {
	return &Searcher{
		tt:       tt,
		patterns: patterns,
		useCache: true,
		stats:    stats,
	}
}

// SetExactFive selects the winning rule: exactly five, or five or more.
func (s *Searcher) SetExactFive(exact bool) {
	s.exactFive = exact
}

// SetUseCache enables or disables transposition table probes.
func (s *Searcher) SetUseCache(use bool) {
	s.useCache = use
}

// Search runs a fixed-depth search for the engine to move.
// It returns NoCell when no candidate move exists.
func (s *Searcher) Search(b *board.Board, depth int) (board.Cell, float64) {
	value, move := s.negamax(b, depth, 0, -Infinity, Infinity, 1)
	return move, value
}

// negamax returns the value of the position for the side to move (color +1
// for the engine, -1 for the player) and the best move found.
// The board is restored before returning.
func (s *Searcher) negamax(b *board.Board, depth, ply int, alpha, beta, color float64) (float64, board.Cell) {
	s.stats.Nodes++

	originalAlpha := alpha
	hint := board.NoCell

	var slot TTHandle
	if s.useCache {
		key := b.Hash()
		if color < 0 {
			key ^= playerToMoveKey
		}
		var found bool
		slot, found = s.tt.Find(key)
		if entry := slot.Entry(); found && entry.Flag != TTNone {
			hint = entry.BestMove
			if ply > 0 && int(entry.Depth) >= depth {
				switch entry.Flag {
				case TTExact:
					return entry.Value, entry.BestMove
				case TTLowerBound:
					alpha = max(alpha, entry.Value)
				case TTUpperBound:
					beta = min(beta, entry.Value)
				}
				if alpha >= beta {
					return entry.Value, entry.BestMove
				}
			}
		}
	}

	if depth == 0 {
		s.stats.Evals++
		value := color * Evaluate(s.patterns, b)
		if s.useCache {
			slot.Store(TTExact, 0, value, board.NoCell)
		}
		return value, board.NoCell
	}

	dist := moveDistance
	if ply == 0 {
		dist = rootMoveDistance
	}

	var moves board.CellSet
	if hint != board.NoCell && b.IsEmptyCell(hint) {
		moves.Insert(hint)
	}
	b.GetPossibleMoves(dist, &moves)

	if moves.Len() == 0 {
		if s.useCache {
			slot.Store(TTExact, depth, DrawValue, board.NoCell)
		}
		return DrawValue, board.NoCell
	}

	stone := board.Engine
	if color < 0 {
		stone = board.Player
	}

	bestValue := -Infinity
	bestMove := board.NoCell
	for _, move := range moves.Slice() {
		var value float64
		if b.IsTerminalMove(move, stone, s.exactFive) {
			s.stats.Terminals++
			value = WinValue
		} else {
			b.Set(move, stone)
			childValue, _ := s.negamax(b, depth-1, ply+1, -beta, -alpha, -color)
			b.Set(move, board.Empty)
			value = -childValue
		}

		if value > bestValue {
			bestValue = value
			bestMove = move
		}
		if bestValue > alpha {
			alpha = bestValue
		}
		if alpha >= beta {
			s.stats.Cutoffs++
			break
		}
	}

	if s.useCache {
		var flag TTFlag
		switch {
		case bestValue <= originalAlpha:
			flag = TTUpperBound
		case bestValue >= beta:
			flag = TTLowerBound
		default:
			flag = TTExact
		}
		slot.Store(flag, depth, bestValue, bestMove)
	}

	return bestValue, bestMove
}
