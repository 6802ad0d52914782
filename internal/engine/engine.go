// Package engine searches five-in-a-row positions with NegaMax alpha-beta,
// a transposition table and a pattern evaluator.
package engine

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
)

// SearchInfo contains information about a finished search iteration.
type SearchInfo struct {
	Depth    int
	Score    float64
	Nodes    uint64
	Time     time.Duration
	BestMove board.Cell
	HashFull int // Permille of hash table used
}

// Engine is the five-in-a-row AI engine.
// It is not safe for concurrent use; run one engine per game.
type Engine struct {
	cfg      *config.Config
	patterns *Patterns
	tt       *TranspositionTable
	searcher *Searcher

	stats SearchStats // last search
	total SearchStats // since Start
	score float64     // score of the last search

	// Root of the previous search. Cached entries are only reusable while
	// the game moves forward under the same rules.
	lastStones    int
	lastExactFive bool
	stale         bool // cache cleared before the next search

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine reading its settings from cfg.
// The transposition table is sized from cfg.CacheSize.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:      cfg,
		patterns: NewDefaultPatterns(),
		tt:       NewTranspositionTable(cfg.CacheSize),
	}
	e.searcher = NewSearcher(e.tt, e.patterns, &e.stats)
	return e
}

// Start prepares the engine for a new game.
// The cache is reallocated if the configured size changed.
func (e *Engine) Start() {
	if max(e.cfg.CacheSize/entrySize, 1) != e.tt.Size() {
		e.tt = NewTranspositionTable(e.cfg.CacheSize)
		e.searcher.tt = e.tt
	}
	e.tt.Reset()
	e.total = SearchStats{}
	e.stats = SearchStats{}
	e.lastStones = 0
	e.lastExactFive = e.cfg.ExactFive
	e.stale = false
}

// ClearCache drops every cached position before the next search. Callers
// that edit the board outside of normal play, for example to take stones
// back, must call it.
func (e *Engine) ClearCache() {
	e.stale = true
}

// GetBestMove returns the engine's move on b, or NoCell when no move is left.
// The board itself is not modified.
func (e *Engine) GetBestMove(b *board.Board) board.Cell {
	start := time.Now()
	e.stats = SearchStats{}
	e.score = 0

	// Entries of a later position or of other rules were searched deeper
	// or differently than this search would, and could change its result.
	if e.stale || b.StoneCount() < e.lastStones || e.cfg.ExactFive != e.lastExactFive {
		e.tt.Reset()
	}
	e.stale = false
	e.lastStones = b.StoneCount()
	e.lastExactFive = e.cfg.ExactFive

	e.tt.NewSearch()
	e.searcher.SetExactFive(e.cfg.ExactFive)
	e.searcher.SetUseCache(e.cfg.UseCache)

	var bestMove board.Cell
	if b.Empty() {
		bestMove = b.Center()
	} else {
		bestMove = e.search(b.Clone(), start)
	}

	e.stats.ThinkingTime = time.Since(start)
	e.total.Add(e.stats)
	return bestMove
}

func (e *Engine) search(b *board.Board, start time.Time) board.Cell {
	minDepth := 1
	if !e.cfg.IterativeDeepening {
		minDepth = e.cfg.MaxDepth
	}

	bestMove := board.NoCell
	for depth := minDepth; depth <= e.cfg.MaxDepth; depth++ {
		move, score := e.searcher.Search(b, depth)
		bestMove = move
		e.score = score

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    e.stats.Nodes,
				Time:     time.Since(start),
				BestMove: move,
				HashFull: e.tt.HashFull(),
			})
		}

		// No move left, or the result is already forced.
		if move == board.NoCell || math.Abs(score) >= WinValue {
			break
		}
	}
	return bestMove
}

// Evaluate returns the static evaluation of a position from the engine's side.
func (e *Engine) Evaluate(b *board.Board) float64 {
	return Evaluate(e.patterns, b)
}

// Score returns the search score of the last GetBestMove call.
func (e *Engine) Score() float64 {
	return e.score
}

// Stats returns the counters of the last search.
func (e *Engine) Stats() SearchStats {
	return e.stats
}

// TotalStats returns the counters accumulated since Start.
func (e *Engine) TotalStats() SearchStats {
	return e.total
}

// CacheStats returns the transposition table counters.
func (e *Engine) CacheStats() TTStats {
	return e.tt.Stats()
}

// PrintStats writes search and cache statistics.
func (e *Engine) PrintStats(w io.Writer) {
	fmt.Fprintln(w, "engine stats:")
	e.stats.Print(w)
	fmt.Fprintln(w)
	e.tt.PrintStats(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "game stats:")
	fmt.Fprintf(w, "nodes    : %d\n", e.total.Nodes)
	fmt.Fprintf(w, "node/sec : %.0f\n", e.total.NodesPerSecond())
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score float64) string {
	switch {
	case score >= WinValue:
		return "win"
	case score <= -WinValue:
		return "loss"
	}
	return fmt.Sprintf("%.0f", score)
}
