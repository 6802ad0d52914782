package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
)

func testConfig(depth int) *config.Config {
	cfg := config.Default()
	cfg.MaxDepth = depth
	cfg.CacheSize = 1 << 20
	return cfg
}

func TestEmptyBoardPlaysCenter(t *testing.T) {
	eng := NewEngine(testConfig(3))
	eng.Start()

	b := newTestBoard(t, 19, 19)
	move := eng.GetBestMove(b)
	if move != board.NewCell(10, 10) {
		t.Errorf("first move = %s, want 10,10", move)
	}
	if eng.Stats().Nodes != 0 {
		t.Errorf("opening move searched %d nodes", eng.Stats().Nodes)
	}
}

func TestCompletesOpenFour(t *testing.T) {
	for _, iterative := range []bool{true, false} {
		cfg := testConfig(3)
		cfg.IterativeDeepening = iterative
		eng := NewEngine(cfg)
		eng.Start()

		b := newTestBoard(t, 15, 15)
		setRow(b, 7, []int{5, 6, 7, 8}, board.Engine)
		setRow(b, 9, []int{5, 6, 7}, board.Player)
		hash := b.Hash()

		move := eng.GetBestMove(b)
		if !b.IsTerminalMove(move, board.Engine, cfg.ExactFive) {
			t.Errorf("iterative=%v: move %s does not complete five", iterative, move)
		}
		if eng.Score() < WinValue {
			t.Errorf("iterative=%v: score = %v, want win", iterative, eng.Score())
		}
		if b.Hash() != hash {
			t.Errorf("iterative=%v: GetBestMove modified the board", iterative)
		}
	}
}

func TestBlocksFour(t *testing.T) {
	eng := NewEngine(testConfig(2))
	eng.Start()

	b := newTestBoard(t, 15, 15)
	setRow(b, 7, []int{5, 6, 7, 8}, board.Player)
	b.Set(board.NewCell(4, 7), board.Engine)
	b.Set(board.NewCell(11, 11), board.Engine)

	move := eng.GetBestMove(b)
	if move != board.NewCell(9, 7) {
		t.Errorf("move = %s, want the block at 9,7", move)
	}
	if math.Abs(eng.Score()) >= WinValue {
		t.Errorf("score = %v, want a non-decisive value after blocking", eng.Score())
	}
}

func TestNoCandidatesIsDraw(t *testing.T) {
	eng := NewEngine(testConfig(3))
	eng.Start()

	b := newTestBoard(t, 5, 5)
	for y := 1; y <= 5; y++ {
		setRow(b, y, []int{1, 2, 3, 4, 5}, board.Forbidden)
	}
	if b.Empty() {
		t.Fatal("forbidden stones must change the hash")
	}

	if move := eng.GetBestMove(b); move != board.NoCell {
		t.Errorf("move = %s, want NoCell", move)
	}
	if eng.Score() != DrawValue {
		t.Errorf("score = %v, want draw", eng.Score())
	}
}

func TestIterativeDeepeningInfo(t *testing.T) {
	eng := NewEngine(testConfig(3))
	eng.Start()

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		t.Logf("depth %d score %s nodes %d move %s hashfull %d",
			info.Depth, ScoreToString(info.Score), info.Nodes, info.BestMove, info.HashFull)
	}

	b := newTestBoard(t, 15, 15)
	b.Set(board.NewCell(7, 7), board.Engine)
	b.Set(board.NewCell(8, 8), board.Player)

	if move := eng.GetBestMove(b); !b.IsEmptyCell(move) {
		t.Errorf("move %s is not an empty cell", move)
	}
	if len(depths) != 3 || depths[0] != 1 || depths[2] != 3 {
		t.Errorf("reported depths = %v, want [1 2 3]", depths)
	}

	stats := eng.Stats()
	if stats.Nodes == 0 || stats.Evals == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if eng.TotalStats().Nodes != stats.Nodes {
		t.Errorf("total nodes = %d, want %d", eng.TotalStats().Nodes, stats.Nodes)
	}

	eng.GetBestMove(b)
	if eng.TotalStats().Nodes <= stats.Nodes {
		t.Errorf("total stats did not accumulate")
	}
}

func TestStartResizesCache(t *testing.T) {
	cfg := testConfig(2)
	eng := NewEngine(cfg)
	eng.Start()
	before := eng.CacheStats().Entries

	cfg.CacheSize = 1 << 16
	eng.Start()
	after := eng.CacheStats().Entries
	if after == before || after != (1<<16)/entrySize {
		t.Errorf("entries %d -> %d, want %d", before, after, (1<<16)/entrySize)
	}

	b := newTestBoard(t, 9, 9)
	b.Set(board.NewCell(5, 5), board.Player)
	eng.GetBestMove(b)
	if eng.CacheStats().Lookups == 0 {
		t.Error("resized cache not used by the search")
	}
}

func TestPrintStats(t *testing.T) {
	eng := NewEngine(testConfig(2))
	eng.Start()

	b := newTestBoard(t, 9, 9)
	b.Set(board.NewCell(5, 5), board.Player)
	eng.GetBestMove(b)

	var sb strings.Builder
	eng.PrintStats(&sb)
	out := sb.String()
	for _, want := range []string{"thinking time:", "nodes    :", "cutoff rate :", "cache stats:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := map[float64]string{
		WinValue:  "win",
		-WinValue: "loss",
		120:       "120",
		0:         "0",
	}
	for score, want := range tests {
		if got := ScoreToString(score); got != want {
			t.Errorf("ScoreToString(%v) = %q, want %q", score, got, want)
		}
	}
}
