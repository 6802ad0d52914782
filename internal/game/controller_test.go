package game

import (
	"errors"
	"testing"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

type fakeRecorder struct {
	results []storage.GameResult
}

func (r *fakeRecorder) RecordGame(result storage.GameResult) error {
	r.results = append(r.results, result)
	return nil
}

func newTestController(t *testing.T, width, height int) (*Controller, *fakeRecorder) {
	t.Helper()
	cfg := config.Default()
	cfg.MaxDepth = 2
	cfg.CacheSize = 1 << 20

	c := NewController(cfg, engine.NewEngine(cfg))
	rec := &fakeRecorder{}
	c.SetRecorder(rec)
	if err := c.Start(width, height); err != nil {
		t.Fatalf("Start(%d, %d): %v", width, height, err)
	}
	return c, rec
}

func TestStart(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, engine.NewEngine(cfg))
	if c.State() != StateUnknown {
		t.Errorf("initial state = %s", c.State())
	}

	if err := c.Start(4, 19); !errors.Is(err, board.ErrInvalidSize) {
		t.Errorf("Start(4, 19) error = %v, want ErrInvalidSize", err)
	}
	if c.State() != StateUnknown {
		t.Errorf("state after failed start = %s", c.State())
	}

	if err := c.Start(19, 19); err != nil {
		t.Fatal(err)
	}
	if c.State() != StatePlaying || !c.Board().Empty() || c.Board().Width() != 19 {
		t.Errorf("after Start: state %s, empty %v, width %d", c.State(), c.Board().Empty(), c.Board().Width())
	}
}

func TestOpeningMove(t *testing.T) {
	c, _ := newTestController(t, 19, 19)

	move := c.EngineMove()
	if move != board.NewCell(10, 10) {
		t.Errorf("opening = %s, want 10,10", move)
	}
	if c.Board().Stone(move) != board.Engine || c.Moves() != 1 {
		t.Errorf("stone %s, moves %d", c.Board().Stone(move), c.Moves())
	}
	if c.State() != StatePlaying {
		t.Errorf("state = %s", c.State())
	}
}

func TestPlayerWins(t *testing.T) {
	c, rec := newTestController(t, 15, 15)

	for x := 3; x <= 6; x++ {
		c.PlayerMove(board.NewCell(x, 5))
		if c.State() != StatePlaying {
			t.Fatalf("state after %d stones = %s", x-2, c.State())
		}
	}
	c.PlayerMove(board.NewCell(7, 5))

	if c.State() != StateWon {
		t.Fatalf("state = %s, want won", c.State())
	}
	if len(rec.results) != 1 || rec.results[0].Winner != storage.WinnerPlayer || rec.results[0].Moves != 5 {
		t.Errorf("recorded = %+v", rec.results)
	}

	// A finished game is reported once.
	c.PlayerMove(board.NewCell(8, 5))
	if len(rec.results) != 1 {
		t.Errorf("recorded %d results, want 1", len(rec.results))
	}
}

func TestEngineWins(t *testing.T) {
	c, rec := newTestController(t, 15, 15)
	for x := 5; x <= 8; x++ {
		c.SetCell(board.NewCell(x, 7), board.Engine)
	}
	c.PlayerMove(board.NewCell(4, 7))

	move := c.EngineMove()
	if move != board.NewCell(9, 7) {
		t.Errorf("move = %s, want 9,7", move)
	}
	if c.State() != StateWon {
		t.Errorf("state = %s, want won", c.State())
	}
	if len(rec.results) != 1 || rec.results[0].Winner != storage.WinnerEngine {
		t.Errorf("recorded = %+v", rec.results)
	}
	if rec.results[0].Width != 15 || rec.results[0].Height != 15 {
		t.Errorf("recorded size %dx%d", rec.results[0].Width, rec.results[0].Height)
	}
}

func TestDraw(t *testing.T) {
	c, rec := newTestController(t, 5, 5)
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			c.SetCell(board.NewCell(x, y), board.Forbidden)
		}
	}

	if move := c.EngineMove(); move != board.NoCell {
		t.Errorf("move = %s, want NoCell", move)
	}
	if c.State() != StateDraw {
		t.Errorf("state = %s, want draw", c.State())
	}
	if len(rec.results) != 1 || rec.results[0].Winner != storage.WinnerNone {
		t.Errorf("recorded = %+v", rec.results)
	}
}

func TestRecordToStorage(t *testing.T) {
	s, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c, _ := newTestController(t, 9, 9)
	c.SetRecorder(s)
	for x := 2; x <= 6; x++ {
		c.PlayerMove(board.NewCell(x, 2))
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.PlayerWins != 1 || stats.GamesBySize["9x9"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSetCellKeepsSearchExact(t *testing.T) {
	c, _ := newTestController(t, 9, 9)

	c.PlayerMove(board.NewCell(5, 5))
	first := c.EngineMove()
	player := board.NewCell(4, 6)
	if c.Board().Stone(player) != board.Empty {
		player = board.NewCell(6, 4)
	}
	c.PlayerMove(player)
	c.EngineMove()

	// Swap two stones: the stone count stays the same.
	c.SetCell(first, board.Player)
	c.SetCell(player, board.Engine)

	cfg := config.Default()
	cfg.MaxDepth = 2
	cfg.CacheSize = 1 << 20
	cfg.UseCache = false
	reference := engine.NewEngine(cfg)
	reference.Start()
	reference.GetBestMove(c.Board())

	c.EngineMove()
	if got, want := c.Engine().Score(), reference.Score(); got != want {
		t.Errorf("score after editing the board = %v, uncached search gives %v", got, want)
	}
}
