// Package game runs a single five-in-a-row game between the engine and a player.
package game

import (
	"log"
	"time"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

// State is the phase of the game.
type State int

const (
	StateUnknown State = iota // Not started
	StatePlaying
	StateWon
	StateDraw
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Recorder receives every finished game.
type Recorder interface {
	RecordGame(result storage.GameResult) error
}

// Controller owns the board of one game and applies moves from both sides.
// It is not safe for concurrent use.
type Controller struct {
	cfg      *config.Config
	engine   *engine.Engine
	board    *board.Board
	state    State
	recorder Recorder

	started  time.Time
	moves    int
	reported bool
}

// NewController creates a controller using cfg and eng. The same config
// must be the one eng was created with.
func NewController(cfg *config.Config, eng *engine.Engine) *Controller {
	return &Controller{
		cfg:    cfg,
		engine: eng,
		board:  board.NewBoard(),
	}
}

// SetRecorder sets where finished games are reported. nil disables recording.
func (c *Controller) SetRecorder(r Recorder) {
	c.recorder = r
}

// State returns the game state.
func (c *Controller) State() State {
	return c.state
}

// Board returns the game board. Callers must not modify it.
func (c *Controller) Board() *board.Board {
	return c.board
}

// Engine returns the engine playing this game.
func (c *Controller) Engine() *engine.Engine {
	return c.engine
}

// Moves returns the number of stones played since Start.
func (c *Controller) Moves() int {
	return c.moves
}

// Start begins a new game on an empty width x height board.
func (c *Controller) Start(width, height int) error {
	if err := c.board.Initialize(width, height); err != nil {
		return err
	}
	c.engine.Start()
	c.state = StatePlaying
	c.started = time.Now()
	c.moves = 0
	c.reported = false
	return nil
}

// SetCell writes a stone without any rule checks. The engine cache is
// cleared since the edit may take stones back.
func (c *Controller) SetCell(cell board.Cell, s board.Stone) {
	c.board.Set(cell, s)
	c.engine.ClearCache()
}

// PlayerMove plays the player's stone on move, which must be an empty cell.
func (c *Controller) PlayerMove(move board.Cell) {
	won := c.board.IsTerminalMove(move, board.Player, c.cfg.ExactFive)
	c.board.Set(move, board.Player)
	c.moves++
	if won {
		c.finish(StateWon, storage.WinnerPlayer)
	}
}

// EngineMove asks the engine for a move and plays it.
// NoCell means no move was left and the game is drawn.
func (c *Controller) EngineMove() board.Cell {
	move := c.engine.GetBestMove(c.board)
	if move == board.NoCell {
		c.finish(StateDraw, storage.WinnerNone)
		return move
	}

	won := c.board.IsTerminalMove(move, board.Engine, c.cfg.ExactFive)
	c.board.Set(move, board.Engine)
	c.moves++
	if won {
		c.finish(StateWon, storage.WinnerEngine)
	}
	return move
}

func (c *Controller) finish(state State, winner storage.Winner) {
	c.state = state
	if c.recorder == nil || c.reported {
		return
	}
	c.reported = true

	err := c.recorder.RecordGame(storage.GameResult{
		Winner:   winner,
		Width:    c.board.Width(),
		Height:   c.board.Height(),
		Moves:    c.moves,
		Duration: time.Since(c.started),
	})
	if err != nil {
		log.Printf("failed to record game: %v", err)
	}
}
