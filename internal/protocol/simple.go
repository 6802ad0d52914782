package protocol

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/game"
)

// Simple is the plain text protocol with 1-based "x y" coordinates.
//
//	start W [H]          ok | error: illegal size: WxH
//	move X Y             ok | player won | draw | error: illegal move: X Y
//	go                   X Y [engine won | draw]
//	set KEY VALUE        ok | error: ...
//	get KEY              VALUE | error: ...
//	board X Y STONE      ok | error: invalid cell: X Y | error: unknown value V
//	print                board diagram
//	stats                engine and cache statistics
//	quit                 bye
type Simple struct {
	cfg        *config.Config
	controller *game.Controller
	stopped    bool
}

// NewSimple creates a simple protocol handler.
func NewSimple(cfg *config.Config, c *game.Controller) *Simple {
	return &Simple{cfg: cfg, controller: c}
}

// Running reports whether quit has not been received.
func (p *Simple) Running() bool {
	return !p.stopped
}

// HandleRequest processes one request line.
func (p *Simple) HandleRequest(line string, w io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit":
		p.stopped = true
		fmt.Fprint(w, "bye")
	case "start":
		p.handleStart(args, w)
	case "move":
		p.handleMove(args, w)
	case "go":
		p.handleGo(w)
	case "set":
		p.handleSet(args, w)
	case "get":
		p.handleGet(args, w)
	case "board":
		p.handleBoard(args, w)
	case "print":
		fmt.Fprint(w, p.controller.Board().String())
	case "stats":
		p.controller.Engine().PrintStats(w)
	default:
		fmt.Fprintf(w, "error: unknown command: %s", cmd)
	}
	return true
}

// atoiAll parses every argument as an integer.
func atoiAll(args []string) ([]int, bool) {
	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (p *Simple) handleStart(args []string, w io.Writer) {
	values, ok := atoiAll(args)
	if !ok || len(values) < 1 || len(values) > 2 {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	width, height := values[0], values[0]
	if len(values) == 2 {
		height = values[1]
	}
	if !validSize(width, height) {
		fmt.Fprintf(w, "error: illegal size: %dx%d", width, height)
		return
	}
	if err := p.controller.Start(width, height); err != nil {
		fmt.Fprintf(w, "error: %v", err)
		return
	}
	fmt.Fprint(w, "ok")
}

func (p *Simple) handleMove(args []string, w io.Writer) {
	values, ok := atoiAll(args)
	if !ok || len(values) != 2 {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	if p.controller.State() == game.StateUnknown {
		fmt.Fprint(w, "error: game not started")
		return
	}
	x, y := values[0], values[1]
	move := makeCell(x, y)
	if !p.controller.Board().IsEmptyCell(move) {
		fmt.Fprintf(w, "error: illegal move: %d %d", x, y)
		return
	}

	p.controller.PlayerMove(move)
	switch p.controller.State() {
	case game.StatePlaying:
		fmt.Fprint(w, "ok")
	case game.StateWon:
		fmt.Fprint(w, "player won")
	case game.StateDraw:
		fmt.Fprint(w, "draw")
	}
}

func (p *Simple) handleGo(w io.Writer) {
	if p.controller.State() == game.StateUnknown {
		fmt.Fprint(w, "error: game not started")
		return
	}

	move := p.controller.EngineMove()
	fmt.Fprintf(w, "%d %d", move.X(), move.Y())
	switch p.controller.State() {
	case game.StateWon:
		fmt.Fprint(w, " engine won")
	case game.StateDraw:
		fmt.Fprint(w, " draw")
	}
}

func (p *Simple) handleSet(args []string, w io.Writer) {
	if len(args) != 2 {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	if err := p.cfg.Set(args[0], value); err != nil {
		fmt.Fprintf(w, "error: %v", err)
		return
	}
	fmt.Fprint(w, "ok")
}

func (p *Simple) handleGet(args []string, w io.Writer) {
	if len(args) != 1 {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	value, err := p.cfg.Get(args[0])
	if err != nil {
		fmt.Fprintf(w, "error: %v", err)
		return
	}
	fmt.Fprint(w, value)
}

func (p *Simple) handleBoard(args []string, w io.Writer) {
	if len(args) != 3 {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	values, ok := atoiAll(args[:2])
	if !ok {
		fmt.Fprint(w, "error: bad arguments")
		return
	}
	x, y := values[0], values[1]
	cell := makeCell(x, y)
	if !p.controller.Board().IsInside(cell) {
		fmt.Fprintf(w, "error: invalid cell: %d %d", x, y)
		return
	}
	stone, ok := board.ParseStone(args[2])
	if !ok {
		fmt.Fprintf(w, "error: unknown value %s", args[2])
		return
	}
	p.controller.SetCell(cell, stone)
	fmt.Fprint(w, "ok")
}
