package protocol

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/game"
)

// Gomocup rule bits sent with INFO rule.
const gomocupRuleExactFive = 1

// Gomocup speaks the Gomocup piskvork protocol with 0-based "x,y" coordinates.
type Gomocup struct {
	cfg        *config.Config
	controller *game.Controller
	stopped    bool

	// BOARD ... DONE block in progress
	readingBoard bool

	width, height int
}

// NewGomocup creates a Gomocup protocol handler.
func NewGomocup(cfg *config.Config, c *game.Controller) *Gomocup {
	return &Gomocup{cfg: cfg, controller: c}
}

// Running reports whether END has not been received.
func (p *Gomocup) Running() bool {
	return !p.stopped
}

// HandleRequest processes one request line.
func (p *Gomocup) HandleRequest(line string, w io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if p.readingBoard {
		return p.handleBoardLine(line, w)
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToUpper(cmd) {
	case "START":
		size, err := strconv.Atoi(rest)
		if err != nil {
			fmt.Fprint(w, "ERROR bad arguments")
			return true
		}
		p.start(size, size, w)
	case "RECTSTART":
		values, ok := parseInts(rest, 2)
		if !ok {
			fmt.Fprint(w, "ERROR bad arguments")
			return true
		}
		p.start(values[0], values[1], w)
	case "RESTART":
		p.start(p.width, p.height, w)
	case "BEGIN":
		p.engineMove(w)
	case "TURN":
		p.handleTurn(rest, w)
	case "BOARD":
		if !p.started(w) {
			return true
		}
		if err := p.controller.Start(p.width, p.height); err != nil {
			fmt.Fprintf(w, "ERROR %v", err)
			return true
		}
		p.readingBoard = true
		return false
	case "INFO":
		p.handleInfo(rest)
		return false
	case "ABOUT":
		fmt.Fprint(w, `name="fiveplay", version="1.0", author="FivePlay Team", country="-"`)
	case "END":
		p.stopped = true
		return false
	default:
		fmt.Fprintf(w, "UNKNOWN unsupported command %s", cmd)
	}
	return true
}

func (p *Gomocup) start(width, height int, w io.Writer) {
	if !validSize(width, height) {
		fmt.Fprintf(w, "ERROR unsupported size %dx%d", width, height)
		return
	}
	if err := p.controller.Start(width, height); err != nil {
		fmt.Fprintf(w, "ERROR %v", err)
		return
	}
	p.width, p.height = width, height
	fmt.Fprint(w, "OK")
}

func (p *Gomocup) started(w io.Writer) bool {
	if p.controller.State() == game.StateUnknown {
		fmt.Fprint(w, "ERROR no game started")
		return false
	}
	return true
}

func (p *Gomocup) handleTurn(args string, w io.Writer) {
	if !p.started(w) {
		return
	}
	values, ok := parseInts(args, 2)
	if !ok {
		fmt.Fprint(w, "ERROR bad arguments")
		return
	}
	move, ok := p.cell(values[0], values[1])
	if !ok || p.controller.Board().Stone(move) != board.Empty {
		fmt.Fprintf(w, "ERROR illegal move %d,%d", values[0], values[1])
		return
	}
	p.controller.PlayerMove(move)
	p.engineMove(w)
}

// handleBoardLine reads one "x,y,field" line of a BOARD block.
func (p *Gomocup) handleBoardLine(line string, w io.Writer) bool {
	if strings.EqualFold(line, "DONE") {
		p.readingBoard = false
		p.engineMove(w)
		return true
	}

	values, ok := parseInts(line, 3)
	if !ok {
		return false
	}
	cell, ok := p.cell(values[0], values[1])
	if !ok {
		return false
	}
	switch values[2] {
	case 1:
		p.controller.SetCell(cell, board.Engine)
	case 2:
		p.controller.SetCell(cell, board.Player)
	case 3:
		p.controller.SetCell(cell, board.Forbidden)
	}
	return false
}

// handleInfo applies the settings the engine understands and ignores the rest.
func (p *Gomocup) handleInfo(args string) {
	key, value, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return
	}

	switch key {
	case "rule":
		p.cfg.ExactFive = n&gomocupRuleExactFive != 0
	case "max_memory":
		// 0 means no limit; the cache is resized at the next start.
		if n > 0 {
			if err := p.cfg.Set(config.KeyCacheSize, min(n/2, config.MaxCacheSize)); err != nil {
				log.Printf("INFO max_memory %d ignored: %v", n, err)
			}
		}
	}
}

func (p *Gomocup) engineMove(w io.Writer) {
	if !p.started(w) {
		return
	}
	move := p.controller.EngineMove()
	if move == board.NoCell {
		fmt.Fprint(w, "ERROR no moves left")
		return
	}
	fmt.Fprintf(w, "%d,%d", move.X()-1, move.Y()-1)
}

// cell converts 0-based coordinates. Every row of the board is playable
// here, the last one included, since the manager may use all of them.
func (p *Gomocup) cell(x, y int) (board.Cell, bool) {
	b := p.controller.Board()
	if x < 0 || x >= b.Width() || y < 0 || y >= b.Height() {
		return board.NoCell, false
	}
	return board.NewCell(x+1, y+1), true
}

// parseInts parses exactly n comma separated integers.
func parseInts(s string, n int) ([]int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, false
	}
	values := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
