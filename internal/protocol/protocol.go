// Package protocol implements the line protocols used to drive the engine.
package protocol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/game"
)

// Protocol answers one request line at a time.
type Protocol interface {
	// HandleRequest processes line and writes its response to w.
	// It reports whether a response was written.
	HandleRequest(line string, w io.Writer) bool

	// Running reports whether more requests are accepted.
	Running() bool
}

// New creates the protocol selected by cfg.Protocol.
func New(cfg *config.Config, c *game.Controller) Protocol {
	if cfg.Protocol == config.ProtocolGomocup {
		return NewGomocup(cfg, c)
	}
	return NewSimple(cfg, c)
}

// Run reads requests from r until the protocol stops or r is exhausted.
// Every response is terminated by a newline.
func Run(p Protocol, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for p.Running() && scanner.Scan() {
		if !p.HandleRequest(scanner.Text(), w) {
			continue
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if f, ok := w.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// makeCell converts 1-based coordinates to a cell. Coordinates that do not
// fit the padded grid map to NoCell, which is never inside a board.
func makeCell(x, y int) board.Cell {
	if x < 0 || x >= board.Stride || y < 0 || y >= board.Stride {
		return board.NoCell
	}
	return board.NewCell(x, y)
}

// validSize reports whether a board of width x height can be started.
func validSize(width, height int) bool {
	return width >= board.MinSize && width <= board.MaxSize &&
		height >= board.MinSize && height <= board.MaxSize
}
