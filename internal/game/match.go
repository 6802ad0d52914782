package game

import (
	"fmt"
	"io"
	"time"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
)

// MatchResult summarizes an engine versus engine game.
type MatchResult struct {
	Winner   int // 1 or 2, 0 if unfinished or drawn
	Moves    []board.Cell
	Duration time.Duration
	Stats    [2]engine.SearchStats
}

// PlayMatch plays two engines against each other on a width x height board
// for at most rounds move pairs. Each side sees its own moves as engine
// stones and the other side's as player stones. opening, if not NoCell, is
// played first on behalf of the second engine. Moves are logged to w.
func PlayMatch(cfg *config.Config, width, height, rounds int, opening board.Cell, w io.Writer) (MatchResult, error) {
	var sides [2]*Controller
	for i := range sides {
		sides[i] = NewController(cfg, engine.NewEngine(cfg))
		if err := sides[i].Start(width, height); err != nil {
			return MatchResult{}, err
		}
	}

	var result MatchResult
	start := time.Now()

	move := opening
	if move != board.NoCell {
		sides[1].SetCell(move, board.Engine)
		result.Moves = append(result.Moves, move)
		fmt.Fprintf(w, "opening : %d %d\n", move.X(), move.Y())
	}

play:
	for i := 0; i < rounds; i++ {
		for side, c := range sides {
			if move != board.NoCell {
				c.PlayerMove(move)
			}
			move = c.EngineMove()
			fmt.Fprintf(w, "player_%d: %d %d\n", side+1, move.X(), move.Y())

			if c.State() != StatePlaying {
				if c.State() == StateWon {
					result.Winner = side + 1
				}
				if move != board.NoCell {
					result.Moves = append(result.Moves, move)
				}
				break play
			}
			result.Moves = append(result.Moves, move)
		}
	}

	result.Duration = time.Since(start)
	for i, c := range sides {
		result.Stats[i] = c.Engine().TotalStats()
	}

	fmt.Fprintf(w, "total time: %.4f\n", result.Duration.Seconds())
	for i, c := range sides {
		fmt.Fprintf(w, "player_%d:\n", i+1)
		c.Engine().PrintStats(w)
	}
	return result, nil
}
