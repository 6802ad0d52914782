package engine

import (
	"strings"

	"github.com/hailam/fiveplay/internal/board"
)

// Pattern scores, positive for the engine.
const (
	value2     = 1e1
	value2Open = 2e1
	value3     = 1e2
	value3Open = 2e2
	value4     = 2e2
	value4Open = 1e8
)

// Pattern is one stencil of the static table.
type Pattern struct {
	Stencil string
	Value   float64
}

// enginePatterns are written from the engine's side ('O').
// The player's side is derived by mirroring.
var enginePatterns = []Pattern{
	{"OO+++", value2},
	{"O+O++", value2},
	{"O++O+", value2},
	{"O+++O", value2},
	{"++O+O", value2},
	{"+++OO", value2},

	{"+OO++", value2Open},
	{"+O+O+", value2Open},
	{"+O++O+", value2Open},
	{"++OO+", value2Open},

	{"OOO++", value3},
	{"OO+O+", value3},
	{"OO++O", value3},
	{"O+OO+", value3},
	{"O+O+O", value3},
	{"O++OO", value3},
	{"+OO+O", value3},
	{"+O+OO", value3},
	{"++OOO", value3},

	{"+OOO+", value3Open},

	{"OOOO+", value4},
	{"OOO+O", value4},
	{"OO+OO", value4},
	{"O+OOO", value4},
	{"+OOOO", value4},

	{"+OOOO+", value4Open},
}

// mirror swaps the engine and player symbols of a stencil.
var mirror = strings.NewReplacer("O", "X", "X", "O")

// DefaultPatterns returns the static stencil table for both sides: each
// engine stencil followed by its mirrored player stencil with negated score.
func DefaultPatterns() []Pattern {
	patterns := make([]Pattern, 0, 2*len(enginePatterns))
	for _, p := range enginePatterns {
		patterns = append(patterns, p, Pattern{Stencil: mirror.Replace(p.Stencil), Value: -p.Value})
	}
	return patterns
}

// NewDefaultPatterns builds the trie from DefaultPatterns.
func NewDefaultPatterns() *Patterns {
	p := NewPatterns()
	for _, pat := range DefaultPatterns() {
		p.AddPattern(pat.Stencil, pat.Value)
	}
	return p
}

// evalDist is how far back from a stone evaluation anchors are collected.
const evalDist = 3

// scanDirections run forward from each anchor.
var scanDirections = [4]board.Direction{board.UpRight, board.Right, board.DownRight, board.Down}

// Evaluate scores the position from the engine's point of view.
func Evaluate(p *Patterns, b *board.Board) float64 {
	var anchors board.CellSet
	b.GetCellsToEvaluate(evalDist, &anchors)

	value := 0.0
	for _, c := range anchors.Slice() {
		for _, d := range scanDirections {
			value += p.GetValue(b, c, d)
		}
	}
	return value
}
