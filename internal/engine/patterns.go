package engine

import "github.com/hailam/fiveplay/internal/board"

// NeutralValue is the score of a run that matches no stencil.
const NeutralValue = 0.0

const noChild = -1

// patternNode is a trie node; children are indexed by the low two bits of a stone.
type patternNode struct {
	children [4]int32
	value    float64
	hasValue bool
}

// Patterns is a trie of stone stencils stored as an arena of nodes.
// Node 0 is the root.
type Patterns struct {
	nodes []patternNode
}

// NewPatterns creates an empty trie.
func NewPatterns() *Patterns {
	p := &Patterns{}
	p.newNode()
	return p
}

func (p *Patterns) newNode() int32 {
	p.nodes = append(p.nodes, patternNode{children: [4]int32{noChild, noChild, noChild, noChild}})
	return int32(len(p.nodes) - 1)
}

// symbolIndex maps a stencil symbol to a child index:
// '+' empty, 'O' engine, 'X' player, anything else forbidden.
func symbolIndex(ch byte) int {
	switch ch {
	case '+':
		return int(board.Empty)
	case 'O':
		return int(board.Engine)
	case 'X':
		return int(board.Player)
	default:
		return int(board.Forbidden)
	}
}

// AddPattern inserts stencil with the given score, creating nodes on demand.
func (p *Patterns) AddPattern(stencil string, value float64) {
	node := int32(0)
	for i := 0; i < len(stencil); i++ {
		idx := symbolIndex(stencil[i])
		child := p.nodes[node].children[idx]
		if child == noChild {
			child = p.newNode()
			p.nodes[node].children[idx] = child
		}
		node = child
	}
	p.nodes[node].value = value
	p.nodes[node].hasValue = true
}

// GetValue walks the trie with the stones starting at c along d and returns
// the score of the deepest matched node that carries one.
// The walk stops at the boundary or when the trie has no matching child.
func (p *Patterns) GetValue(b *board.Board, c board.Cell, d board.Direction) float64 {
	value := NeutralValue
	node := int32(0)
	for {
		if p.nodes[node].hasValue {
			value = p.nodes[node].value
		}
		s := b.Stone(c)
		if s == board.Boundary {
			return value
		}
		node = p.nodes[node].children[s&3]
		if node == noChild {
			return value
		}
		c = c.Step(d)
	}
}

// Len returns the number of trie nodes, root included.
func (p *Patterns) Len() int {
	return len(p.nodes)
}
