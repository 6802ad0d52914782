package board

// Stone is the occupant of a cell.
// The low bit is set only for real stones, and the low two bits select the
// pattern trie branch.
type Stone uint8

const (
	Empty     Stone = 0x00
	Engine    Stone = 0x01
	Forbidden Stone = 0x02
	Player    Stone = 0x03
	Boundary  Stone = 0x04
)

// IsStone returns true for engine and player stones.
func (s Stone) IsStone() bool {
	return s&1 != 0
}

// Opponent returns the other side's stone. Non-stones are returned unchanged.
func (s Stone) Opponent() Stone {
	switch s {
	case Engine:
		return Player
	case Player:
		return Engine
	default:
		return s
	}
}

// Symbol returns the single character used in board diagrams and pattern stencils.
func (s Stone) Symbol() byte {
	switch s {
	case Empty:
		return '+'
	case Engine:
		return 'O'
	case Player:
		return 'X'
	default:
		return '?'
	}
}

// String returns the stone name.
func (s Stone) String() string {
	switch s {
	case Empty:
		return "empty"
	case Engine:
		return "engine"
	case Forbidden:
		return "forbidden"
	case Player:
		return "player"
	case Boundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// ParseStone parses a stone name as produced by String.
// Boundary cannot be parsed: it is never placed by callers.
func ParseStone(name string) (Stone, bool) {
	switch name {
	case "empty":
		return Empty, true
	case "engine":
		return Engine, true
	case "forbidden":
		return Forbidden, true
	case "player":
		return Player, true
	}
	return Boundary, false
}
