package engine

import (
	"fmt"
	"io"
	"time"
)

// SearchStats counts the work done by one or more searches.
type SearchStats struct {
	Nodes        uint64
	Evals        uint64
	Cutoffs      uint64
	Terminals    uint64
	ThinkingTime time.Duration
}

// minThinkingTime keeps the per-second rates finite.
const minThinkingTime = 100 * time.Microsecond

// Add accumulates other into s.
func (s *SearchStats) Add(other SearchStats) {
	s.Nodes += other.Nodes
	s.Evals += other.Evals
	s.Cutoffs += other.Cutoffs
	s.Terminals += other.Terminals
	s.ThinkingTime += other.ThinkingTime
}

// NodesPerSecond returns the search speed.
func (s SearchStats) NodesPerSecond() float64 {
	return float64(s.Nodes) / max(s.ThinkingTime, minThinkingTime).Seconds()
}

// Print writes the counters and the derived rates.
func (s SearchStats) Print(w io.Writer) {
	secs := max(s.ThinkingTime, minThinkingTime).Seconds()
	nodes := float64(max(s.Nodes, 1))

	fmt.Fprintf(w, "thinking time: %.4f\n", s.ThinkingTime.Seconds())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "nodes    : %d\n", s.Nodes)
	fmt.Fprintf(w, "evals    : %d\n", s.Evals)
	fmt.Fprintf(w, "cutoffs  : %d\n", s.Cutoffs)
	fmt.Fprintf(w, "terminals: %d\n", s.Terminals)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "node/sec: %.0f\n", float64(s.Nodes)/secs)
	fmt.Fprintf(w, "eval/sec: %.0f\n", float64(s.Evals)/secs)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "eval rate   : %.4f\n", float64(s.Evals)/nodes)
	fmt.Fprintf(w, "cutoff rate : %.4f\n", float64(s.Cutoffs)/nodes)
}
