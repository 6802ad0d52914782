// Command testbench plays the engine against itself and prints the moves
// and search statistics of every game.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/game"
)

// openingSpread bounds the random opening offset from the center.
const openingSpread = 2

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	size := flag.Int("size", 19, "board size")
	rounds := flag.Int("rounds", 5, "move pairs per game")
	games := flag.Int("games", 1, "number of games")
	parallel := flag.Int("parallel", 1, "games played at the same time")
	randomOpening := flag.Bool("random-opening", false, "start each game from a random cell near the center")
	profileDir := flag.String("profile", "", "write a cpu profile to this directory")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	}

	logs := make([]strings.Builder, *games)
	results := make([]game.MatchResult, *games)

	var g errgroup.Group
	g.SetLimit(max(*parallel, 1))
	for i := range *games {
		opening := board.NoCell
		if *randomOpening {
			c := (*size + 1) / 2
			opening = board.NewCell(c+frand.Intn(2*openingSpread+1)-openingSpread,
				c+frand.Intn(2*openingSpread+1)-openingSpread)
		}
		g.Go(func() error {
			var err error
			results[i], err = game.PlayMatch(cfg, *size, *size, *rounds, opening, &logs[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	wins := [3]int{}
	for i := range results {
		fmt.Printf("game %d:\n%s\n", i+1, logs[i].String())
		wins[results[i].Winner]++
	}
	fmt.Fprintf(os.Stdout, "player_1 wins: %d, player_2 wins: %d, unfinished or drawn: %d\n", wins[1], wins[2], wins[0])
}
