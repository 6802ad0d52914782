package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/game"
	"github.com/hailam/fiveplay/internal/protocol"
	"github.com/hailam/fiveplay/internal/storage"
)

// options are the flags that are not engine settings.
type options struct {
	dbDir      string
	cpuprofile string
	verbose    bool
}

func newFlagSet(cfg *config.Config, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("fiveplay", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	fs.StringVar(&opts.dbDir, "db", "", "storage directory (empty: platform default, -: disabled)")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	fs.BoolVar(&opts.verbose, "verbose", false, "log search progress to stderr")
	return fs
}

func main() {
	// First pass only locates the storage; stored settings are applied
	// before the second pass so that flags override them.
	var opts options
	newFlagSet(config.Default(), &opts).Parse(os.Args[1:])

	cfg := config.Default()
	store := openStorage(opts.dbDir)
	if store != nil {
		defer store.Close()
		if err := store.LoadConfig(cfg); err != nil {
			log.Printf("Warning: stored settings ignored: %v", err)
		}
	}
	newFlagSet(cfg, &opts).Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := opts.cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(cfg)
	if opts.verbose {
		eng.OnInfo = func(info engine.SearchInfo) {
			log.Printf("depth %d score %s nodes %d time %v move %s hashfull %d",
				info.Depth, engine.ScoreToString(info.Score), info.Nodes, info.Time, info.BestMove, info.HashFull)
		}
	}

	controller := game.NewController(cfg, eng)
	if store != nil {
		controller.SetRecorder(store)
	}

	out := bufio.NewWriter(os.Stdout)
	if err := protocol.Run(protocol.New(cfg, controller), os.Stdin, out); err != nil {
		log.Printf("protocol: %v", err)
	}
	out.Flush()

	if store != nil {
		if err := store.SaveConfig(cfg); err != nil {
			log.Printf("Warning: settings not saved: %v", err)
		}
	}
}

// openStorage opens the database in dir. Persistence is optional: on
// failure the engine runs without it.
func openStorage(dir string) *storage.Storage {
	if dir == "-" {
		return nil
	}
	store, err := storage.Open(dir)
	if err != nil {
		log.Printf("Warning: storage unavailable: %v", err)
		return nil
	}

	first, err := store.IsFirstLaunch()
	if err == nil && first {
		log.Printf("first launch, settings will be stored on exit")
		err = store.MarkFirstLaunchComplete()
	}
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	return store
}
