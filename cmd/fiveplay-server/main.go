package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/server"
	"github.com/hailam/fiveplay/internal/storage"
)

// options are the flags that are not engine settings.
type options struct {
	addr         string
	dbDir        string
	origins      string
	sessionDepth int
	sessionCache uint64
}

func newFlagSet(cfg *config.Config, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("fiveplay-server", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	fs.StringVar(&opts.addr, "addr", ":8080", "listen address")
	fs.StringVar(&opts.dbDir, "db", "", "storage directory (empty: platform default, -: disabled)")
	fs.StringVar(&opts.origins, "origins", "", "comma separated websocket origins allowed besides the server host (*: any)")
	fs.IntVar(&opts.sessionDepth, "session-depth", server.DefaultSessionMaxDepth, "largest max_depth a websocket session may set")
	fs.Uint64Var(&opts.sessionCache, "session-cache", server.DefaultSessionMaxCacheSize, "largest cache_size a websocket session may set")
	return fs
}

func main() {
	var opts options
	newFlagSet(config.Default(), &opts).Parse(os.Args[1:])

	cfg := config.Default()
	var store *storage.Storage
	if opts.dbDir != "-" {
		var err error
		if store, err = storage.Open(opts.dbDir); err != nil {
			log.Printf("[server] storage unavailable: %v", err)
		} else {
			defer store.Close()
			if err := store.LoadConfig(cfg); err != nil {
				log.Printf("[server] stored settings ignored: %v", err)
			}
		}
	}
	newFlagSet(cfg, &opts).Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[server] %v", err)
	}

	serverOpts := []server.Option{server.WithSessionLimits(opts.sessionDepth, opts.sessionCache)}
	if opts.origins != "" {
		serverOpts = append(serverOpts, server.WithAllowedOrigins(strings.Split(opts.origins, ",")...))
	}
	srv := &http.Server{
		Addr:    opts.addr,
		Handler: server.New(cfg, store, serverOpts...),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[server] listening on %s", opts.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[server] %v", err)
	}
}
