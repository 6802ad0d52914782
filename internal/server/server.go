// Package server exposes the engine over HTTP and websockets.
// Every websocket connection plays its own game with the simple protocol.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/game"
	"github.com/hailam/fiveplay/internal/protocol"
	"github.com/hailam/fiveplay/internal/storage"
)

// Defaults for what a websocket client may ask of its session engine.
const (
	DefaultSessionMaxDepth     = 10
	DefaultSessionMaxCacheSize = 256 << 20
)

// Server routes HTTP requests. It is safe for concurrent use.
type Server struct {
	cfg            *config.Config // template, cloned per session
	store          *storage.Storage
	router         chi.Router
	pingInterval   time.Duration
	allowedOrigins []string
	maxDepth       int
	maxCacheSize   uint64
}

// Option configures a Server.
type Option func(*Server)

// WithSessionLimits caps the depth and cache size a session can set.
func WithSessionLimits(maxDepth int, maxCacheSize uint64) Option {
	return func(s *Server) {
		s.maxDepth = maxDepth
		s.maxCacheSize = maxCacheSize
	}
}

// WithAllowedOrigins accepts websocket connections from these origins in
// addition to the server's own host. "*" accepts any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// New creates a server. store may be nil to disable persistence.
func New(cfg *config.Config, store *storage.Storage, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg.Clone(),
		store:        store,
		pingInterval: wsIdlePingInterval,
		maxDepth:     DefaultSessionMaxDepth,
		maxCacheSize: DefaultSessionMaxCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.Limit(s.maxDepth, s.maxCacheSize)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.cfg)
	})
	r.Get("/api/stats", s.handleStats)
	r.Get("/ws", s.serveWS)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage disabled"})
		return
	}
	stats, err := s.store.LoadStats()
	if err != nil {
		log.Printf("load stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// newSession creates the protocol handler of one connection.
func (s *Server) newSession() protocol.Protocol {
	cfg := s.cfg.Clone()
	controller := game.NewController(cfg, engine.NewEngine(cfg))
	if s.store != nil {
		controller.SetRecorder(s.store)
	}
	return protocol.NewSimple(cfg, controller)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	p := s.newSession()
	send := make(chan []byte, 16)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if err := writeWSWithHeartbeat(conn, send, s.pingInterval); err != nil {
			conn.Close() // unblocks the reader
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer close(send)
		for p.Running() {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return nil
			}
			var buf bytes.Buffer
			if !p.HandleRequest(string(message), &buf) {
				continue
			}
			select {
			case send <- buf.Bytes():
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("websocket session: %v", err)
		return
	}
	if !p.Running() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}
}

// checkOrigin accepts clients without an Origin header, the server's own
// host and the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
