package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.MaxDepth = 2
	cfg.CacheSize = 1 << 20
	return cfg
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func request(t *testing.T, conn *websocket.Conn, line string) string {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply to %q: %v", line, err)
	}
	return string(msg)
}

func TestAPI(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ts := httptest.NewServer(New(testConfig(), store))
	defer ts.Close()

	t.Run("Ping", func(t *testing.T) {
		var body map[string]bool
		if code := getJSON(t, ts.URL+"/api/ping", &body); code != http.StatusOK || !body["ok"] {
			t.Errorf("ping = %d %v", code, body)
		}
	})

	t.Run("Config", func(t *testing.T) {
		var cfg config.Config
		getJSON(t, ts.URL+"/api/config", &cfg)
		if cfg.MaxDepth != 2 || cfg.CacheSize != 1<<20 || !cfg.UseCache {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		var stats storage.GameStats
		if code := getJSON(t, ts.URL+"/api/stats", &stats); code != http.StatusOK || stats.GamesPlayed != 0 {
			t.Errorf("stats = %d %+v", code, stats)
		}
	})
}

func TestStatsWithoutStorage(t *testing.T) {
	ts := httptest.NewServer(New(testConfig(), nil))
	defer ts.Close()

	var body map[string]string
	if code := getJSON(t, ts.URL+"/api/stats", &body); code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, body %v", code, body)
	}
}

func TestWebsocketGame(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ts := httptest.NewServer(New(testConfig(), store))
	defer ts.Close()
	conn := dial(t, ts)

	steps := []struct{ req, want string }{
		{"start 15", "ok"},
		{"get max_depth", "2"},
		{"board 5 7 engine", "ok"},
		{"board 6 7 engine", "ok"},
		{"board 7 7 engine", "ok"},
		{"board 8 7 engine", "ok"},
		{"go", "4 7 engine won"},
		{"quit", "bye"},
	}
	for _, step := range steps {
		if got := request(t, conn, step.req); got != step.want {
			t.Errorf("%q -> %q, want %q", step.req, got, step.want)
		}
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after quit: %v, want normal close", err)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.EngineWins != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ts := httptest.NewServer(New(testConfig(), nil))
	defer ts.Close()

	a, b := dial(t, ts), dial(t, ts)
	request(t, a, "set max_depth 4")
	if got := request(t, b, "get max_depth"); got != "2" {
		t.Errorf("session b max_depth = %s, want 2", got)
	}
	request(t, a, "start 9")
	if got := request(t, b, "go"); got != "error: game not started" {
		t.Errorf("session b go = %q", got)
	}
}

func TestSessionLimits(t *testing.T) {
	ts := httptest.NewServer(New(testConfig(), nil, WithSessionLimits(3, 1<<20)))
	defer ts.Close()
	conn := dial(t, ts)

	for _, line := range []string{"set cache_size 1099511627776", "set cache_size 2097152", "set max_depth 4"} {
		if got := request(t, conn, line); !strings.HasPrefix(got, "error:") {
			t.Errorf("%q = %q, want an error", line, got)
		}
	}
	if got := request(t, conn, "set max_depth 3"); got != "ok" {
		t.Errorf("set max_depth 3 = %q", got)
	}
	if got := request(t, conn, "start 9"); got != "ok" {
		t.Errorf("start after rejected settings = %q", got)
	}
}

func TestDefaultSessionLimits(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDepth = config.MaxDepth
	srv := New(cfg, nil)
	if srv.cfg.MaxDepth != DefaultSessionMaxDepth {
		t.Errorf("session template depth = %d, want %d", srv.cfg.MaxDepth, DefaultSessionMaxDepth)
	}
	if err := srv.cfg.Clone().Set(config.KeyCacheSize, DefaultSessionMaxCacheSize+1); err == nil {
		t.Error("session accepted a cache above the default limit")
	}
}

func TestCheckOrigin(t *testing.T) {
	srv := New(testConfig(), nil, WithAllowedOrigins("https://play.example.org"))

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://fiveplay.local", true},
		{"https://play.example.org", true},
		{"https://evil.example.com", false},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://fiveplay.local/ws", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := srv.checkOrigin(r); got != tc.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}

	ts := httptest.NewServer(srv)
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	if conn, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		conn.Close()
		t.Error("foreign origin was upgraded")
	}
}

func TestHeartbeat(t *testing.T) {
	srv := New(testConfig(), nil)
	srv.pingInterval = 20 * time.Millisecond
	ts := httptest.NewServer(srv)
	defer ts.Close()
	conn := dial(t, ts)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	// Control frames are handled while reading; the read itself times out.
	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	conn.ReadMessage()

	select {
	case <-pinged:
	default:
		t.Error("no ping received from an idle session")
	}
}
