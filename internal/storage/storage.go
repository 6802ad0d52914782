package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/fiveplay/internal/config"
)

// Storage keys
const (
	keyConfig      = "config"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// Winner identifies who won a finished game.
type Winner int

const (
	WinnerNone Winner = iota // Draw
	WinnerEngine
	WinnerPlayer
)

// String returns the winner name.
func (w Winner) String() string {
	switch w {
	case WinnerEngine:
		return "engine"
	case WinnerPlayer:
		return "player"
	default:
		return "draw"
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	EngineWins     int            `json:"engine_wins"`
	PlayerWins     int            `json:"player_wins"`
	Draws          int            `json:"draws"`
	GamesBySize    map[string]int `json:"games_by_size"`
	TotalMoves     int            `json:"total_moves"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestEngStrk int            `json:"longest_engine_streak"`
	CurrentEngStrk int            `json:"current_engine_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		GamesBySize: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Winner   Winner
	Width    int
	Height   int
	Moves    int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage.
// It is safe for concurrent use.
type Storage struct {
	db *badger.DB
	mu sync.Mutex // serializes read-modify-write of the stats
}

// Open opens the database in dir. An empty dir selects GetDatabaseDir.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v. A missing key leaves v untouched.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveConfig saves the engine settings.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	return s.put(keyConfig, cfg)
}

// LoadConfig overlays the saved settings onto cfg. Nothing changes if no
// settings were saved or the saved ones do not validate.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	loaded := cfg.Clone()
	if err := s.get(keyConfig, loaded); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("stored config: %w", err)
	}
	*cfg = *loaded
	return nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.get(keyStats, stats)
	if stats.GamesBySize == nil {
		stats.GamesBySize = make(map[string]int)
	}
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalMoves += result.Moves
	stats.TotalPlayTime += result.Duration
	stats.GamesBySize[fmt.Sprintf("%dx%d", result.Width, result.Height)]++

	switch result.Winner {
	case WinnerEngine:
		stats.EngineWins++
		stats.CurrentEngStrk++
		if stats.CurrentEngStrk > stats.LongestEngStrk {
			stats.LongestEngStrk = stats.CurrentEngStrk
		}
	case WinnerPlayer:
		stats.PlayerWins++
		stats.CurrentEngStrk = 0
	default:
		stats.Draws++
		stats.CurrentEngStrk = 0
	}

	return s.SaveStats(stats)
}

// EngineWinRate returns the engine win rate as a percentage (0-100)
func (s *GameStats) EngineWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.EngineWins) / float64(s.GamesPlayed) * 100
}
