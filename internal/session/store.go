// Package session provides SQLite-backed client session persistence: the
// auth token, cached user/account data, and the feed browsing session
// (last fetched item list plus last-viewed index).
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ebakir/newsreel/internal/model"
)

// Keys for the key/value table. These are cached copies of server state or
// UI state, never authoritative records.
const (
	KeyToken       = "token"
	KeyUserID      = "customerId"
	KeyUserData    = "userData"
	KeyAccountData = "accountData"
)

// UserData is the locally cached identity blob stored under KeyUserData.
type UserData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Phone        string `json:"phoneNumber"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ColdStart    bool   `json:"coldStart"`
}

// FeedSession is the persisted feed browsing state. Restored on feed start
// to short-circuit the network fetch; cleared when the user navigates
// outside the feed/detail page group.
type FeedSession struct {
	Items        []model.NewsItem
	CurrentIndex int
	ClickedIndex int // -1 when no card was clicked through
	SavedAt      time.Time
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feed_session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		items TEXT NOT NULL,
		current_index INTEGER NOT NULL DEFAULT 0,
		clicked_index INTEGER NOT NULL DEFAULT -1,
		saved_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Set stores a key/value pair, replacing any existing value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Get returns the stored value for key, or "" when absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	v, _ := s.Get(KeyToken)
	return v
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) error {
	return s.Set(KeyToken, token)
}

// UserID returns the stored user identifier, or "".
func (s *Store) UserID() string {
	v, _ := s.Get(KeyUserID)
	return v
}

// SetUserID stores the user identifier.
func (s *Store) SetUserID(id string) error {
	return s.Set(KeyUserID, id)
}

// SaveUserData stores the identity blob under KeyUserData.
func (s *Store) SaveUserData(u UserData) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user data: %w", err)
	}
	return s.Set(KeyUserData, string(data))
}

// UserData loads the identity blob. A corrupt blob is treated as absent and
// removed, matching the tolerant read of cached state.
func (s *Store) UserData() (UserData, bool) {
	raw, err := s.Get(KeyUserData)
	if err != nil || raw == "" {
		return UserData{}, false
	}
	var u UserData
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.Delete(KeyUserData)
		return UserData{}, false
	}
	return u, true
}

// SaveAccountData caches the server-side profile record under
// KeyAccountData so the profile stays readable when the account service
// is unreachable.
func (s *Store) SaveAccountData(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal account data: %w", err)
	}
	return s.Set(KeyAccountData, string(data))
}

// AccountData loads the cached profile record into out. Returns false when
// nothing usable is cached; a corrupt blob is removed.
func (s *Store) AccountData(out any) bool {
	raw, err := s.Get(KeyAccountData)
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.Delete(KeyAccountData)
		return false
	}
	return true
}

// SaveFeed persists the feed browsing session wholesale.
func (s *Store) SaveFeed(items []model.NewsItem, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal feed items: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO feed_session (id, items, current_index, clicked_index, saved_at)
		VALUES (1, ?, ?, -1, ?)
		ON CONFLICT(id) DO UPDATE SET
			items = excluded.items,
			current_index = excluded.current_index,
			clicked_index = excluded.clicked_index,
			saved_at = excluded.saved_at
	`, string(data), index, time.Now())
	return err
}

// LoadFeed restores the persisted feed session. ok is false when nothing is
// stored or the stored list is empty; the feed fetches from the network in
// that case.
func (s *Store) LoadFeed() (FeedSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		raw     string
		fs      FeedSession
		savedAt time.Time
	)
	err := s.db.QueryRow(
		"SELECT items, current_index, clicked_index, saved_at FROM feed_session WHERE id = 1",
	).Scan(&raw, &fs.CurrentIndex, &fs.ClickedIndex, &savedAt)
	if err != nil {
		return FeedSession{}, false
	}
	if err := json.Unmarshal([]byte(raw), &fs.Items); err != nil {
		return FeedSession{}, false
	}
	if len(fs.Items) == 0 {
		return FeedSession{}, false
	}
	fs.SavedAt = savedAt
	if fs.CurrentIndex < 0 || fs.CurrentIndex >= len(fs.Items) {
		fs.CurrentIndex = 0
	}
	return fs, true
}

// SetFeedIndex updates only the persisted current index.
func (s *Store) SetFeedIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE feed_session SET current_index = ? WHERE id = 1", index)
	return err
}

// SetClickedIndex records which card was clicked through to the detail view.
func (s *Store) SetClickedIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE feed_session SET clicked_index = ? WHERE id = 1", index)
	return err
}

// ClearFeed removes the persisted feed session. Called on forced refresh
// and after onboarding, so the next load fetches a fresh feed.
func (s *Store) ClearFeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM feed_session")
	return err
}

// Reset wipes all session state. Called on logout.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM feed_session")
	return err
}
