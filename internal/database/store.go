package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Entry names. The layout mirrors the browser build of the platform: one
// JSON array per collection plus a handful of scalars, no schema version.
const (
	KeyUsers       = "users"
	KeyProjects    = "projects"
	KeyCurrentUser = "currentUserId"
	KeyInitialized = "db_initialized"
)

// Per-user entry names for engagement lists and notification feeds.
func KeyNotifications(userID string) string       { return "notifications:" + userID }
func KeyUnreadNotifications(userID string) string { return "unreadNotificationsCount:" + userID }
func KeyLikedProjects(userID string) string       { return "likedProjects:" + userID }
func KeyLikedComments(userID string) string       { return "likedComments:" + userID }
func KeyBookmarkedProjects(userID string) string  { return "bookmarkedProjects:" + userID }
func KeyFollowedAuthors(userID string) string     { return "followedAuthors:" + userID }
func KeyRecentSearches(userID string) string      { return "recentSearches:" + userID }

// Store is the sanctioned path to persisted state. Every operation is a
// full read-modify-write of the entries it touches, serialized by a
// store-wide mutex so concurrent requests keep the run-to-completion
// semantics of a single-threaded event loop.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore wraps an opened, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Update runs fn inside a transaction while holding the store lock.
// fn must not call back into the store.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	tx := &Tx{tx: sqlTx}
	if err := fn(tx); err != nil {
		sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

// View runs fn like Update. Reads go through the same path as writes so a
// reader never observes a half-applied read-modify-write.
func (s *Store) View(fn func(tx *Tx) error) error {
	return s.Update(fn)
}

// Tx gives entry-level access within one Update/View call.
type Tx struct {
	tx *sql.Tx
}

// Get returns the raw value of an entry and whether it exists.
func (t *Tx) Get(key string) (string, bool) {
	var value string
	err := t.tx.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error().Err(err).Str("key", key).Msg("Failed to read store entry")
		}
		return "", false
	}
	return value, true
}

// Set writes the raw value of an entry, creating it if needed.
func (t *Tx) Set(key, value string) error {
	_, err := t.tx.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Delete removes an entry. Deleting an absent entry is not an error.
func (t *Tx) Delete(key string) error {
	_, err := t.tx.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// GetJSON decodes an entry into v. An absent entry leaves v untouched; a
// corrupt entry is logged and treated the same way, so callers always start
// from the empty collection rather than failing. The bad value is replaced
// on the next write.
func (t *Tx) GetJSON(key string, v any) bool {
	raw, ok := t.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Corrupt store entry, treating as empty")
		return false
	}
	return true
}

// SetJSON encodes v into an entry.
func (t *Tx) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding entry %s: %w", key, err)
	}
	return t.Set(key, string(raw))
}

// Users loads the user collection.
func (t *Tx) Users() []models.User {
	var users []models.User
	t.GetJSON(KeyUsers, &users)
	return users
}

// SaveUsers stores the full user collection.
func (t *Tx) SaveUsers(users []models.User) error {
	return t.SetJSON(KeyUsers, users)
}

// Projects loads the project collection, comments embedded.
func (t *Tx) Projects() []models.Project {
	var projects []models.Project
	t.GetJSON(KeyProjects, &projects)
	return projects
}

// SaveProjects stores the full project collection.
func (t *Tx) SaveProjects(projects []models.Project) error {
	return t.SetJSON(KeyProjects, projects)
}

// StringList loads a JSON string-array entry (liked ids, searches, ...).
func (t *Tx) StringList(key string) []string {
	var list []string
	t.GetJSON(key, &list)
	return list
}
