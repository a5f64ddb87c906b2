// Package localcache is the client-side response cache: a small SQLite-backed
// key/value store owned by one machine, holding past generation results so
// repeated identical requests never reach the server.
//
// Every operation is best-effort. Storage failures are swallowed: Get
// reports a miss, Set and Clear become no-ops. The cache never panics and
// never propagates an error to the caller.
package localcache

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tagforge/tagforge/internal/cache"
	"github.com/tagforge/tagforge/internal/domain"
)

// TTL bounds the lifetime of local entries, checked on every read.
const TTL = 24 * time.Hour

// Capacity tuning. When a Set finds maxEntries or more existing entries it
// removes the oldest count-maxEntries+evictionSlack of them, leaving at most
// maxEntries-evictionSlack+1 entries once the new one lands. Evicting a
// batch instead of one entry amortizes the scan across many future inserts.
const (
	maxEntries    = 50
	evictionSlack = 10
)

// entry is the stored value shape: the result plus its creation instant.
type entry struct {
	Result    *domain.GenerationResult `json:"result"`
	Timestamp int64                    `json:"timestamp"` // unix milliseconds
}

// Store is the local response cache.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	// now is the clock used for entry timestamps and expiry checks,
	// overridable in tests.
	now func() time.Time
}

const createTable = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// Open creates or opens the cache database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key builds the content address for a request under this cache's namespace.
func (s *Store) Key(method domain.Method, title, text string) string {
	return cache.Key(cache.LocalPrefix, method, title, text)
}

// Get returns the cached result for key, or nil when the key is missing,
// the stored value is unparsable, or the entry has outlived TTL. Expired
// entries are deleted as a side effect of reading them.
func (s *Store) Get(key string) *domain.GenerationResult {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Debug("local cache read failed", "error", err)
		}
		return nil
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Result == nil {
		return nil
	}

	if s.now().UnixMilli()-e.Timestamp > TTL.Milliseconds() {
		if _, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
			s.logger.Debug("local cache expiry delete failed", "error", err)
		}
		return nil
	}

	return e.Result
}

// Set stores a result under key, evicting old entries first when the
// namespace is at capacity. An existing entry at the same key is
// overwritten.
func (s *Store) Set(key string, result *domain.GenerationResult) {
	s.evictOldEntries()

	raw, err := json.Marshal(entry{Result: result, Timestamp: s.now().UnixMilli()})
	if err != nil {
		s.logger.Debug("local cache marshal failed", "error", err)
		return
	}
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO kv_entries (key, value) VALUES (?, ?)`, key, raw,
	); err != nil {
		s.logger.Debug("local cache write failed", "error", err)
	}
}

// Clear removes every entry under this cache's namespace, leaving unrelated
// rows in the same database untouched.
func (s *Store) Clear() {
	if _, err := s.db.Exec(
		`DELETE FROM kv_entries WHERE key LIKE ?`, cache.LocalPrefix+"%",
	); err != nil {
		s.logger.Debug("local cache clear failed", "error", err)
	}
}

// evictOldEntries scans the namespace and batch-evicts the oldest entries
// once the count reaches maxEntries. Corrupt rows found during the scan are
// deleted unconditionally, whatever their age.
func (s *Store) evictOldEntries() {
	rows, err := s.db.Query(
		`SELECT key, value FROM kv_entries WHERE key LIKE ?`, cache.LocalPrefix+"%",
	)
	if err != nil {
		s.logger.Debug("local cache eviction scan failed", "error", err)
		return
	}
	defer rows.Close()

	type stamped struct {
		key string
		ts  int64
	}
	var entries []stamped
	var corrupt []string

	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			corrupt = append(corrupt, key)
			continue
		}
		entries = append(entries, stamped{key: key, ts: e.Timestamp})
	}
	if err := rows.Err(); err != nil {
		s.logger.Debug("local cache eviction scan failed", "error", err)
	}

	for _, key := range corrupt {
		if _, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
			s.logger.Debug("local cache corrupt delete failed", "error", err)
		}
	}

	if len(entries) < maxEntries {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ts < entries[j].ts })
	toRemove := entries[:len(entries)-maxEntries+evictionSlack]
	for _, e := range toRemove {
		if _, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, e.key); err != nil {
			s.logger.Debug("local cache eviction delete failed", "error", err)
		}
	}
}
