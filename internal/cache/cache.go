// Package cache persists compiled automata keyed by their source pattern
// string, so a REPL session or the HTTP demo server does not pay Thompson
// construction and subset construction costs for a pattern it has already
// compiled. The one-shot match mode of cmd/parsekit does not use it: it
// compiles its pattern on every invocation. It is grounded on
// server/dao/sqlite's rezi/SQLite round-trip idiom, repurposed here for a
// single blob-valued table instead of a full entity repository.
package cache

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/rezi"
	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed store of pattern -> compiled DFA.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed cache under dir, in a
// file named patterns.db.
func Open(dir string) (*Cache, error) {
	path := filepath.Join(dir, "patterns.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pattern cache: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS compiled_patterns (
		pattern TEXT NOT NULL PRIMARY KEY,
		dfa     BLOB NOT NULL
	);`)
	if err != nil {
		return nil, fmt.Errorf("initialize pattern cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached DFA for pattern, if any.
func (c *Cache) Get(pattern string) (*automaton.DFA, bool, error) {
	var blob []byte
	row := c.db.QueryRow(`SELECT dfa FROM compiled_patterns WHERE pattern = ?;`, pattern)
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read pattern cache: %w", err)
	}

	dfa := &automaton.DFA{}
	n, err := rezi.DecBinary(blob, dfa)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached automaton for %q: %w", pattern, err)
	}
	if n != len(blob) {
		return nil, false, fmt.Errorf("decode cached automaton for %q: consumed %d/%d bytes", pattern, n, len(blob))
	}

	return dfa, true, nil
}

// Put stores dfa under pattern, overwriting any prior entry.
func (c *Cache) Put(pattern string, dfa *automaton.DFA) error {
	blob := rezi.EncBinary(dfa)

	_, err := c.db.Exec(
		`INSERT INTO compiled_patterns (pattern, dfa) VALUES (?, ?)
		 ON CONFLICT(pattern) DO UPDATE SET dfa = excluded.dfa;`,
		pattern, blob,
	)
	if err != nil {
		return fmt.Errorf("write pattern cache: %w", err)
	}
	return nil
}

// Clear removes every entry from the cache. Used by the HTTP demo server's
// authenticated /cache/clear endpoint.
func (c *Cache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM compiled_patterns;`)
	if err != nil {
		return fmt.Errorf("clear pattern cache: %w", err)
	}
	return nil
}
