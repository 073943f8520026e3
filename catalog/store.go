// Package catalog persists compiled capability configurations in SQLite so
// that other tools can ask which types derive what without recompiling.
//
// Usage example:
//
//	store, err := catalog.Open("derivative.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	if err := store.Migrate(ctx); err != nil {
//	    return err
//	}
//	if err := store.Save(ctx, pkgPath, results); err != nil {
//	    return err
//	}
//	hashable, err := store.TypesWith(ctx, derivative.Hash)
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	sq "github.com/Masterminds/squirrel"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/arllen133/derivative"
)

const (
	driverName = "sqlite3"
	table      = "capabilities"
	cacheSize  = 1024
)

const schema = `CREATE TABLE IF NOT EXISTS capabilities (
	pkg        TEXT NOT NULL,
	type_name  TEXT NOT NULL,
	field      TEXT NOT NULL DEFAULT '',
	capability TEXT NOT NULL,
	bounds     TEXT NOT NULL DEFAULT '',
	options    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (pkg, type_name, field, capability)
)`

var columns = []string{"pkg", "type_name", "field", "capability", "bounds", "options"}

// Store is a capability catalog backed by a SQL database. Lookups are served
// from an LRU cache that Save invalidates. It is safe for concurrent use.
type Store struct {
	db    *sqlx.DB
	cache *lru.Cache[string, []Entry]

	// mu guards generation, which Save bumps after every commit so that a
	// Lookup that read the database before the commit does not cache its rows.
	mu         sync.Mutex
	generation uint64
}

// Open opens (creating if needed) the SQLite catalog at path. Use ":memory:"
// for a throwaway catalog.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	return newStore(db)
}

// New wraps an existing SQLite connection.
func New(db *sql.DB) (*Store, error) {
	return newStore(sqlx.NewDb(db, driverName))
}

func newStore(db *sqlx.DB) (*Store, error) {
	cache, err := lru.New[string, []Entry](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the catalog table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog: failed to migrate: %w", err)
	}
	return nil
}

// Save replaces everything recorded for pkg with the given results. Failed
// results are not recorded. The whole package is written in one transaction.
func (s *Store) Save(ctx context.Context, pkg string, results []derivative.Result) error {
	var entries []Entry
	for _, res := range results {
		entries = append(entries, EntriesFor(pkg, res)...)
	}

	err := s.transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sq.Delete(table).
			Where(sq.Eq{"pkg": pkg}).
			PlaceholderFormat(sq.Question).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		builder := sq.Insert(table).Columns(columns...).PlaceholderFormat(sq.Question)
		for _, e := range entries {
			builder = builder.Values(e.Package, e.Type, e.Field, e.Capability, e.Bounds, e.Options)
		}
		query, args, err = builder.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("catalog: failed to save %s: %w", pkg, err)
	}

	s.mu.Lock()
	s.generation++
	s.cache.Purge()
	s.mu.Unlock()
	return nil
}

// Lookup returns the rows recorded for one type, type-level rows first, in
// insertion order. An unknown type yields an empty slice. The returned slice
// is owned by the caller.
func (s *Store) Lookup(ctx context.Context, pkg, typ string) ([]Entry, error) {
	key := pkg + "." + typ
	if entries, ok := s.cache.Get(key); ok {
		return slices.Clone(entries), nil
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	query, args, err := sq.Select(columns...).
		From(table).
		Where(sq.Eq{"pkg": pkg, "type_name": typ}).
		OrderBy("field != ''", "rowid").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("catalog: failed to look up %s: %w", key, err)
	}

	s.mu.Lock()
	if s.generation == generation {
		s.cache.Add(key, entries)
	}
	s.mu.Unlock()
	return slices.Clone(entries), nil
}

// TypesWith lists the types that requested capability c, as "pkg.Type",
// sorted.
func (s *Store) TypesWith(ctx context.Context, c derivative.Capability) ([]string, error) {
	query, args, err := sq.Select("pkg", "type_name").
		Distinct().
		From(table).
		Where(sq.Eq{"capability": c.String(), "field": ""}).
		OrderBy("pkg", "type_name").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Package string `db:"pkg"`
		Type    string `db:"type_name"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("catalog: failed to list %s types: %w", c, err)
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Package + "." + r.Type
	}
	return out, nil
}

// transaction runs fn in a transaction, rolling back on error or panic.
func (s *Store) transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
