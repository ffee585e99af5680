// Package store wraps the SQLite results database: schema management, pragma
// setup, and bounded read queries with a small memoization cache.
//
// The database is written once by a bulk load and read-only afterwards. The
// store is safe for concurrent readers; it is not safe for concurrent writers.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcastillo/saberpro_db/models"
)

// Options bound query execution and cache behavior. Zero values fall back to
// the package defaults.
type Options struct {
	CacheSize    int           // max memoized results
	MaxRows      int           // row cap per query; results beyond it are truncated
	QueryTimeout time.Duration // wall-clock limit per query
}

const (
	defaultCacheSize    = 32
	defaultMaxRows      = 500000
	defaultQueryTimeout = 30 * time.Second

	cacheTTL = 5 * time.Minute
)

// Store is a handle to the saber_pro database.
type Store struct {
	db    *sql.DB
	path  string
	opts  Options
	cache *queryCache
}

// Open opens (creating if necessary) the SQLite database at path and applies
// the session pragmas used for serving: WAL journaling, in-memory temp store
// and a 64MB page cache.
func Open(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = defaultMaxRows
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// modernc.org/sqlite applies _pragma values on every new connection in
	// the pool; the mattn-style _journal_mode form is silently ignored.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -64000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", strings.ToLower(pragma), err)
		}
	}

	return &Store{
		db:    db,
		path:  path,
		opts:  opts,
		cache: newQueryCache(opts.CacheSize, cacheTTL),
	}, nil
}

// DB exposes the underlying handle for bulk writers (ingest, seed).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    periodo TEXT,
    estu_consecutivo TEXT,
    year INTEGER,
    period_number INTEGER,
    estu_genero TEXT,
    estu_valormatriculauniversidad TEXT,
    fami_estratovivienda TEXT,
    fami_educacionpadre TEXT,
    fami_educacionmadre TEXT,
    fami_tieneinternet TEXT,
    fami_tienecomputador TEXT,
    fami_tieneautomovil TEXT,
    fami_tienelavadora TEXT,
    estu_horassemanatrabaja TEXT,
    inst_origen TEXT,
    mod_razona_cuantitat_punt REAL,
    mod_lectura_critica_punt REAL,
    mod_ingles_punt REAL,
    mod_competen_ciudada_punt REAL
)`, models.TableName)

// CreateSchema creates the saber_pro table. With replace set, any existing
// table is dropped first; a reload fully replaces the previous dataset.
func (s *Store) CreateSchema(replace bool) error {
	if replace {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + models.TableName); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
		s.cache.clear()
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateIndexes builds the secondary indexes on the commonly filtered columns.
// Called after a bulk load; building them before would slow the inserts down.
func (s *Store) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_periodo ON saber_pro(periodo)",
		"CREATE INDEX IF NOT EXISTS idx_year ON saber_pro(year)",
		"CREATE INDEX IF NOT EXISTS idx_genero ON saber_pro(estu_genero)",
		"CREATE INDEX IF NOT EXISTS idx_estrato ON saber_pro(fami_estratovivienda)",
		"CREATE INDEX IF NOT EXISTS idx_inst_origen ON saber_pro(inst_origen)",
	}
	for _, stmt := range indexes {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Count returns the number of rows in the saber_pro table.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM " + models.TableName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// Invalidate empties the query cache. Callers that mutate the table (ingest,
// seed) must call it before serving reads again.
func (s *Store) Invalidate() {
	s.cache.clear()
}
