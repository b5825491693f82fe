package dimensions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteCache implements Cache on a SQLite file. The table layout
// (dimension_cache with url, width and height columns) is shared with
// other tools reading the same cache directory.
type SQLiteCache struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	countStmt  *sql.Stmt
}

// SQLiteCacheConfig configures the SQLite cache.
type SQLiteCacheConfig struct {
	// Path is the database file. Its directory is created if missing.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteCache opens (or creates) the cache at cfg.Path.
func NewSQLiteCache(cfg SQLiteCacheConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	c := &SQLiteCache{db: db, path: cfg.Path}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	if err := c.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return c, nil
}

func (c *SQLiteCache) initSchema() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS dimension_cache (
		url TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL
	)`)
	return err
}

func (c *SQLiteCache) prepareStatements() error {
	var err error

	c.getStmt, err = c.db.Prepare(`SELECT width, height FROM dimension_cache WHERE url = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	c.putStmt, err = c.db.Prepare(`INSERT OR REPLACE INTO dimension_cache (url, width, height) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	c.deleteStmt, err = c.db.Prepare(`DELETE FROM dimension_cache WHERE url = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	c.countStmt, err = c.db.Prepare(`SELECT COUNT(*) FROM dimension_cache`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// Path returns the database file path.
func (c *SQLiteCache) Path() string {
	return c.path
}

// Get implements Cache.
func (c *SQLiteCache) Get(ctx context.Context, key string) (Dimensions, bool, error) {
	var dims Dimensions
	err := c.getStmt.QueryRowContext(ctx, key).Scan(&dims.Width, &dims.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return Dimensions{}, false, nil
	}
	if err != nil {
		return Dimensions{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return dims, true, nil
}

// Put implements Cache.
func (c *SQLiteCache) Put(ctx context.Context, key string, dims Dimensions) error {
	if _, err := c.putStmt.ExecContext(ctx, key, dims.Width, dims.Height); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete implements Cache.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Len implements Cache.
func (c *SQLiteCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close closes the prepared statements and the database.
func (c *SQLiteCache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{c.getStmt, c.putStmt, c.deleteStmt, c.countStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = c.db.Close()
	})
	return err
}
