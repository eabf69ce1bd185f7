// Package catalogcache caches canonical catalog responses in two tiers:
// a bounded in-memory LRU in front of an optional SQLite table. Entries
// expire after a fixed TTL.
package catalogcache

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/wenslauce/Music-Wave/internal/db"
	"github.com/wenslauce/Music-Wave/internal/logging"
)

const (
	appName    = "musicwave"
	dbFileName = "catalog.db"

	DefaultTTL           = 24 * time.Hour
	DefaultMemoryEntries = 256
)

type entry struct {
	body      []byte
	fetchedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mem    *lru.Cache[string, entry]
	db     *sql.DB // nil for memory-only caches
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	TTL           time.Duration
	MemoryEntries int
	Logger        *log.Logger
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.MemoryEntries <= 0 {
		o.MemoryEntries = DefaultMemoryEntries
	}
	o.Logger = logging.OrDiscard(o.Logger)
	return o
}

// NewMemory creates a cache without persistence.
func NewMemory(opts Options) (*Cache, error) {
	opts = opts.withDefaults()
	mem, err := lru.New[string, entry](opts.MemoryEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{
		mem:    mem,
		ttl:    opts.TTL,
		now:    time.Now,
		logger: opts.Logger,
	}, nil
}

// Open creates a cache persisted at path. An empty path selects
// musicwave/catalog.db under the XDG cache dir.
func Open(path string, opts Options) (*Cache, error) {
	if path == "" {
		p, err := xdg.CacheFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, err
		}
		path = p
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(context.Background(), conn); err != nil {
		conn.Close()
		return nil, err
	}

	c, err := NewMemory(opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.db = conn
	return c, nil
}

func (c *Cache) isExpired(fetchedAt time.Time) bool {
	return c.now().Sub(fetchedAt) >= c.ttl
}

// Get returns the cached body for key if present and not expired.
// Hits in the persistent tier are promoted to memory.
func (c *Cache) Get(key string) ([]byte, bool) {
	if e, ok := c.mem.Get(key); ok {
		if !c.isExpired(e.fetchedAt) {
			return e.body, true
		}
		c.mem.Remove(key)
	}

	if c.db == nil {
		return nil, false
	}

	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(`
		SELECT body, fetched_at FROM catalog_responses WHERE key = ?
	`, key).Scan(&body, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("catalog cache read failed", "key", key, "err", err)
		}
		return nil, false
	}

	e := entry{body: body, fetchedAt: time.Unix(fetchedAt, 0)}
	if c.isExpired(e.fetchedAt) {
		return nil, false
	}
	c.mem.Add(key, e)
	return body, true
}

// Set stores body under key in both tiers. Persistence failures are logged.
func (c *Cache) Set(key string, body []byte) {
	e := entry{body: body, fetchedAt: c.now()}
	c.mem.Add(key, e)

	if c.db == nil {
		return
	}
	_, err := c.db.Exec(`
		INSERT INTO catalog_responses (key, body, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, key, body, e.fetchedAt.Unix())
	if err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "err", err)
	}
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// CleanExpired removes expired entries from the persistent tier and
// returns how many were removed.
func (c *Cache) CleanExpired(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, nil
	}
	expiry := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM catalog_responses WHERE fetched_at <= ?`, expiry)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Purge drops every entry from both tiers.
func (c *Cache) Purge(ctx context.Context) error {
	c.mem.Purge()
	if c.db == nil {
		return nil
	}
	return db.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM catalog_responses`)
		return err
	})
}

// Close closes the persistent tier.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
