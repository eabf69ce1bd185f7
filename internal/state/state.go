// Package state persists player settings and the scrobble backlog between
// runs in a small SQLite database.
package state

import (
	"context"
	"database/sql"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/wenslauce/Music-Wave/internal/db"
)

const (
	appName    = "musicwave"
	dbFileName = "state.db"
)

type Manager struct {
	db *sql.DB
}

// Open opens the state database at path. An empty path selects
// musicwave/state.db under the XDG state dir.
func Open(path string) (*Manager, error) {
	if path == "" {
		p, err := xdg.StateFile(filepath.Join(appName, dbFileName))
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
	return &Manager{db: conn}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}
