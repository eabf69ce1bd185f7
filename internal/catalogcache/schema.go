package catalogcache

import (
	"context"
	"database/sql"

	"github.com/wenslauce/Music-Wave/internal/db"
)

const currentSchemaVersion = 1

func initSchema(ctx context.Context, conn *sql.DB) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS catalog_responses (
				key TEXT PRIMARY KEY,
				body BLOB NOT NULL,
				fetched_at INTEGER NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_catalog_responses_fetched_at ON catalog_responses(fetched_at);
		`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
		return err
	})
}
