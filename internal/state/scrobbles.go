package state

import (
	"database/sql"
	"time"
)

// PendingScrobble represents a scrobble queued for retry.
type PendingScrobble struct {
	ID           int64
	Artist       string
	Track        string
	Album        string
	DurationSecs int
	Timestamp    time.Time
	Attempts     int
	LastError    string
	CreatedAt    time.Time
}

// AddPendingScrobble queues a scrobble for later submission.
func (m *Manager) AddPendingScrobble(s PendingScrobble) error {
	now := time.Now().Unix()
	_, err := m.db.Exec(`
		INSERT INTO lastfm_pending_scrobbles
		(artist, track, album, duration_seconds, timestamp, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, s.Artist, s.Track, s.Album, s.DurationSecs, s.Timestamp.Unix(), s.LastError, now)
	return err
}

// GetPendingScrobbles returns all pending scrobbles ordered by creation time.
func (m *Manager) GetPendingScrobbles() ([]PendingScrobble, error) {
	rows, err := m.db.Query(`
		SELECT id, artist, track, album, duration_seconds, timestamp, attempts, last_error, created_at
		FROM lastfm_pending_scrobbles
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrobbles []PendingScrobble
	for rows.Next() {
		var s PendingScrobble
		var album, lastError sql.NullString
		var timestamp, createdAt int64

		err := rows.Scan(
			&s.ID, &s.Artist, &s.Track, &album, &s.DurationSecs,
			&timestamp, &s.Attempts, &lastError, &createdAt,
		)
		if err != nil {
			return nil, err
		}

		s.Album = album.String
		s.LastError = lastError.String
		s.Timestamp = time.Unix(timestamp, 0)
		s.CreatedAt = time.Unix(createdAt, 0)
		scrobbles = append(scrobbles, s)
	}

	return scrobbles, rows.Err()
}

// DeletePendingScrobble removes a successfully submitted scrobble.
func (m *Manager) DeletePendingScrobble(id int64) error {
	_, err := m.db.Exec(`DELETE FROM lastfm_pending_scrobbles WHERE id = ?`, id)
	return err
}

// UpdatePendingScrobbleAttempt increments attempt count and sets error message.
func (m *Manager) UpdatePendingScrobbleAttempt(id int64, errMsg string) error {
	_, err := m.db.Exec(`
		UPDATE lastfm_pending_scrobbles
		SET attempts = attempts + 1, last_error = ?
		WHERE id = ?
	`, errMsg, id)
	return err
}

// DeleteOldPendingScrobbles removes pending scrobbles whose play is older
// than maxAge.
func (m *Manager) DeleteOldPendingScrobbles(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).Unix()
	_, err := m.db.Exec(`DELETE FROM lastfm_pending_scrobbles WHERE timestamp < ?`, cutoff)
	return err
}
