package state

import (
	"database/sql"
	"errors"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// PlayerState is the output and mode settings restored on start.
type PlayerState struct {
	Volume     float64
	Muted      bool
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// GetPlayer returns the saved player settings, or nil if none were saved.
func (m *Manager) GetPlayer() (*PlayerState, error) {
	var s PlayerState
	var repeat int
	err := m.db.QueryRow(`
		SELECT volume, muted, repeat_mode, shuffle FROM player_state WHERE id = 1
	`).Scan(&s.Volume, &s.Muted, &repeat, &s.Shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nothing saved yet is not an error
	}
	if err != nil {
		return nil, err
	}
	s.RepeatMode = playlist.RepeatMode(repeat)
	s.Volume = min(max(s.Volume, 0), 1)
	return &s, nil
}

// SavePlayer persists the player settings.
func (m *Manager) SavePlayer(s PlayerState) error {
	_, err := m.db.Exec(`
		INSERT INTO player_state (id, volume, muted, repeat_mode, shuffle)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			repeat_mode = excluded.repeat_mode,
			shuffle = excluded.shuffle
	`, s.Volume, s.Muted, int(s.RepeatMode), s.Shuffle)
	return err
}
