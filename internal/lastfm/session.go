package lastfm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// DefaultSessionPath returns where "lastfm auth" stores the session key.
func DefaultSessionPath() (string, error) {
	return xdg.StateFile("musicwave/lastfm_session")
}

// LoadSessionKey reads a saved session key. A missing file yields "".
func LoadSessionKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveSessionKey writes key to path, readable only by the owner.
func SaveSessionKey(path, key string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session key: %w", err)
	}
	return nil
}
