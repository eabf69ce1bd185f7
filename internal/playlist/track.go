package playlist

import (
	"errors"
	"time"
)

// ErrInvalidDescriptor is returned for tracks missing an ID, title, artist
// name or album title.
var ErrInvalidDescriptor = errors.New("invalid track descriptor")

// Artist identifies the performing artist of a track.
type Artist struct {
	ID      string
	Name    string
	Picture string
}

// Album identifies the album a track belongs to.
type Album struct {
	ID    string
	Title string
}

// Artwork holds cover URLs at three sizes. Any of them may be empty.
type Artwork struct {
	Small  string
	Medium string
	Large  string
}

// Best returns the largest available artwork URL.
func (a Artwork) Best() string {
	switch {
	case a.Large != "":
		return a.Large
	case a.Medium != "":
		return a.Medium
	default:
		return a.Small
	}
}

// Track is the catalog-independent description of a playable item.
// Tracks are values: the queue never edits one in place.
type Track struct {
	ID         string
	Title      string
	Artist     Artist
	Album      Album
	Duration   time.Duration
	PreviewURL string // short low-fidelity clip, set for canonical tracks
	Artwork    Artwork
}

// Validate reports ErrInvalidDescriptor if any identifying field is empty.
func (t Track) Validate() error {
	if t.ID == "" || t.Title == "" || t.Artist.Name == "" || t.Album.Title == "" {
		return ErrInvalidDescriptor
	}
	return nil
}

// HasPreview returns true if the track carries a preview URL.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}
