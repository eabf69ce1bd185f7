// Package errmsg formats errors for the status line and player bar.
package errmsg

import "fmt"

// Op names the action that failed, phrased to follow "Failed to".
type Op string

const (
	// Playback session
	OpPlaybackStart Op = "start playback"
	OpPlayback      Op = "play track"
	OpResolve       Op = "find a stream"

	// Catalog browsing
	OpCatalogSearch Op = "search catalog"
	OpCatalogCharts Op = "load charts"
	OpOpenAlbum     Op = "open album"
	OpOpenArtist    Op = "open artist"
	OpOpenPlaylist  Op = "open playlist"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message naming the subject of op, such as
// a track title or a search query.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, subject, err)
}
