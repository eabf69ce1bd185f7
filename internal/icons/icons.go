// Package icons selects the glyphs used for result kinds and playback modes.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs of one style.
type Icons struct {
	Track     string
	Artist    string
	Album     string
	Playlist  string
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Volume    string
	Mute      string
	Play      string
	Pause     string
	Loading   string
}

var (
	nerdIcons = Icons{
		Track:     "\uf001 ", // nf-fa-music
		Artist:    "\uf007 ", // nf-fa-user
		Album:     "󰀥 ",      // nf-md-album
		Playlist:  "󰲸 ",      // nf-md-playlist_music
		Shuffle:   "󰒟",       // nf-md-shuffle
		RepeatAll: "󰑖",       // nf-md-repeat
		RepeatOne: "󰑘",       // nf-md-repeat_once
		Volume:    "󰕾",       // nf-md-volume_high
		Mute:      "󰝟",       // nf-md-volume_mute
		Play:      "󰐊",       // nf-md-play
		Pause:     "󰏤",       // nf-md-pause
		Loading:   "󰔟",       // nf-md-timer_sand
	}

	unicodeIcons = Icons{
		Track:     "🎵 ",
		Artist:    "👤 ",
		Album:     "💿 ",
		Playlist:  "📋 ",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
		Volume:    "🔊",
		Mute:      "🔇",
		Play:      "▶",
		Pause:     "⏸",
		Loading:   "⏳",
	}

	noneIcons = Icons{
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
		Volume:    "vol",
		Mute:      "mute",
		Play:      ">",
		Pause:     "||",
		Loading:   "..",
	}

	current = noneIcons
)

// Init selects the icon style. Unknown styles select StyleNone.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// FormatTrack prefixes a track title with the track icon.
func FormatTrack(name string) string {
	return current.Track + name
}

// FormatArtist prefixes an artist name with the artist icon.
func FormatArtist(name string) string {
	return current.Artist + name
}

// FormatAlbum prefixes an album title with the album icon.
func FormatAlbum(name string) string {
	return current.Album + name
}

// FormatPlaylist prefixes a playlist title with the playlist icon.
func FormatPlaylist(name string) string {
	return current.Playlist + name
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// RepeatAll returns the repeat all icon.
func RepeatAll() string {
	return current.RepeatAll
}

// RepeatOne returns the repeat one icon.
func RepeatOne() string {
	return current.RepeatOne
}

// Volume returns the volume icon, or the mute icon when muted.
func Volume(muted bool) string {
	if muted {
		return current.Mute
	}
	return current.Volume
}

// Status returns the icon for a transport status.
func Status(playing, loading bool) string {
	switch {
	case loading:
		return current.Loading
	case playing:
		return current.Play
	default:
		return current.Pause
	}
}
