package deezer

import (
	"strconv"
	"time"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// Page is a paginated list as returned by list endpoints.
type Page[T any] struct {
	Data  []T    `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
}

// User is the owner of a playlist.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Artist is a catalog artist.
type Artist struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureSmall  string `json:"picture_small"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	NbAlbum       int    `json:"nb_album"`
	NbFan         int    `json:"nb_fan"`
	Type          string `json:"type"`
}

// Album is a catalog album. Tracks is only set by the album endpoint.
type Album struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Cover       string       `json:"cover"`
	CoverSmall  string       `json:"cover_small"`
	CoverMedium string       `json:"cover_medium"`
	CoverBig    string       `json:"cover_big"`
	ReleaseDate string       `json:"release_date"`
	RecordType  string       `json:"record_type"`
	NbTracks    int          `json:"nb_tracks"`
	Artist      *Artist      `json:"artist,omitempty"`
	Tracks      *Page[Track] `json:"tracks,omitempty"`
	Type        string       `json:"type"`
}

// Track is a catalog track. Duration is in seconds.
type Track struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	TitleShort     string `json:"title_short"`
	Duration       int    `json:"duration"`
	Rank           int    `json:"rank"`
	ExplicitLyrics bool   `json:"explicit_lyrics"`
	Preview        string `json:"preview"`
	Artist         Artist `json:"artist"`
	Album          Album  `json:"album"`
	Type           string `json:"type"`
}

// Playlist is a public playlist. Tracks is only set by the playlist endpoint.
type Playlist struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Picture       string       `json:"picture"`
	PictureSmall  string       `json:"picture_small"`
	PictureMedium string       `json:"picture_medium"`
	PictureBig    string       `json:"picture_big"`
	NbTracks      int          `json:"nb_tracks"`
	Fans          int          `json:"fans"`
	User          *User        `json:"user,omitempty"`
	Creator       *User        `json:"creator,omitempty"`
	Tracks        *Page[Track] `json:"tracks,omitempty"`
	Type          string       `json:"type"`
}

// Owner returns the playlist's owner name, whichever field carries it.
func (p Playlist) Owner() string {
	switch {
	case p.User != nil:
		return p.User.Name
	case p.Creator != nil:
		return p.Creator.Name
	default:
		return ""
	}
}

// Genre is a browse category.
type Genre struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
}

// Radio is an editorial radio station.
type Radio struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	Tracklist     string `json:"tracklist"`
}

// Chart groups the chart lists returned by chart endpoints.
type Chart struct {
	Tracks    Page[Track]    `json:"tracks"`
	Albums    Page[Album]    `json:"albums"`
	Artists   Page[Artist]   `json:"artists"`
	Playlists Page[Playlist] `json:"playlists"`
}

// SearchResult holds search hits grouped by kind. Only the groups
// requested by the filter are populated.
type SearchResult struct {
	Tracks    []Track
	Artists   []Artist
	Albums    []Album
	Playlists []Playlist
}

// ArtistOverview is an artist page: the artist with its top tracks and
// albums.
type ArtistOverview struct {
	Artist    *Artist
	TopTracks []Track
	Albums    []Album
}

// ToTrack converts a catalog track into a queue track. Album artwork is
// taken from the embedded album; fields the API omitted stay empty so that
// the queue can reject incomplete descriptors.
func (t Track) ToTrack() playlist.Track {
	return playlist.Track{
		ID:    formatID(t.ID),
		Title: t.Title,
		Artist: playlist.Artist{
			ID:      formatID(t.Artist.ID),
			Name:    t.Artist.Name,
			Picture: firstNonEmpty(t.Artist.PictureMedium, t.Artist.Picture),
		},
		Album: playlist.Album{
			ID:    formatID(t.Album.ID),
			Title: t.Album.Title,
		},
		Duration:   time.Duration(t.Duration) * time.Second,
		PreviewURL: t.Preview,
		Artwork: playlist.Artwork{
			Small:  t.Album.CoverSmall,
			Medium: t.Album.CoverMedium,
			Large:  t.Album.CoverBig,
		},
	}
}

// Tracks converts a list of catalog tracks.
func Tracks(ts []Track) []playlist.Track {
	out := make([]playlist.Track, len(ts))
	for i, t := range ts {
		out[i] = t.ToTrack()
	}
	return out
}

// AlbumTracks converts an album's track listing. Tracks on the album
// endpoint omit the album object, so it is filled in from a.
func AlbumTracks(a *Album) []playlist.Track {
	if a == nil || a.Tracks == nil {
		return nil
	}
	out := make([]playlist.Track, len(a.Tracks.Data))
	for i, t := range a.Tracks.Data {
		if t.Album.ID == 0 {
			t.Album = Album{
				ID:          a.ID,
				Title:       a.Title,
				CoverSmall:  a.CoverSmall,
				CoverMedium: a.CoverMedium,
				CoverBig:    a.CoverBig,
			}
		}
		out[i] = t.ToTrack()
	}
	return out
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
