package app

import (
	"context"

	"github.com/wenslauce/Music-Wave/internal/deezer"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// Catalog is the part of the canonical catalog client used for browsing.
type Catalog interface {
	Search(ctx context.Context, query string, filter deezer.Filter) (*deezer.SearchResult, error)
	Charts(ctx context.Context) (*deezer.Chart, error)
	Album(ctx context.Context, id int64) (*deezer.Album, error)
	ArtistOverview(ctx context.Context, id int64) (*deezer.ArtistOverview, error)
	Playlist(ctx context.Context, id int64) (*deezer.Playlist, error)
}

// Player is the part of the playback session driven by the UI.
type Player interface {
	PlayList(items []playlist.Track, startID string) error
	JumpTo(index int) error
	TogglePause() error
	Stop() error
	Next() error
	Previous() error
	Retry() error
	ClearError() error
	ToggleShuffle() (bool, error)
	CycleRepeat() (playlist.RepeatMode, error)
	SeekPercent(percent float64) error
	SetVolume(level float64) error
	ToggleMute() (bool, error)
	Snapshot() (playback.Snapshot, error)
}

var (
	_ Catalog = (*deezer.Client)(nil)
	_ Player  = (*playback.Session)(nil)
)
