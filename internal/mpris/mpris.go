//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// Adapter connects a playback session to MPRIS over D-Bus. Register it as
// a now-playing surface so Metadata follows the current track.
type Adapter struct {
	server *server.Server
	player *playerAdapter
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller) (*Adapter, error) {
	player := &playerAdapter{ctrl: ctrl}
	a := &Adapter{
		server: server.NewServer("musicwave", &rootAdapter{}, player),
		player: player,
	}

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// SetNowPlaying implements playback.Surface.
func (a *Adapter) SetNowPlaying(np playback.NowPlaying) {
	a.player.setNowPlaying(np)
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Music Wave", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp4", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
// D-Bus calls arrive on their own goroutines and go through the session API.
type playerAdapter struct {
	ctrl Controller

	mu  sync.Mutex
	now *playback.NowPlaying
}

func (p *playerAdapter) setNowPlaying(np playback.NowPlaying) {
	p.mu.Lock()
	p.now = &np
	p.mu.Unlock()
}

func (p *playerAdapter) nowPlaying() *playback.NowPlaying {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *playerAdapter) snapshot() playback.Snapshot {
	snap, err := p.ctrl.Snapshot()
	if err != nil {
		return playback.Snapshot{Index: -1}
	}
	return snap
}

func (p *playerAdapter) Next() error {
	return p.ctrl.Next()
}

func (p *playerAdapter) Previous() error {
	return p.ctrl.Previous()
}

func (p *playerAdapter) Pause() error {
	return p.ctrl.Pause()
}

func (p *playerAdapter) PlayPause() error {
	return p.ctrl.TogglePause()
}

func (p *playerAdapter) Stop() error {
	return p.ctrl.Stop()
}

func (p *playerAdapter) Play() error {
	return p.ctrl.Play()
}

// Seek moves relative to the current position.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	snap := p.snapshot()
	target := snap.Position + time.Duration(offset)*time.Microsecond
	return p.seekTo(snap, target)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.seekTo(p.snapshot(), time.Duration(position)*time.Microsecond)
}

func (p *playerAdapter) seekTo(snap playback.Snapshot, target time.Duration) error {
	if snap.Duration <= 0 {
		return nil
	}
	return p.ctrl.SeekPercent(float64(target) / float64(snap.Duration) * 100)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.snapshot().State {
	case playback.StatePlaying, playback.StateLoading:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	np := p.nowPlaying()
	if np == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(np.TrackID)),
		Length:  types.Microseconds(np.Duration.Microseconds()),
		Title:   np.Title,
		Artist:  []string{np.Artist},
		Album:   np.Album,
	}
	if strings.HasPrefix(np.ArtworkURL, "http://") || strings.HasPrefix(np.ArtworkURL, "https://") {
		meta.ArtUrl = np.ArtworkURL
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	snap := p.snapshot()
	if snap.Muted {
		return 0, nil
	}
	return snap.Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	return p.ctrl.SetVolume(level)
}

func (p *playerAdapter) Position() (int64, error) {
	return p.snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.snapshot().HasNext, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.snapshot().HasPrevious, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.snapshot().QueueLen > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.snapshot().Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.snapshot().RepeatMode {
	case playlist.RepeatOne:
		return types.LoopStatusTrack, nil
	case playlist.RepeatAll:
		return types.LoopStatusPlaylist, nil
	case playlist.RepeatOff:
		return types.LoopStatusNone, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		return p.ctrl.SetRepeatMode(playlist.RepeatOff)
	case types.LoopStatusTrack:
		return p.ctrl.SetRepeatMode(playlist.RepeatOne)
	case types.LoopStatusPlaylist:
		return p.ctrl.SetRepeatMode(playlist.RepeatAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	return p.ctrl.SetShuffle(shuffle)
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
