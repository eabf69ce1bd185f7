package playback

import "time"

// NowPlaying is the metadata shown by OS media controls and notifications.
type NowPlaying struct {
	TrackID    string
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	Duration   time.Duration
	Index      int
}

// Surface displays the current track outside the application.
//
// SetNowPlaying is called on the session goroutine on every activation.
// It must return promptly and must not call back into the Session.
type Surface interface {
	SetNowPlaying(NowPlaying)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(NowPlaying)

func (f SurfaceFunc) SetNowPlaying(np NowPlaying) { f(np) }

func (s *Session) nowPlaying() NowPlaying {
	t := s.current
	return NowPlaying{
		TrackID:    t.ID,
		Title:      t.Title,
		Artist:     t.Artist.Name,
		Album:      t.Album.Title,
		ArtworkURL: t.Artwork.Best(),
		Duration:   t.Duration,
		Index:      s.index,
	}
}

func (s *Session) pushNowPlaying() {
	if s.current == nil || len(s.surfaces) == 0 {
		return
	}
	np := s.nowPlaying()
	for _, sf := range s.surfaces {
		sf.SetNowPlaying(np)
	}
}
