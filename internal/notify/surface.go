package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"

	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/playback"
)

const closeTimeout = time.Second

// Surface shows a desktop notification for every track the session
// activates. Successive tracks replace the previous notification.
//
// SetNowPlaying only records the latest track and never blocks; Run
// performs the artwork download and the D-Bus call.
type Surface struct {
	bus     caller
	artwork *Artwork // nil disables images
	logger  *log.Logger

	mu      sync.Mutex
	pending *playback.NowPlaying
	wake    chan struct{}

	lastID uint32 // owned by Run
}

// NewSurface connects to the notification service on the session bus.
// artwork may be nil.
func NewSurface(artwork *Artwork, logger *log.Logger) (*Surface, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return newSurface(conn.Object(busName, busPath), artwork, logger), nil
}

func newSurface(bus caller, artwork *Artwork, logger *log.Logger) *Surface {
	return &Surface{
		bus:     bus,
		artwork: artwork,
		logger:  logging.OrDiscard(logger),
		wake:    make(chan struct{}, 1),
	}
}

// SetNowPlaying implements playback.Surface.
func (s *Surface) SetNowPlaying(np playback.NowPlaying) {
	s.mu.Lock()
	s.pending = &np
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run shows notifications until ctx is done, then withdraws the last one.
func (s *Surface) Run(ctx context.Context) {
	defer s.withdraw()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.mu.Lock()
			np := s.pending
			s.pending = nil
			s.mu.Unlock()
			if np != nil {
				s.show(ctx, *np)
			}
		}
	}
}

func (s *Surface) show(ctx context.Context, np playback.NowPlaying) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgencyLow),
		"desktop-entry": dbus.MakeVariant(appEntry),
		"category":      dbus.MakeVariant(trackCategory),
	}
	if img := s.image(ctx, np.ArtworkURL); img != "" {
		hints["image-path"] = dbus.MakeVariant(img)
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := s.bus.CallWithContext(ctx, notifyMethod, 0,
		appName, s.lastID, appIcon, np.Title, trackBody(np), []string{}, hints, trackTimeout)
	var id uint32
	if err := call.Store(&id); err != nil {
		s.logger.Warn("track notification failed", "track", np.Title, "err", err)
		return
	}
	s.lastID = id
}

// image returns the local artwork path for rawURL, or "".
func (s *Surface) image(ctx context.Context, rawURL string) string {
	if s.artwork == nil || rawURL == "" {
		return ""
	}
	path, err := s.artwork.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Debug("artwork unavailable", "url", rawURL, "err", err)
		return ""
	}
	return path
}

func (s *Surface) withdraw() {
	if s.lastID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if call := s.bus.CallWithContext(ctx, closeMethod, 0, s.lastID); call.Err != nil {
		s.logger.Debug("close notification", "id", s.lastID, "err", call.Err)
	}
	s.lastID = 0
}

func trackBody(np playback.NowPlaying) string {
	switch {
	case np.Artist != "" && np.Album != "":
		return np.Artist + " - " + np.Album
	case np.Artist != "":
		return np.Artist
	default:
		return np.Album
	}
}
