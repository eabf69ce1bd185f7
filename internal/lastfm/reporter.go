package lastfm

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/state"
)

// Scrobbling rules from the Last.fm API documentation.
const (
	minScrobbleDuration = 30 * time.Second
	maxScrobbleWait     = 4 * time.Minute

	// A position this far behind the furthest point reached means the
	// track restarted (repeat-one) rather than being nudged by a seek.
	restartThreshold = 5 * time.Second

	// Last.fm rejects scrobbles older than two weeks.
	maxBacklogAge    = 14 * 24 * time.Hour
	maxRetryAttempts = 10
	retryInterval    = 5 * time.Minute
)

var (
	_ Scrobbler = (*Client)(nil)
	_ Backlog   = (*state.Manager)(nil)
)

// Scrobbler is the part of Client used by Reporter.
type Scrobbler interface {
	NowPlaying(t playlist.Track) error
	Scrobble(l Listen) error
}

// Backlog stores scrobbles that failed to submit until they can be
// retried.
type Backlog interface {
	AddPendingScrobble(s state.PendingScrobble) error
	GetPendingScrobbles() ([]state.PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
	DeleteOldPendingScrobbles(maxAge time.Duration) error
}

// play is one listen of a track.
type play struct {
	listen    Listen
	reached   time.Duration
	scrobbled bool
}

// Reporter follows a playback session and reports now-playing updates and
// scrobbles.
type Reporter struct {
	client  Scrobbler
	backlog Backlog // nil drops failed scrobbles
	logger  *log.Logger
	now     func() time.Time

	current *play
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithBacklog keeps failed scrobbles in b and retries them periodically.
func WithBacklog(b Backlog) ReporterOption {
	return func(r *Reporter) {
		r.backlog = b
	}
}

// NewReporter creates a Reporter.
func NewReporter(client Scrobbler, logger *log.Logger, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		client: client,
		logger: logging.OrDiscard(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes sub until ctx is done or the session closes.
func (r *Reporter) Run(ctx context.Context, sub *playback.Subscription) {
	defer r.finish()

	var retry <-chan time.Time
	if r.backlog != nil {
		r.retryBacklog()
		t := time.NewTicker(retryInterval)
		defer t.Stop()
		retry = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case <-retry:
			r.retryBacklog()
		case ev := <-sub.TrackChanged:
			r.trackChanged(ev)
		case ev := <-sub.PositionChanged:
			r.progress(ev)
		}
	}
}

func (r *Reporter) trackChanged(ev playback.TrackChange) {
	r.finish()
	if ev.Current != nil {
		r.start(*ev.Current)
	}
}

func (r *Reporter) start(t playlist.Track) {
	r.current = &play{listen: Listen{Track: t, Started: r.now()}}
	if err := r.client.NowPlaying(t); err != nil {
		r.logger.Warn("last.fm now playing failed", "track", t.Title, "err", err)
	}
}

func (r *Reporter) progress(ev playback.PositionChange) {
	p := r.current
	if p == nil {
		return
	}
	if ev.Duration > 0 {
		p.listen.Track.Duration = ev.Duration
	}
	if ev.Position+restartThreshold < p.reached {
		r.finish()
		restarted := *p
		restarted.reached = 0
		restarted.scrobbled = false
		restarted.listen.Started = r.now()
		r.current = &restarted
		p = r.current
	}
	p.reached = max(p.reached, ev.Position)
}

// finish scrobbles the current play if it qualifies and forgets it.
func (r *Reporter) finish() {
	p := r.current
	r.current = nil
	if p == nil || p.scrobbled || !eligible(p.listen.Track.Duration, p.reached) {
		return
	}
	p.scrobbled = true
	t := p.listen.Track
	if err := r.client.Scrobble(p.listen); err != nil {
		r.logger.Warn("last.fm scrobble failed", "track", t.Title, "err", err)
		r.queue(p.listen, err)
		return
	}
	r.logger.Debug("scrobbled", "track", t.Title, "artist", t.Artist.Name)
}

func (r *Reporter) queue(l Listen, cause error) {
	if r.backlog == nil {
		return
	}
	err := r.backlog.AddPendingScrobble(state.PendingScrobble{
		Artist:       l.Track.Artist.Name,
		Track:        l.Track.Title,
		Album:        l.Track.Album.Title,
		DurationSecs: int(l.Track.Duration / time.Second),
		Timestamp:    l.Started,
		LastError:    cause.Error(),
	})
	if err != nil {
		r.logger.Warn("queue scrobble for retry", "track", l.Track.Title, "err", err)
	}
}

// pendingListen rebuilds the listen a backlog entry was made from.
func pendingListen(p state.PendingScrobble) Listen {
	return Listen{
		Track: playlist.Track{
			Title:    p.Track,
			Artist:   playlist.Artist{Name: p.Artist},
			Album:    playlist.Album{Title: p.Album},
			Duration: time.Duration(p.DurationSecs) * time.Second,
		},
		Started: p.Timestamp,
	}
}

// retryBacklog resubmits pending scrobbles. Entries past the retry limit
// stay until they age out.
func (r *Reporter) retryBacklog() {
	if err := r.backlog.DeleteOldPendingScrobbles(maxBacklogAge); err != nil {
		r.logger.Warn("prune scrobble backlog", "err", err)
	}
	pending, err := r.backlog.GetPendingScrobbles()
	if err != nil {
		r.logger.Warn("read scrobble backlog", "err", err)
		return
	}

	var sent, failed int
	for _, p := range pending {
		if p.Attempts >= maxRetryAttempts {
			continue
		}
		if err := r.client.Scrobble(pendingListen(p)); err != nil {
			failed++
			if uerr := r.backlog.UpdatePendingScrobbleAttempt(p.ID, err.Error()); uerr != nil {
				r.logger.Warn("record scrobble attempt", "id", p.ID, "err", uerr)
			}
			continue
		}
		sent++
		if err := r.backlog.DeletePendingScrobble(p.ID); err != nil {
			r.logger.Warn("remove sent scrobble", "id", p.ID, "err", err)
		}
	}
	if sent+failed > 0 {
		r.logger.Info("retried pending scrobbles", "sent", sent, "failed", failed)
	}
}

// eligible reports whether a listen of reached out of duration counts as a
// scrobble: the track is longer than 30 seconds and was played for half its
// length or four minutes, whichever comes first.
func eligible(duration, reached time.Duration) bool {
	if duration <= minScrobbleDuration {
		return false
	}
	return reached >= min(duration/2, maxScrobbleWait)
}
