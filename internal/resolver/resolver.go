// Package resolver turns canonical track descriptors into playable stream
// URLs by searching the alternate catalog, with preview fallback.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/match"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/saavn"
)

const userAgent = "musicwave/1.0 (https://github.com/wenslauce/Music-Wave)"

const (
	DefaultSearchTimeout = 5 * time.Second
	DefaultProbeTimeout  = 3 * time.Second
)

// Searcher queries the alternate catalog.
type Searcher interface {
	SearchSongs(ctx context.Context, query string) ([]saavn.Song, error)
}

// Prober checks that a stream URL can be fetched without downloading it.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// Config tunes resolution. Zero values select the defaults.
type Config struct {
	SearchTimeout time.Duration
	ProbeTimeout  time.Duration
	Container     string   // preferred container of the top tier
	Qualities     []string // tiers from best to worst
}

func (c Config) withDefaults() Config {
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.Container == "" {
		c.Container = DefaultContainer
	}
	if len(c.Qualities) == 0 {
		c.Qualities = DefaultQualities
	}
	return c
}

// Resolver finds full-length streams for canonical tracks.
type Resolver struct {
	search Searcher
	probe  Prober
	cfg    Config
	logger *log.Logger
}

// New creates a resolver.
func New(search Searcher, probe Prober, cfg Config, logger *log.Logger) *Resolver {
	return &Resolver{
		search: search,
		probe:  probe,
		cfg:    cfg.withDefaults(),
		logger: logging.OrDiscard(logger),
	}
}

// Resolve returns a stream for t. It always returns one of the three Result
// kinds in bounded time: search and probe failures degrade to the preview.
func (r *Resolver) Resolve(ctx context.Context, t playlist.Track) Result {
	logger := r.logger.With("track", t.Title, "artist", t.Artist.Name)

	songs := r.searchSongs(ctx, logger, match.Query(t.Title, t.Artist.Name))
	if len(songs) == 0 {
		return r.fallback(logger, t, "no candidates")
	}

	candidates := make([]match.Candidate, len(songs))
	for i := range songs {
		candidates[i] = match.Candidate{
			Title:   songs[i].Title(),
			Artists: songs[i].PrimaryArtists(),
		}
	}

	idx, score, ok := match.Best(t, candidates)
	if !ok {
		return r.fallback(logger, t, "no candidate above threshold")
	}
	best := songs[idx]
	logger.Debug("matched candidate", "name", best.Title(), "score", score)

	for _, d := range rankURLs(best.DownloadURLs, r.cfg.Qualities, r.cfg.Container) {
		if err := r.check(ctx, d.URL); err != nil {
			logger.Debug("stream unreachable", "quality", d.Quality, "err", err)
			continue
		}
		logger.Info("resolved stream", "quality", d.Quality, "score", score)
		return Result{Kind: Resolved, URL: d.URL, Quality: d.Quality, Score: score}
	}

	return r.fallback(logger, t, "no reachable stream")
}

func (r *Resolver) searchSongs(ctx context.Context, logger *log.Logger, query string) []saavn.Song {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SearchTimeout)
	defer cancel()

	songs, err := r.search.SearchSongs(ctx, query)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("alternate catalog search timed out", "query", query)
		return nil
	case err != nil:
		logger.Warn("alternate catalog search failed", "query", query, "err", err)
		return nil
	}
	return songs
}

func (r *Resolver) check(ctx context.Context, rawURL string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ProbeTimeout)
	defer cancel()
	return r.probe.Probe(ctx, rawURL)
}

func (r *Resolver) fallback(logger *log.Logger, t playlist.Track, reason string) Result {
	if t.HasPreview() {
		logger.Info("falling back to preview", "reason", reason)
		return Result{Kind: FellBackToPreview, URL: t.PreviewURL}
	}
	logger.Warn("track unresolvable", "reason", reason)
	return Result{Kind: Unresolvable}
}
