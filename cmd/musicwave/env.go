package main

import (
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wenslauce/Music-Wave/internal/catalogcache"
	"github.com/wenslauce/Music-Wave/internal/config"
	"github.com/wenslauce/Music-Wave/internal/deezer"
	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/resolver"
	"github.com/wenslauce/Music-Wave/internal/saavn"
	"github.com/wenslauce/Music-Wave/internal/transport"
)

// env holds the components shared by every command.
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	cache   *catalogcache.Cache // nil when disabled
	catalog *deezer.Client
	http    *http.Client

	closers []io.Closer
}

// newEnv loads the configuration and builds the catalog client. With
// logToFile the log goes to the configured file instead of stderr.
func newEnv(cmd *cli.Command, logToFile bool) (*env, error) {
	var extra []string
	if path := cmd.String("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		extra = append(extra, path)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}

	level := cfg.LogLevel()
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	var w io.Writer = os.Stderr
	if logToFile {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		w = f
	}
	e.logger = logging.New(w, level)

	opts := []deezer.Option{deezer.WithLogger(e.logger.WithPrefix("catalog"))}
	if r := cfg.Canonical.RateLimit; r > 0 {
		opts = append(opts, deezer.WithRateLimit(r))
	}
	if cfg.CacheEnabled() {
		cc := cfg.GetCacheConfig()
		cache, err := catalogcache.Open(cc.Path, catalogcache.Options{
			TTL:           cc.TTL(),
			MemoryEntries: cc.MemoryEntries,
			Logger:        e.logger.WithPrefix("cache"),
		})
		if err != nil {
			e.logger.Warn("catalog cache unavailable", "err", err)
		} else {
			e.cache = cache
			e.closers = append(e.closers, cache)
			opts = append(opts, deezer.WithCache(cache))
		}
	}
	e.catalog = deezer.New(cfg.Canonical.BaseURL, opts...)
	return e, nil
}

// newSession builds a playback session with the audio transport and the
// stream resolver. Run must be called on the result.
func (e *env) newSession(q *playlist.PlayingQueue, opts ...playback.Option) *playback.Session {
	var saavnOpts []saavn.Option
	if r := e.cfg.Alternate.RateLimit; r > 0 {
		saavnOpts = append(saavnOpts, saavn.WithRateLimit(r))
	}
	alt := saavn.New(e.cfg.Alternate.BaseURL, saavnOpts...)

	rc := e.cfg.GetResolverConfig()
	res := resolver.New(alt, resolver.NewHTTPProber(e.http, e.logger), resolver.Config{
		SearchTimeout: rc.SearchTimeout,
		ProbeTimeout:  rc.ProbeTimeout,
		Container:     rc.PreferredContainer,
		Qualities:     rc.Qualities,
	}, e.logger.WithPrefix("resolver"))

	out := transport.NewAudio(e.http, e.logger.WithPrefix("transport"))

	opts = append([]playback.Option{
		playback.WithLogger(e.logger.WithPrefix("session")),
		playback.WithVolume(e.cfg.InitialVolume()),
	}, opts...)
	return playback.New(q, out, res, opts...)
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}
