package main

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wenslauce/Music-Wave/internal/app"
	"github.com/wenslauce/Music-Wave/internal/icons"
	"github.com/wenslauce/Music-Wave/internal/lastfm"
	"github.com/wenslauce/Music-Wave/internal/mpris"
	"github.com/wenslauce/Music-Wave/internal/notify"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/state"
	"github.com/wenslauce/Music-Wave/internal/stderr"
	"github.com/wenslauce/Music-Wave/internal/ui/playerbar"
)

func runTUI(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	capture, err := stderr.Start(e.logger)
	if err != nil {
		e.logger.Warn("stderr capture unavailable", "err", err)
	} else {
		defer capture.Close()
	}

	icons.Init(e.cfg.IconStyle())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := state.Open("")
	if err != nil {
		e.logger.Warn("state database unavailable", "err", err)
	} else {
		defer store.Close()
	}
	saved := loadPlayerState(e, store)

	var opts []playback.Option
	if saved != nil {
		opts = append(opts, playback.WithVolume(saved.Volume))
	}
	var notifier *notify.Surface
	if e.cfg.NotificationsEnabled() {
		art := notify.NewArtwork("", e.http, e.logger.WithPrefix("artwork"))
		n, err := notify.NewSurface(art, e.logger.WithPrefix("notify"))
		if err != nil {
			e.logger.Warn("desktop notifications unavailable", "err", err)
		} else {
			notifier = n
			opts = append(opts, playback.WithSurface(notifier))
		}
	}

	session := e.newSession(playlist.NewQueue(), opts...)
	uiSub := session.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := session.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if notifier != nil {
		g.Go(func() error {
			notifier.Run(gctx)
			return nil
		})
	}
	restorePlayerState(e, session, saved)

	if reporter := newReporter(e, store); reporter != nil {
		sub := session.Subscribe()
		g.Go(func() error {
			reporter.Run(gctx, sub)
			return nil
		})
	}

	if adapter, err := mpris.New(session); err != nil {
		e.logger.Warn("media controls unavailable", "err", err)
	} else {
		defer adapter.Close()
		if err := session.AddSurface(adapter); err != nil {
			e.logger.Warn("register media controls", "err", err)
		}
	}

	mode := playerbar.ModeCompact
	if e.cfg.ExpandedPlayer() {
		mode = playerbar.ModeExpanded
	}
	model := app.New(e.catalog, session, uiSub, app.Options{
		Logger:       e.logger.WithPrefix("ui"),
		InitialQuery: strings.Join(cmd.Args().Slice(), " "),
		PlayerMode:   mode,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}

	savePlayerState(e, session, store)
	_ = session.Close()
	cancel()
	return errors.Join(runErr, g.Wait())
}

// newReporter returns a scrobbler when Last.fm is configured and
// authorized, or nil. store may be nil.
func newReporter(e *env, store *state.Manager) *lastfm.Reporter {
	if !e.cfg.HasLastfmConfig() {
		return nil
	}
	key := e.cfg.Lastfm.SessionKey
	if key == "" {
		path, err := lastfm.DefaultSessionPath()
		if err == nil {
			key, err = lastfm.LoadSessionKey(path)
		}
		if err != nil {
			e.logger.Warn("load last.fm session", "err", err)
		}
	}
	if key == "" {
		e.logger.Info("last.fm configured but not authorized; run \"musicwave lastfm auth\"")
		return nil
	}

	client := lastfm.New(e.cfg.Lastfm.APIKey, e.cfg.Lastfm.APISecret, key)
	var opts []lastfm.ReporterOption
	if store != nil {
		opts = append(opts, lastfm.WithBacklog(store))
	}
	return lastfm.NewReporter(client, e.logger.WithPrefix("lastfm"), opts...)
}

func loadPlayerState(e *env, store *state.Manager) *state.PlayerState {
	if store == nil {
		return nil
	}
	saved, err := store.GetPlayer()
	if err != nil {
		e.logger.Warn("load player state", "err", err)
		return nil
	}
	return saved
}

// restorePlayerState reapplies the saved modes. The session must be
// running.
func restorePlayerState(e *env, session *playback.Session, saved *state.PlayerState) {
	if saved == nil {
		return
	}
	err := errors.Join(
		session.SetRepeatMode(saved.RepeatMode),
		session.SetShuffle(saved.Shuffle),
	)
	if saved.Muted {
		_, muteErr := session.ToggleMute()
		err = errors.Join(err, muteErr)
	}
	if err != nil {
		e.logger.Warn("restore player state", "err", err)
	}
}

func savePlayerState(e *env, session *playback.Session, store *state.Manager) {
	if store == nil {
		return
	}
	snap, err := session.Snapshot()
	if err != nil {
		e.logger.Warn("read player state", "err", err)
		return
	}
	err = store.SavePlayer(state.PlayerState{
		Volume:     snap.Volume,
		Muted:      snap.Muted,
		RepeatMode: snap.RepeatMode,
		Shuffle:    snap.Shuffle,
	})
	if err != nil {
		e.logger.Warn("save player state", "err", err)
	}
}
