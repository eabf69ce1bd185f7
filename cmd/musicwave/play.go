package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wenslauce/Music-Wave/internal/deezer"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// runPlay plays search results until the queue ends or the process is
// interrupted.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errNoQuery
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.catalog.Search(ctx, query, deezer.FilterTrack)
	if err != nil {
		return err
	}
	tracks := deezer.Tracks(res.Tracks)
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks found for %q", query)
	}

	session := e.newSession(playlist.NewQueue())
	sub := session.Subscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := session.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cmd.Bool("repeat") {
		if err := session.SetRepeatMode(playlist.RepeatAll); err != nil {
			return err
		}
	}
	if err := session.PlayList(tracks, ""); err != nil {
		return err
	}
	if cmd.Bool("shuffle") {
		if err := session.SetShuffle(true); err != nil {
			return err
		}
	}

	err = followSession(gctx, sub)
	cancel()
	return errors.Join(err, g.Wait())
}

// followSession prints track changes and returns once playback stops.
func followSession(ctx context.Context, sub *playback.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case ev := <-sub.TrackChanged:
			if t := ev.Current; t != nil {
				fmt.Fprintf(os.Stdout, "> %s - %s\n", t.Title, t.Artist.Name)
			}
		case ev := <-sub.SourceChanged:
			if ev.Source.IsPreview() {
				fmt.Fprintln(os.Stdout, "  (preview only)")
			}
		case ev := <-sub.Error:
			return fmt.Errorf("%s: %w", ev.Message, ev.Err)
		case ev := <-sub.StateChanged:
			if ev.Current == playback.StateStopped && ev.Previous != playback.StateLoading {
				return nil
			}
		}
	}
}
