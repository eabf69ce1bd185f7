package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wenslauce/Music-Wave/internal/deezer"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui/render"
)

var errNoQuery = errors.New("missing search query")

func runSearch(ctx context.Context, cmd *cli.Command) error {
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
	printTracks(os.Stdout, deezer.Tracks(res.Tracks))
	return nil
}

func runCharts(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	chart, err := e.catalog.Charts(ctx)
	if err != nil {
		return err
	}
	printTracks(os.Stdout, deezer.Tracks(chart.Tracks.Data))
	return nil
}

// printTracks writes one aligned line per track.
func printTracks(w io.Writer, tracks []playlist.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(w, "no tracks found")
		return
	}
	for i, t := range tracks {
		fmt.Fprintf(w, "%3d  %s  %s  %s\n",
			i+1,
			render.TruncateAndPad(t.Title, 40),
			render.TruncateAndPad(t.Artist.Name, 24),
			render.Duration(t.Duration),
		)
	}
}
