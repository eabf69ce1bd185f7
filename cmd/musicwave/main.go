// Command musicwave is a terminal music player for the public catalog:
// browse and search with canonical metadata, play full-length streams
// from the alternate catalog, and fall back to previews.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "musicwave",
		Usage:   "Browse the catalog and play music in the terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Extra configuration file, read after the default ones",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the catalog and print matching tracks",
				ArgsUsage: "<query>",
				Action:    runSearch,
			},
			{
				Name:   "charts",
				Usage:  "Print the top tracks",
				Action: runCharts,
			},
			{
				Name:      "play",
				Usage:     "Play the tracks matching a query without the interface",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "shuffle", Usage: "Shuffle the results"},
					&cli.BoolFlag{Name: "repeat", Usage: "Repeat the results"},
				},
				Action: runPlay,
			},
			{
				Name:  "cache",
				Usage: "Manage the catalog response cache",
				Commands: []*cli.Command{
					{Name: "clean", Usage: "Remove expired entries", Action: runCacheClean},
					{Name: "purge", Usage: "Remove every entry", Action: runCachePurge},
				},
			},
			{
				Name:  "lastfm",
				Usage: "Manage Last.fm scrobbling",
				Commands: []*cli.Command{
					{Name: "auth", Usage: "Authorize scrobbling for this machine", Action: runLastfmAuth},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "musicwave:", err)
		os.Exit(1)
	}
}
