package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wenslauce/Music-Wave/internal/lastfm"
)

// runLastfmAuth runs the desktop authorization flow and saves the
// resulting session key.
func runLastfmAuth(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if !e.cfg.HasLastfmConfig() {
		return errors.New("set lastfm.api_key and lastfm.api_secret in the config file first")
	}

	client := lastfm.New(e.cfg.Lastfm.APIKey, e.cfg.Lastfm.APISecret, "")
	auth, err := client.BeginAuth()
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}

	fmt.Println("Open this page and allow access, then press Enter:")
	fmt.Println()
	fmt.Println("  " + auth.URL)
	fmt.Println()

	line := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(line)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-line:
	}

	acct, err := client.CompleteAuth(auth)
	if err != nil {
		return fmt.Errorf("fetch session: %w", err)
	}
	path, err := lastfm.DefaultSessionPath()
	if err != nil {
		return err
	}
	if err := lastfm.SaveSessionKey(path, acct.SessionKey); err != nil {
		return err
	}
	fmt.Printf("Scrobbling as %s.\n", acct.User)
	return nil
}
