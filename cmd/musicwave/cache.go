package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

var errCacheDisabled = errors.New("catalog cache is disabled or unavailable")

func runCacheClean(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cache == nil {
		return errCacheDisabled
	}

	n, err := e.cache.CleanExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d expired entries\n", n)
	return nil
}

func runCachePurge(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cache == nil {
		return errCacheDisabled
	}

	if err := e.cache.Purge(ctx); err != nil {
		return err
	}
	fmt.Println("catalog cache cleared")
	return nil
}
