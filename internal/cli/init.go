package cli

import (
	"fmt"
	"os"

	"github.com/mtunnicliffe/cadence/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Reinitialize even if storage already exists."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		// File-backed stores reinitialize from an empty file. Postgres
		// keeps its schema; Init re-runs migrations there.
		if _, ok := ctx.Store.(*storage.PostgresStore); !ok {
			path := ctx.Store.GetConfigPath()
			if _, err := os.Stat(path); err == nil {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to remove existing store: %w", err)
				}
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized cadence storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
