package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/watcher"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever the linked folder changes",
		Long:  "Watch the linked folder and run an incremental sync after each burst of changes. Stop with Ctrl-C.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			dir, err := app.LinkedDir(ctx, filesystem.ModeRead)
			if err != nil {
				return err
			}
			defer func() {
				_ = dir.Close()
			}()

			w, err := watcher.New(dir.Path(), opts.cfg.Watch.Debounce, app.Log)
			if err != nil {
				return err
			}
			defer func() {
				_ = w.Close()
			}()

			// Catch up on anything that changed while nobody was watching.
			if _, err := app.Vault.Sync(ctx, dir); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s\n", dir.Path())
			err = w.Run(ctx, func(ctx context.Context) error {
				if err := dir.Permission(ctx, filesystem.ModeRead); err != nil {
					return err
				}
				_, err := app.Vault.Sync(ctx, dir)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	return cmd
}
