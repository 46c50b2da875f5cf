package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/filesystem"
)

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull changes from the linked folder",
		Long:  "Read files modified since the last sync and merge them into the vault. With --replace the whole folder is imported again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			ctx := commandContext(cmd)
			dir, err := app.LinkedDir(ctx, filesystem.ModeRead)
			if err != nil {
				return err
			}
			defer func() {
				_ = dir.Close()
			}()

			if replace {
				_, err = app.Vault.Resync(ctx, dir)
			} else {
				_, err = app.Vault.Sync(ctx, dir)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Re-import the whole folder instead of reading changed files")

	return cmd
}

func newSaveCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write every script to the linked folder",
		Long:  "Write every script and metadata.json to the linked folder. Without a linked folder the vault is only saved locally.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			ctx := commandContext(cmd)
			dir, release, err := app.OptionalDir(ctx, filesystem.ModeReadWrite)
			if err != nil {
				return err
			}
			defer release()

			state, err := app.Vault.SaveAll(ctx, dir)
			if err != nil {
				return err
			}
			if dir != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d scripts to %s\n", len(state.Scripts), dir.Name())
			}
			return nil
		},
	}

	return cmd
}
