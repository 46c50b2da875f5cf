package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/filesystem"
)

func newLinkCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <dir>",
		Short: "Link a folder and import its scripts",
		Long:  "Link a folder, replace the local scripts with the folder's contents and remember the folder for later sync and save.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			dir, err := filesystem.OpenDir(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = dir.Close()
			}()

			state, err := app.Vault.Link(commandContext(cmd), dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s (%d scripts)\n", dir.Path(), len(state.Scripts))
			return nil
		},
	}

	return cmd
}

func newUnlinkCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlink",
		Short: "Forget the linked folder",
		Long:  "Forget the linked folder. Scripts stay in the local vault and the folder is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			cleared, err := app.Unlink(commandContext(cmd))
			if err != nil {
				return err
			}
			if !cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "No folder was linked")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Folder unlinked")
			return nil
		},
	}

	return cmd
}
