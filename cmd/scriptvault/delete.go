package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/filesystem"
)

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"delete"},
		Short:   "Delete a script",
		Long:    "Delete a script from the vault and, when a folder is linked, remove its file and rewrite metadata.json.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			ctx := commandContext(cmd)
			item, err := app.Vault.Find(ctx, args[0])
			if err != nil {
				return err
			}

			if !force {
				reader := bufio.NewReader(cmd.InOrStdin())
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete script '%s' (%s)? (y/N) ", item.Name, displayFilename(item))
				answer, err := reader.ReadString('\n')
				if err != nil {
					return err
				}

				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			dir, release, err := app.OptionalDir(ctx, filesystem.ModeReadWrite)
			if err != nil {
				// The folder is gone or no longer writable; delete locally.
				app.Log.Debug("linked folder unavailable for delete", "error", err)
				dir, release = nil, func() {}
			}
			defer release()

			_, err = app.Vault.Delete(ctx, dir, item.ID)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
