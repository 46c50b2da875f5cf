package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConflictsCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report scripts that would be saved to the same file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			conflicts, err := app.Vault.Conflicts(commandContext(cmd))
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputJSON(cmd, conflicts)
			case "text":
				if len(conflicts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No conflicts")
					return nil
				}
				for _, c := range conflicts {
					line := fmt.Sprintf("%s: %s", c.Filename, strings.Join(c.IDs, ", "))
					if c.Reserved {
						line += " (reserved name)"
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: text, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}
