package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/fssync"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Print a script",
		Long:  "Print a script's content. The reference may be an id, a display name or a filename.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			item, err := app.Vault.Find(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			switch format {
			case "raw":
				fmt.Fprint(cmd.OutOrStdout(), item.Content)
				return nil
			case "json":
				return outputJSON(cmd, showOutput{
					ID:          item.ID,
					Name:        item.Name,
					Description: item.Description,
					Language:    string(item.Language),
					Filename:    displayFilename(item),
					Content:     item.Content,
					CreatedAt:   fssync.FormatInstant(item.CreatedAt),
					UpdatedAt:   fssync.FormatInstant(item.UpdatedAt),
					ContentHash: item.ContentHash,
				})
			default:
				return fmt.Errorf("invalid format: %s (valid values: raw, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "raw", "Output format: raw or json")

	return cmd
}

type showOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	ContentHash string `json:"contentHash,omitempty"`
}
