package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/config"
	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/vault"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show vault settings",
		Long:  "Show the vault's settings. API keys are masked; they are stored locally and never written to the linked folder.",
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
			settings, err := app.Vault.Configure(ctx)
			if err != nil {
				return err
			}

			folder := "(none)"
			if linked, err := app.Folders.Get(ctx); err == nil {
				folder = linked.Path
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRow(table.Row{"Vault dir", config.GetVaultDir()})
			t.AppendRow(table.Row{"Linked folder", folder})
			t.AppendRow(table.Row{"Last sync", orNone(fssync.FormatInstant(settings.LastSyncAt))})
			t.AppendRow(table.Row{"Provider", string(settings.PreferredProvider)})
			for _, p := range vault.Providers() {
				t.AppendRow(table.Row{string(p) + " key", orNone(maskKey(settings.APIKey(p)))})
			}
			t.Render()
			return nil
		},
	}

	cmd.AddCommand(newConfigProviderCmd(opts))
	cmd.AddCommand(newConfigKeyCmd(opts))

	return cmd
}

func newConfigProviderCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provider <gemini|openai|claude>",
		Short: "Set the preferred provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, ok := vault.ParseProvider(args[0])
			if !ok {
				return fmt.Errorf("invalid provider: %s (valid values: gemini, openai, claude)", args[0])
			}

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			settings, err := app.Vault.Configure(commandContext(cmd), vault.ProviderChosen{Provider: provider})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preferred provider set to %s\n", settings.PreferredProvider)
			return nil
		},
	}
}

func newConfigKeyCmd(opts *globalOptions) *cobra.Command {
	var clearKey bool

	cmd := &cobra.Command{
		Use:   "key <gemini|openai|claude>",
		Short: "Store an API key read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, ok := vault.ParseProvider(args[0])
			if !ok {
				return fmt.Errorf("invalid provider: %s (valid values: gemini, openai, claude)", args[0])
			}

			var key string
			if !clearKey {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s API key: ", provider)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return err
				}
				key = strings.TrimSpace(line)
				if key == "" {
					return errors.New("empty key; use --clear to remove the stored key")
				}
			}

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			if _, err := app.Vault.Configure(commandContext(cmd), vault.KeyStored{Provider: provider, Key: key}); err != nil {
				return err
			}
			if clearKey {
				fmt.Fprintf(cmd.OutOrStdout(), "%s key cleared\n", provider)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s key stored\n", provider)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearKey, "clear", false, "Remove the stored key")

	return cmd
}

// maskKey keeps the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
