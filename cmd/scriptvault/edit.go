package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/filesystem"
	"github.com/vault-md/scriptvault/internal/script"
)

func newNewCmd(opts *globalOptions) *cobra.Command {
	var fields patchFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a script",
		Long:  "Create a blank script and select it. Flags fill in fields right away; --file - reads content from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, err := fields.patch(cmd)
			if err != nil {
				return err
			}

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			ctx := commandContext(cmd)
			item, err := app.Vault.Create(ctx)
			if err != nil {
				return err
			}
			if !patch.Empty() {
				item, err = app.Vault.Update(ctx, item.ID, patch)
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), item.ID)
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newEditCmd(opts *globalOptions) *cobra.Command {
	var fields patchFlags

	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Edit a script",
		Long:  "Edit a script's fields. Without flags the content is opened in $EDITOR.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := fields.patch(cmd)
			if err != nil {
				return err
			}

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

			if patch.Empty() {
				edited, err := editInEditor(item)
				if err != nil {
					return err
				}
				if filesystem.Fingerprint(edited) == filesystem.Fingerprint(item.Content) {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
					return nil
				}
				patch.Content = &edited
			}

			if _, err := app.Vault.Update(ctx, item.ID, patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Script updated")
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

type patchFlags struct {
	name        string
	description string
	language    string
	file        string
}

func (f *patchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "Language tag or label, e.g. python or C#")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read content from file, or - for stdin")
}

// patch builds a Patch from the flags the user actually set.
func (f *patchFlags) patch(cmd *cobra.Command) (script.Patch, error) {
	var patch script.Patch
	if cmd.Flags().Changed("name") {
		patch.Name = &f.name
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &f.description
	}
	if cmd.Flags().Changed("language") {
		lang, ok := script.ParseLanguage(f.language)
		if !ok {
			return script.Patch{}, fmt.Errorf("invalid language: %s", f.language)
		}
		patch.Language = &lang
	}
	if f.file != "" {
		content, err := readContent(cmd, f.file)
		if err != nil {
			return script.Patch{}, err
		}
		patch.Content = &content
	}
	return patch, nil
}

func readContent(cmd *cobra.Command, filePath string) (string, error) {
	if filePath != "-" {
		bytes, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Enter content (Ctrl-D when done):")
	}

	bytes, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// editInEditor round-trips content through $EDITOR using a temp file named
// after the script so editors pick the right syntax.
func editInEditor(item script.Item) (string, error) {
	tempDir, err := os.MkdirTemp("", "scriptvault-edit-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, script.FilenameFor(item))
	if err := os.WriteFile(tempFile, []byte(item.Content), 0600); err != nil {
		return "", err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, tempFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(tempFile)
	if err != nil {
		return "", err
	}
	return string(edited), nil
}
