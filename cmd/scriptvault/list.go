package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vault-md/scriptvault/internal/fssync"
	"github.com/vault-md/scriptvault/internal/script"
	"github.com/vault-md/scriptvault/internal/vault"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		language string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scripts in the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter script.Language
			if language != "" {
				lang, ok := script.ParseLanguage(language)
				if !ok {
					return fmt.Errorf("invalid language: %s", language)
				}
				filter = lang
			}

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			state, err := app.Vault.State(commandContext(cmd))
			if err != nil {
				return err
			}

			items := make([]script.Item, 0, len(state.Scripts))
			for _, item := range state.Scripts {
				if filter == "" || item.Language == filter {
					items = append(items, item)
				}
			}

			switch format {
			case "json":
				return outputJSON(cmd, listEntries(items, state))
			case "table":
				outputTable(cmd, items, state.SelectedID)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Only list scripts in this language")

	return cmd
}

type listOutputEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Language    string  `json:"language"`
	Filename    string  `json:"filename"`
	Updated     string  `json:"updated"`
	Description *string `json:"description,omitempty"`
	Synced      bool    `json:"synced"`
	Selected    bool    `json:"selected,omitempty"`
}

func listEntries(items []script.Item, state vault.State) []listOutputEntry {
	output := make([]listOutputEntry, 0, len(items))
	for _, item := range items {
		entry := listOutputEntry{
			ID:       item.ID,
			Name:     item.Name,
			Language: string(item.Language),
			Filename: displayFilename(item),
			Updated:  fssync.FormatInstant(item.UpdatedAt),
			Synced:   item.Synced(),
			Selected: item.ID == state.SelectedID,
		}
		if item.Description != "" {
			description := item.Description
			entry.Description = &description
		}
		output = append(output, entry)
	}
	return output
}

// displayFilename is the file the item lives in, or would be written to.
func displayFilename(item script.Item) string {
	if item.FilePath != "" {
		return item.FilePath
	}
	return script.FilenameFor(item)
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// wrapString wraps a string to fit within maxWidth, accounting for multi-byte characters
func wrapString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range s {
		charWidth := runewidth.RuneWidth(r)
		if currentWidth+charWidth > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}
		currentLine.WriteRune(r)
		currentWidth += charWidth
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// shortIDLen is how much of an id the table shows.
const shortIDLen = 8

// columnWidths holds the calculated widths for each column
type columnWidths struct {
	name         int
	filename     int
	language     int
	updated      int
	useShortDate bool
	description  int
}

// calculateColumnWidths gives Name and Filename the room they need and
// leaves the rest to Description.
func calculateColumnWidths(termWidth int, items []script.Item) columnWidths {
	const numColumns = 6

	borderPadding := numColumns * 3
	availableWidth := termWidth - borderPadding

	maxNameWidth := 0
	maxFileWidth := 0
	maxLangWidth := len("Language")
	for _, item := range items {
		maxNameWidth = max(maxNameWidth, runewidth.StringWidth(item.Name))
		maxFileWidth = max(maxFileWidth, runewidth.StringWidth(displayFilename(item)))
		maxLangWidth = max(maxLangWidth, runewidth.StringWidth(item.Language.Label()))
	}

	nameWidth := min(max(maxNameWidth, 10), 40)
	fileWidth := min(max(maxFileWidth, 10), 40)

	updatedWidth := 16 // "2006-01-02 15:04"
	descWidth := availableWidth - shortIDLen - nameWidth - maxLangWidth - fileWidth - updatedWidth

	useShortDate := false
	if descWidth < 20 {
		updatedWidth = 11 // "01-02 15:04"
		useShortDate = true
		descWidth = availableWidth - shortIDLen - nameWidth - maxLangWidth - fileWidth - updatedWidth
	}
	if descWidth < 15 {
		descWidth = 15
	}

	return columnWidths{
		name:         nameWidth,
		filename:     fileWidth,
		language:     maxLangWidth,
		updated:      updatedWidth,
		useShortDate: useShortDate,
		description:  descWidth,
	}
}

func outputTable(cmd *cobra.Command, items []script.Item, selectedID string) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	widths := calculateColumnWidths(getTerminalWidth(), items)

	// Content is wrapped by hand; go-pretty's WidthMax miscounts wide runes.
	t.AppendHeader(table.Row{"ID", "Name", "Language", "Filename", "Updated", "Description"})

	for _, item := range items {
		layout := "2006-01-02 15:04"
		if widths.useShortDate {
			layout = "01-02 15:04"
		}
		updated := item.UpdatedAt.Local().Format(layout)

		id := item.ID
		if runewidth.StringWidth(id) > shortIDLen {
			id = runewidth.Truncate(id, shortIDLen, "")
		}
		name := wrapString(item.Name, widths.name)
		if item.ID == selectedID {
			name = "* " + name
		}
		filename := displayFilename(item)
		if !item.Synced() {
			filename += " (unsaved)"
		}

		t.AppendRow(table.Row{
			id,
			name,
			item.Language.Label(),
			wrapString(filename, widths.filename),
			updated,
			runewidth.Truncate(item.Description, widths.description, "..."),
		})
	}

	t.Render()
}
