package cli

import (
	"fmt"
	"strconv"

	"github.com/example/flashcards/internal/excel"
	"github.com/spf13/cobra"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	config := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import cards from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.FilePath = args[0]
			return ctx.withApp(func(a *app) error {
				result, err := a.importer().Import(cmd.Context(), config)
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Rows processed", strconv.Itoa(result.TotalProcessed)},
					{"Cards created", strconv.Itoa(result.Created)},
					{"Cards updated", strconv.Itoa(result.Updated)},
					{"Rows skipped", strconv.Itoa(result.Skipped)},
					{"Playlists created", strconv.Itoa(result.PlaylistsCreated)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Import", "Count"}, rows, []columnAlignment{alignLeft, alignRight}, ""))
				for _, msg := range result.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.SheetName, "sheet", config.SheetName, "Sheet to read from an Excel file")
	flags.IntVar(&config.StartRow, "start-row", config.StartRow, "First row to import (1-based)")
	flags.StringVar(&config.WordColumn, "word-column", config.WordColumn, "Column holding the word")
	flags.StringVar(&config.POSColumn, "pos-column", config.POSColumn, "Column holding the part of speech")
	flags.StringVar(&config.DefinitionColumn, "definition-column", config.DefinitionColumn, "Column holding the definition")
	flags.StringVar(&config.ExampleColumn, "example-column", config.ExampleColumn, "Column holding an example sentence")
	flags.StringVar(&config.PlaylistColumn, "playlist-column", config.PlaylistColumn, "Column holding the playlist name")
	return cmd
}
