// =============================================================================
// localesheet - Export Command
// =============================================================================
//
// Defines the 'export' command: parse all configured language files, merge
// them into one spreadsheet document and write it.
//
// COMMAND USAGE:
//   localesheet export [flags]
//
// FLAGS:
//   --out      : Spreadsheet path to write (default from config)
//   --dry-run  : Build the document but write nothing
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exportOut overrides the configured spreadsheet path.
var exportOut string

// exportDryRun simulates the export without writing the spreadsheet.
var exportDryRun bool

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Merge all language files into one spreadsheet",
	Long: `The export command parses every configured language file, merges them into
a single spreadsheet document and writes it as an XLSX file.

Row order follows the baseline language's key order; keys that exist only in
other languages are appended after it. A language without a file on disk
produces an empty column instead of failing, so missing translations stay
visible to the translator.

The whole batch is parsed before the spreadsheet is written: if any input
file is broken, every failure is reported and nothing is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

// init registers the export command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(
		&exportOut,
		"out",
		"",
		"Spreadsheet path to write (defaults to sheet_path from the config)",
	)

	exportCmd.Flags().BoolVar(
		&exportDryRun,
		"dry-run",
		false,
		"Build the spreadsheet document without writing it",
	)
}

// runExport executes the export pipeline and prints the summary.
func runExport() error {
	runner, _, err := newRunner()
	if err != nil {
		return err
	}

	summary, err := runner.Export(exportOut, exportDryRun)
	if err != nil {
		return err
	}

	fmt.Println("=== Export Complete ===")
	for _, f := range summary.Files {
		switch {
		case f.Missing:
			fmt.Printf("  - %-8s %s (missing, empty column)\n", f.Language, f.Path)
		default:
			fmt.Printf("  ✓ %-8s %s (%d keys)\n", f.Language, f.Path, f.Keys)
		}
	}
	if summary.DryRun {
		fmt.Printf("Dry run: %d row(s) would be written to %s\n", summary.Rows, summary.SheetPath)
	} else {
		fmt.Printf("Wrote %d row(s) to %s\n", summary.Rows, summary.SheetPath)
	}
	return nil
}
