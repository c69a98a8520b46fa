// =============================================================================
// localesheet - Import Command
// =============================================================================
//
// Defines the 'import' command: read the spreadsheet, diff it against the
// on-disk language files and write back only what changed.
//
// COMMAND USAGE:
//   localesheet import [flags]
//
// FLAGS:
//   --sheet    : Spreadsheet path to read (default from config)
//   --dry-run  : Report what would change without writing anything
//   --prune    : Delete keys that are absent from the spreadsheet
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// importSheet overrides the configured spreadsheet path.
var importSheet string

// importDryRun reports the diff without writing any language file.
var importDryRun bool

// importPrune applies deletions instead of only reporting them.
var importPrune bool

// importCmd represents the 'import' command.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply spreadsheet edits back to the language files",
	Long: `The import command reads the translation spreadsheet, compares it against
the existing language files and applies the differences.

Only keys whose spreadsheet value differs are rewritten; untouched keys keep
their original order and attached comments. New rows become new keys,
inserted next to their spreadsheet neighbors. Keys that exist on disk but
not in the spreadsheet are reported as deletion candidates and left alone
unless --prune is given.

Importing the same spreadsheet twice is a no-op the second time: the change
report comes back empty.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport()
	},
}

// init registers the import command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(
		&importSheet,
		"sheet",
		"",
		"Spreadsheet path to read (defaults to sheet_path from the config)",
	)

	importCmd.Flags().BoolVar(
		&importDryRun,
		"dry-run",
		false,
		"Report what would change without writing anything",
	)

	importCmd.Flags().BoolVar(
		&importPrune,
		"prune",
		false,
		"Delete keys that are absent from the spreadsheet",
	)
}

// runImport executes the import pipeline and prints the change summary.
func runImport() error {
	runner, cfg, err := newRunner()
	if err != nil {
		return err
	}

	prune := importPrune || cfg.ApplyDeletions
	summary, err := runner.Import(importSheet, prune, importDryRun)
	if err != nil {
		return err
	}
	report := summary.Report

	fmt.Println("=== Import Complete ===")
	for _, f := range summary.Files {
		stats := report.Stats[f.Language]
		fmt.Printf("  %-8s %s: %d added, %d updated, %d unchanged, %d deleted\n",
			f.Language, f.Path, stats.Added, stats.Updated, stats.Unchanged, stats.Deleted)
	}

	for _, c := range report.Changes {
		action := "update"
		if c.Added {
			action = "add"
		}
		fmt.Printf("  %s %s [%s]: %q -> %q\n",
			action, c.Path.String(cfg.Delimiter), c.Language, c.Old, c.New)
	}

	pending := 0
	for _, d := range report.Deletions {
		if d.Applied {
			fmt.Printf("  delete %s [%s] (was %q)\n",
				d.Path.String(cfg.Delimiter), d.Language, d.Value)
		} else {
			pending++
		}
	}
	if pending > 0 {
		fmt.Printf("%d key(s) exist on disk but not in the spreadsheet; rerun with --prune to delete them\n", pending)
	}

	if report.Empty() {
		fmt.Println("Nothing to do: language files already match the spreadsheet.")
	} else if summary.DryRun {
		fmt.Println("Dry run: no files were written.")
	}
	return nil
}
