// =============================================================================
// localesheet - Validate Command
// =============================================================================
//
// Defines the 'validate' command: parse the configuration, the spreadsheet
// (when present) and every language file, report every failure found, and
// write nothing. Exits non-zero if anything is broken.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse configuration, spreadsheet and language files without writing",
	Long: `The validate command loads the configuration and parses the spreadsheet and
every language file, collecting every failure instead of stopping at the
first. Nothing is written. Use it in CI to catch a broken language file or a
malformed sheet before it reaches an export or import.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// init registers the validate command with the root command.
func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate executes the validation pass.
func runValidate() error {
	runner, cfg, err := newRunner()
	if err != nil {
		return err
	}

	if err := runner.Validate(); err != nil {
		return err
	}

	fmt.Printf("Configuration, spreadsheet and %d language file(s) are valid.\n", len(cfg.Languages))
	return nil
}
