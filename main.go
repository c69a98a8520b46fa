// =============================================================================
// localesheet - Main Entry Point
// =============================================================================
//
// localesheet keeps source-controlled translation resource files (JSON or JS
// module exports) in sync with a spreadsheet that translators edit.
//
// USAGE:
//   localesheet export    - Merge all language files into one spreadsheet
//   localesheet import    - Apply spreadsheet edits back to the language files
//   localesheet validate  - Parse everything and report problems, write nothing
//   localesheet version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/localesheet/localesheet/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
