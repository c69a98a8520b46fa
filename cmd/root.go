// =============================================================================
// localesheet - Root Command
// =============================================================================
//
// Defines the root Cobra command and the pieces every subcommand shares:
// global flags, environment bootstrap and logger construction.
//
// COBRA CLI STRUCTURE:
//   rootCmd (localesheet)
//   ├── exportCmd   (localesheet export)
//   ├── importCmd   (localesheet import)
//   ├── validateCmd (localesheet validate)
//   └── versionCmd  (localesheet version)
//
// CONFIGURATION PRECEDENCE:
//   command-line flags > LOCALESHEET_* environment variables (optionally
//   from a .env file) > localesheet.yaml > built-in defaults.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/localesheet/localesheet/internal/config"
	"github.com/localesheet/localesheet/internal/converter"
)

// =============================================================================
// GLOBAL FLAGS AND LOGGER
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag or LOCALESHEET_CONFIG.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// log is the application logger, shared by all commands.
var log = logrus.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "localesheet",
	Short: "localesheet - Sync translation resource files with a spreadsheet",
	Long: `localesheet converts multilingual translation resources between structured
source files (JSON or JS module exports) and spreadsheet form, and back.

Translators edit one spreadsheet; localesheet keeps the source-controlled
language files in sync with it, preserving key order and source comments and
rewriting only values that actually changed.

Example Usage:
  localesheet export                      # Merge language files into the sheet
  localesheet import                      # Apply sheet edits to language files
  localesheet import --dry-run            # Show what an import would change
  localesheet validate                    # Parse everything, write nothing`,

	// Using the bare command prints the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	// Subcommands report their own failures; the usage text would only
	// bury the error list.
	SilenceUsage: true,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags and the configuration bootstrap.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"localesheet.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cobra.OnInitialize(initConfig)
}

// initConfig wires up the environment: a .env file if one exists, then
// LOCALESHEET_* variables via Viper. Flags still win over the environment.
func initConfig() {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	viper.SetEnvPrefix("localesheet")
	viper.AutomaticEnv()

	if !rootCmd.PersistentFlags().Changed("config") {
		if env := viper.GetString("config"); env != "" {
			cfgFile = env
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// =============================================================================
// SHARED COMMAND SETUP
// =============================================================================

// newRunner loads the configuration, finishes logger setup and builds the
// converter runner. Every subcommand that touches files goes through here.
func newRunner() (*converter.Runner, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	levelName := cfg.LogLevel
	if env := viper.GetString("log_level"); env != "" {
		levelName = env
	}
	if verbose {
		levelName = "debug"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	log.SetLevel(level)

	runner, err := converter.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return runner, cfg, nil
}
