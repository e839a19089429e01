// Package cli implements the changelogd command line interface.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/changelogd/internal/config"
	cerrors "github.com/raveheart1/changelogd/internal/errors"
	"github.com/raveheart1/changelogd/internal/gitlog"
)

var (
	configFlag string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "changelogd",
	Short: "Changelog derivation and exposure service",
	Long: `changelogd derives a structured changelog from git commit history.

Commit subjects are classified against the Conventional Commits grammar
(type(scope): subject), grouped by type under release sections, and exposed
as markdown, JSON, YAML, HTML, or through read-only HTTP endpoints.

Commands:
  serve      Run the HTTP server (GET /api/v1/changelog, /changelog/html)
  generate   Write CHANGELOG.md and version.json from the repository history
  version    Show the version info derived from repository tags`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute runs the root command and prints any resulting error.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		// Message already printed at the failure site.
		return err
	}

	var cliErr *cerrors.CLIError
	if errors.As(err, &cliErr) {
		cerrors.PrintError(cliErr)
		return NewExitError(exitCodeFor(cliErr.Category))
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}

// exitCodeFor maps error categories to CLI exit codes.
func exitCodeFor(category cerrors.ErrorCategory) int {
	switch category {
	case cerrors.Argument:
		return ExitInvalidArguments
	case cerrors.Configuration:
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// loadConfig loads the configuration and applies global flags.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	if debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		logger := log.New(os.Stderr, "", log.LstdFlags)
		gitlog.SetDebugLogger(logger.Printf)
	}

	return cfg, nil
}
