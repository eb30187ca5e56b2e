// Package main provides the puby CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/krystophny/puby/internal/env"
	"github.com/krystophny/puby/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

// verbose enables debug logging
var verbose bool

// log is the process logger, configured before any command runs.
var log zerolog.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "puby",
	Short: "Check publication lists against your reference library",
	Long: `puby compares publication lists from academic sources against a
Zotero reference library.

Sources:
  - ORCID (public API)
  - Google Scholar (profile pages)
  - Pure research portals

For each source puby reports publications missing from the library,
duplicate entries within the library, and near matches that need manual
review. Publication lists can also be exported as BibTeX.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env.Load()
		log = logging.New(os.Stderr, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}
