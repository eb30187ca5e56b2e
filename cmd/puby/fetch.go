package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krystophny/puby/internal/export"
	"github.com/krystophny/puby/internal/source/orcid"
)

var fetchFlags struct {
	orcidURL string
	output   string
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFlags.orcidURL, "orcid", "", "ORCID profile URL or ID (required)")
	fetchCmd.Flags().StringVarP(&fetchFlags.output, "output", "o", "publications.bib", "Output BibTeX file")
	_ = fetchCmd.MarkFlagRequired("orcid")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch an ORCID publication list and export it as BibTeX",
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Validate the output path before spending time on network calls.
	if err := checkWritable(fetchFlags.output); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	src, err := orcid.New(fetchFlags.orcidURL, log)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	publications, err := src.Fetch(ctx)
	if err != nil {
		exitWithError(ExitDataError, "fetching ORCID publications: %v", err)
	}
	if len(publications) == 0 {
		exitWithError(ExitDataError, "no publications found for %s", src.ID())
	}

	content := export.ToBibTeXList(publications)
	if err := os.WriteFile(fetchFlags.output, []byte(content), 0o644); err != nil {
		exitWithError(ExitError, "writing %s: %v", fetchFlags.output, err)
	}

	fmt.Printf("Wrote %d publication(s) to %s\n", len(publications), fetchFlags.output)
	return nil
}

// checkWritable verifies the output location can be written: the parent
// directory must exist and an existing file must not be a directory.
func checkWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	return nil
}
