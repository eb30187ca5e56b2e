package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krystophny/puby/internal/config"
	"github.com/krystophny/puby/internal/env"
	"github.com/krystophny/puby/internal/match"
	"github.com/krystophny/puby/internal/report"
	"github.com/krystophny/puby/internal/source"
	"github.com/krystophny/puby/internal/source/orcid"
	"github.com/krystophny/puby/internal/source/pure"
	"github.com/krystophny/puby/internal/source/scholar"
	"github.com/krystophny/puby/internal/source/zotero"
)

var checkFlags struct {
	orcidURL          string
	scholarURL        string
	pureURL           string
	zoteroLibraryID   string
	apiKey            string
	libraryType       string
	useMyPublications bool
	format            string
}

func init() {
	checkCmd.RunE = runCheck
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.orcidURL, "orcid", "", "ORCID profile URL or ID")
	checkCmd.Flags().StringVar(&checkFlags.scholarURL, "scholar", "", "Google Scholar profile URL or user ID")
	checkCmd.Flags().StringVar(&checkFlags.pureURL, "pure", "", "Pure portal profile URL")
	checkCmd.Flags().StringVar(&checkFlags.zoteroLibraryID, "zotero", "", "Zotero library ID (discovered from API key if omitted)")
	checkCmd.Flags().StringVar(&checkFlags.apiKey, "api-key", "", "Zotero API key (or set ZOTERO_API_KEY)")
	checkCmd.Flags().StringVar(&checkFlags.libraryType, "library-type", "user", "Zotero library type (user or group)")
	checkCmd.Flags().BoolVar(&checkFlags.useMyPublications, "my-publications", false, "Compare against the Zotero My Publications list")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", report.FormatTable, "Output format (table, json, csv, bibtex)")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare source publication lists against the Zotero library",
	Long: `Fetch publication lists from the configured sources and compare each
against the Zotero reference library. Reports publications missing from
the library, duplicate library entries, and near matches for review.`,
}

func runCheck(cmd *cobra.Command, args []string) error {
	sources, err := buildSources()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if len(sources) == 0 {
		exitWithError(ExitConfigError, "at least one source is required (--orcid, --scholar, or --pure)")
	}

	reference, err := buildZotero()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	reporter, err := report.New(os.Stdout, checkFlags.format)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	library, err := reference.Fetch(ctx)
	if err != nil {
		exitWithError(ExitDataError, "fetching Zotero library: %v", err)
	}
	log.Info().Int("count", len(library)).Msg("loaded reference library")

	matcher := match.NewMatcher()

	for _, src := range sources {
		publications, err := src.Fetch(ctx)
		if err != nil {
			exitWithError(ExitDataError, "fetching %s: %v", src.Name(), err)
		}

		missing := matcher.FindMissing(publications, library)
		if err := reporter.Missing(src.Name(), missing); err != nil {
			exitWithError(ExitError, "writing report: %v", err)
		}

		potential := matcher.FindPotentialMatches(publications, library)
		if err := reporter.PotentialMatches(potential); err != nil {
			exitWithError(ExitError, "writing report: %v", err)
		}
	}

	duplicates := matcher.FindDuplicates(library)
	if err := reporter.Duplicates(duplicates); err != nil {
		exitWithError(ExitError, "writing report: %v", err)
	}

	return nil
}

// buildSources validates source flags and constructs the configured sources.
// URL validation happens here, before any network traffic.
func buildSources() ([]source.Source, error) {
	var sources []source.Source

	if checkFlags.orcidURL != "" {
		src, err := orcid.New(checkFlags.orcidURL, log)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if checkFlags.scholarURL != "" {
		src, err := scholar.New(checkFlags.scholarURL, log)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if checkFlags.pureURL != "" {
		src, err := pure.New(checkFlags.pureURL, log)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// buildZotero assembles the Zotero configuration from flags, environment,
// and the global config file, in that order of precedence.
func buildZotero() (*zotero.Source, error) {
	apiKey := env.ZoteroAPIKey(checkFlags.apiKey)
	if apiKey == "" {
		apiKey = config.GetZoteroAPIKey()
	}

	libraryType := checkFlags.libraryType
	if libraryType == "" || libraryType == "user" {
		if configured := config.GetZoteroLibraryType(); configured != "" && !flagSet(checkCmd, "library-type") {
			libraryType = configured
		}
	}

	libraryID := checkFlags.zoteroLibraryID
	if libraryID == "" {
		libraryID = config.GetZoteroLibraryID()
	}

	return zotero.New(zotero.Config{
		APIKey:            strings.TrimSpace(apiKey),
		LibraryType:       libraryType,
		LibraryID:         libraryID,
		UseMyPublications: checkFlags.useMyPublications,
	}, log)
}

func flagSet(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name)
}
