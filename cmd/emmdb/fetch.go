// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/emmdb/internal/blastdb"
	"github.com/pdiddy/emmdb/internal/catalog"
	"github.com/pdiddy/emmdb/internal/fetch"
	"github.com/pdiddy/emmdb/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download .sds files and build the combined FASTA database",
	Long: `Fetch reads the directory listing at --base-url + --remote-path, keeps the
links ending in --extension whose names start with --prefix, and processes at
most --max-files of them in page order. Each file is downloaded to
--local-path, converted to a single-record FASTA file, and appended to the
combined file cdc_emm_databaseDDMMYYYY.fasta. A run manifest is written next
to it.

With --make-blastdb the combined file is indexed as --db-name. The database
name is checked before anything is downloaded. With --catalog the run is
recorded in a SQLite catalog.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	addSourceFlags(fetchCmd.Flags())
	addBlastFlags(fetchCmd.Flags())
	fetchCmd.Flags().String("local-path", "", "destination directory for downloaded and converted files")
	fetchCmd.Flags().String("tag", types.DefaultProvenanceTag, "provenance tag appended to every FASTA header")
	fetchCmd.Flags().Bool("make-blastdb", false, "index the combined file with makeblastdb")
	fetchCmd.Flags().String("catalog", "", "SQLite catalog file to record the run in (empty = disabled)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	bcfg := blastConfig()
	if err := bcfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	client := newHTTPClient(cfg)

	logger.Info("listing", "url", cfg.ListingURL())
	names, err := newListingClient(client, cfg).List(ctx, cfg.ListingURL())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logger.Warn("no matching files in listing", "extension", cfg.Extension, "prefix", cfg.Prefix)
	}
	logger.Debug("candidates", "files", names)

	res, err := fetch.New(client, cfg, out).Process(ctx, names)
	if err != nil {
		return err
	}
	for _, r := range res.Records {
		logger.Debug("record", "header", r.Header(), "length", len(r.Sequence))
	}
	logger.Info("combined FASTA written", "path", res.CombinedPath, "records", len(res.Records), "run", res.RunID)

	if ccfg := catalogConfig(); ccfg.Path != "" {
		if err := recordRun(ctx, ccfg, res); err != nil {
			return err
		}
		logger.Info("run cataloged", "catalog", ccfg.Path, "run", res.RunID)
	}

	if bcfg.Enabled {
		if _, err := buildDatabase(ctx, bcfg, res.CombinedPath, out); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(ctx context.Context, cfg types.CatalogConfig, res fetch.Result) error {
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordRun(ctx, res.Manifest, res.Records); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// buildDatabase selects an indexer for cfg and builds the database from
// fastaPath. It returns the database path.
func buildDatabase(ctx context.Context, cfg types.BlastConfig, fastaPath string, out io.Writer) (string, error) {
	idx, err := blastdb.Select(ctx, cfg)
	if err != nil {
		return "", err
	}
	logger.Info("building BLAST database", "indexer", idx.Name(), "name", cfg.DBName)

	b := &blastdb.Builder{Indexer: idx, Out: out}
	return b.Build(ctx, fastaPath, cfg.DBName)
}
