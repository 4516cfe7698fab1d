// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/emmdb/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the run catalog (runs, show, lookup, export)",
	Long: `Catalog reads the SQLite database that fetch --catalog writes. Use
subcommands to list runs, show one run, look up the stored sequences of an
emm type, or export every run.`,
}

// --- runs subcommand ---

var catalogRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List cataloged runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCatalogRuns,
}

func runCatalogRuns(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-7s  %s\n", "Run", "Created", "Records", "Combined file")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-7d  %s\n",
			r.ID, r.CreatedAt.Format(time.DateTime), r.Records, r.CombinedFile)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the manifest of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := store.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, m)
	}
	fmt.Fprintf(w, "Run:         %s\n", m.ID)
	fmt.Fprintf(w, "Created:     %s\n", m.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Source:      %s\n", m.SourceURL)
	fmt.Fprintf(w, "Destination: %s\n", m.Destination)
	fmt.Fprintf(w, "Combined:    %s\n", m.CombinedFile)
	fmt.Fprintf(w, "Tag:         %s\n\n", m.ProvenanceTag)
	for _, e := range m.Records {
		fmt.Fprintf(w, "  %-10s  %-16s  %-18s  %d bp\n", e.ID, e.SourceFile, e.FASTAFile, e.Length)
	}
	return nil
}

// --- lookup subcommand ---

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup <emm-id>",
	Short: "Print the stored sequences of an emm type as FASTA",
	Long: `Lookup finds every cataloged record for an emm type (for example EMM1 or
emm1) and prints them as FASTA, newest run first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogLookup,
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.Lookup(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return fmt.Errorf("no records for %s", args[0])
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, hits)
	}
	for _, h := range hits {
		logger.Debug("hit", "run", h.RunID, "created", h.RunCreatedAt, "file", h.FASTAFile)
		fmt.Fprintf(w, "%s\n%s\n", h.Header(), h.Sequence)
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every cataloged run to YAML or JSON on stdout",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout())
	case "json":
		return store.ExportJSON(cmd.Context(), cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	cfg := catalogConfig()
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path is required: set --catalog or catalog in the config file")
	}
	return catalog.Open(cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog", "", "SQLite catalog file")
	catalogCmd.PersistentFlags().Int("max-results", 20, "default number of rows returned")

	catalogRunsCmd.Flags().Int("limit", 0, "maximum runs (0 = use default)")
	catalogRunsCmd.Flags().Bool("json", false, "output as JSON")
	catalogShowCmd.Flags().Bool("json", false, "output as JSON")
	catalogLookupCmd.Flags().Int("limit", 0, "maximum records (0 = use default)")
	catalogLookupCmd.Flags().Bool("json", false, "output as JSON")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogRunsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogLookupCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
