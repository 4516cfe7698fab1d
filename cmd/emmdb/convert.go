// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/emmdb/internal/fasta"
	"github.com/pdiddy/emmdb/internal/fetch"
	"github.com/pdiddy/emmdb/internal/sds"
	"github.com/pdiddy/emmdb/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local .sds files to FASTA",
	Long: `Convert extracts the sequence from each local description file and writes
<name>.fasta to --out-dir, or next to the source when --out-dir is empty.
With --combined the records are also concatenated into one file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out-dir", "", "directory for FASTA output (default: next to each source)")
	convertCmd.Flags().String("tag", types.DefaultProvenanceTag, "provenance tag appended to every FASTA header")
	convertCmd.Flags().String("extension", types.DefaultExtension, "source file extension stripped from record IDs")
	convertCmd.Flags().String("combined", "", "also write all records to this multi-FASTA file")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	combined, _ := cmd.Flags().GetString("combined")
	cfg := fetchConfig()

	ex := sds.NewExtractor(cfg.ProvenanceTag, cfg.Extension)
	records, err := fetch.ConvertFiles(ex, args, outDir, cfg.OutputExt, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if combined != "" {
		if err := fasta.WriteFile(combined, fasta.Concat(records)); err != nil {
			return fmt.Errorf("writing combined file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote: %s (%d records)\n", filepath.Base(combined), len(records))
	}
	return nil
}
