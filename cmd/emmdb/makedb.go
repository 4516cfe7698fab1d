// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var makedbCmd = &cobra.Command{
	Use:   "makedb <fasta>",
	Short: "Build a BLAST database from an existing FASTA file",
	Long: `Makedb runs makeblastdb -in <fasta> -dbtype nucl -out <dir>/<db-name> on a
combined file from an earlier fetch. makeblastdb runs from PATH or, when it is
not installed, inside an ncbi/blast container (see --blast-runtime).`,
	Args: cobra.ExactArgs(1),
	RunE: runMakedb,
}

func init() {
	addBlastFlags(makedbCmd.Flags())
	rootCmd.AddCommand(makedbCmd)
}

func runMakedb(cmd *cobra.Command, args []string) error {
	cfg := blastConfig()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbOut, err := buildDatabase(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Debug("database ready", "path", dbOut)
	return nil
}
