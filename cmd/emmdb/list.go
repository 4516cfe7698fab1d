// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the files fetch would process",
	Long: `List reads the directory listing and prints the candidate file names in
page order, after the extension, prefix, and --max-files filters. Nothing is
downloaded.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addSourceFlags(listCmd.Flags())
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	if cfg.BaseURL == "" || cfg.RemotePath == "" {
		return fmt.Errorf("--base-url and --remote-path are required")
	}

	names, err := newListingClient(newHTTPClient(cfg), cfg).List(cmd.Context(), cfg.ListingURL())
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	logger.Debug("listed", "url", cfg.ListingURL(), "files", len(names))
	return nil
}
