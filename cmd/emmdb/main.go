// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the emmdb CLI. It downloads emm
// sequence description files, converts them to FASTA, assembles a dated
// multi-FASTA database, and optionally indexes it with makeblastdb.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the root PersistentPreRunE from --log-level.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "emmdb"})

// rootCmd is the base command for the emmdb CLI.
var rootCmd = &cobra.Command{
	Use:   "emmdb",
	Short: "Build an emm-typing FASTA database from CDC sequence files",
	Long: `emmdb downloads emm sequence description (.sds) files from a directory
listing, converts each one to a FASTA record, and writes a dated combined
multi-FASTA file suitable for BLAST. With --make-blastdb the combined file is
indexed with makeblastdb, natively or inside an ncbi/blast container.

Every flag can also be set in the config file or through an EMMDB_ environment
variable (for example EMMDB_BASE_URL).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		return configureLogger(viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./emmdb.yaml or ~/.config/emmdb/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("emmdb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "emmdb"))
		}
	}

	viper.SetEnvPrefix("EMMDB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds the running command's flags to viper keys, so a flag
// --base-url is read as base_url from flags, config, or EMMDB_BASE_URL.
// Binding happens per invocation because several commands share keys.
func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		err = viper.BindPFlag(configKey(f.Name), f)
	})
	return err
}

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func configureLogger(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", level)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
