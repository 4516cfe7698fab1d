// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/emmdb/internal/blastdb"
	"github.com/pdiddy/emmdb/internal/listing"
	"github.com/pdiddy/emmdb/pkg/types"
)

// Viper keys. Flags map onto them by replacing '-' with '_'.
const (
	keyBaseURL      = "base_url"
	keyRemotePath   = "remote_path"
	keyLocalPath    = "local_path"
	keyExtension    = "extension"
	keyPrefix       = "prefix"
	keyMaxFiles     = "max_files"
	keyTag          = "tag"
	keyTimeout      = "timeout"
	keyUserAgent    = "user_agent"
	keyMaxRetries   = "max_retries"
	keyMakeBlastDB  = "make_blastdb"
	keyDBName       = "db_name"
	keyDBType       = "db_type"
	keyBlastRuntime = "blast_runtime"
	keyBlastImage   = "blast_image"
	keyCatalog      = "catalog"
	keyMaxResults   = "max_results"
)

// addSourceFlags registers the flags that locate and filter the remote
// directory listing.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "scheme and host of the file server (e.g. https://ftp.cdc.gov)")
	fs.String("remote-path", "", "directory on the server, appended to --base-url as given")
	fs.String("extension", types.DefaultExtension, "source file extension")
	fs.String("prefix", types.DefaultPrefix, "keep only file names starting with this prefix (empty keeps all)")
	fs.Int("max-files", types.DefaultMaxFiles, "maximum number of files to process (0 = no limit)")
	fs.Duration("timeout", types.DefaultTimeout, "HTTP request timeout")
	fs.String("user-agent", types.DefaultUserAgent, "User-Agent header for HTTP requests")
	fs.Int("max-retries", 0, "retries on HTTP 429 (0 = default)")
}

// addBlastFlags registers the makeblastdb settings.
func addBlastFlags(fs *pflag.FlagSet) {
	fs.String("db-name", "", "BLAST database name, placed next to the FASTA file when relative")
	fs.String("db-type", types.DefaultDBType, "makeblastdb -dbtype")
	fs.String("blast-runtime", blastdb.ModeAuto, "how to run makeblastdb: auto, native, docker, or podman")
	fs.String("blast-image", types.DefaultBlastImage, "container image for the docker and podman runtimes")
}

func fetchConfig() types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration(keyTimeout),
			UserAgent:  viper.GetString(keyUserAgent),
			MaxRetries: viper.GetInt(keyMaxRetries),
		},
		BaseURL:       viper.GetString(keyBaseURL),
		RemotePath:    viper.GetString(keyRemotePath),
		LocalPath:     viper.GetString(keyLocalPath),
		Extension:     viper.GetString(keyExtension),
		Prefix:        viper.GetString(keyPrefix),
		MaxFiles:      viper.GetInt(keyMaxFiles),
		ProvenanceTag: viper.GetString(keyTag),
	}
	return cfg.WithDefaults()
}

func blastConfig() types.BlastConfig {
	return types.BlastConfig{
		Enabled: viper.GetBool(keyMakeBlastDB),
		DBName:  viper.GetString(keyDBName),
		DBType:  viper.GetString(keyDBType),
		Runtime: viper.GetString(keyBlastRuntime),
		Image:   viper.GetString(keyBlastImage),
	}
}

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		Path:       viper.GetString(keyCatalog),
		MaxResults: viper.GetInt(keyMaxResults),
	}
}

func newHTTPClient(cfg types.FetchConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func newListingClient(client *http.Client, cfg types.FetchConfig) *listing.Client {
	return listing.New(client, listing.Options{
		Extension:  cfg.Extension,
		Prefix:     cfg.Prefix,
		MaxFiles:   cfg.MaxFiles,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	})
}
