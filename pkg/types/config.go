// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied when the corresponding setting is left empty.
const (
	DefaultExtension      = ".sds"
	DefaultOutputExt      = ".fasta"
	DefaultPrefix         = "emm"
	DefaultMaxFiles       = 5
	DefaultProvenanceTag  = "CDC_2024_TSEEM_EMM_DATABASE"
	DefaultCombinedPrefix = "cdc_emm_database"
	DefaultUserAgent      = "emmdb/0.1"
	DefaultTimeout        = 60 * time.Second
	DefaultBlastImage     = "ncbi/blast:latest"
	DefaultDBType         = "nucl"
)

// HTTPConfig holds shared HTTP settings used by the listing and download steps.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the number of retries on HTTP 429. Zero selects the
	// httputil default.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for listing, downloading, and converting
// sequence description files.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the scheme and host of the file server (e.g. "https://ftp.cdc.gov").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RemotePath is the directory on the server. It is appended to BaseURL
	// verbatim, so the caller controls the slashes.
	RemotePath string `json:"remote_path" yaml:"remote_path" mapstructure:"remote_path"`

	// LocalPath is the destination directory for every artifact of a run.
	LocalPath string `json:"local_path" yaml:"local_path" mapstructure:"local_path"`

	// Extension is the source file extension (default ".sds").
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// OutputExt is the extension of converted files (default ".fasta").
	OutputExt string `json:"output_ext" yaml:"output_ext" mapstructure:"output_ext"`

	// Prefix keeps only listed names starting with it (default "emm").
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// MaxFiles truncates the candidate set. Zero or negative disables the cap.
	MaxFiles int `json:"max_files" yaml:"max_files" mapstructure:"max_files"`

	// ProvenanceTag is appended to every FASTA header.
	ProvenanceTag string `json:"provenance_tag" yaml:"provenance_tag" mapstructure:"provenance_tag"`

	// CombinedPrefix names the dated multi-FASTA file (default "cdc_emm_database").
	CombinedPrefix string `json:"combined_prefix" yaml:"combined_prefix" mapstructure:"combined_prefix"`
}

// ListingURL returns the directory page location: BaseURL and RemotePath
// concatenated without normalization.
func (c FetchConfig) ListingURL() string {
	return c.BaseURL + c.RemotePath
}

// FileURL returns the download location of name inside the remote directory.
func (c FetchConfig) FileURL(name string) string {
	return strings.TrimSuffix(c.ListingURL(), "/") + "/" + name
}

// WithDefaults returns a copy of c with empty settings filled in. MaxFiles
// is left alone because zero is meaningful.
func (c FetchConfig) WithDefaults() FetchConfig {
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.OutputExt == "" {
		c.OutputExt = DefaultOutputExt
	}
	if c.ProvenanceTag == "" {
		c.ProvenanceTag = DefaultProvenanceTag
	}
	if c.CombinedPrefix == "" {
		c.CombinedPrefix = DefaultCombinedPrefix
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate reports the first missing required setting.
func (c FetchConfig) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("base URL is required")
	case c.RemotePath == "":
		return fmt.Errorf("remote path is required")
	case c.LocalPath == "":
		return fmt.Errorf("local path is required")
	}
	return nil
}

// BlastConfig holds settings for building a BLAST database from the
// combined FASTA file.
type BlastConfig struct {
	// Enabled requests a database build after the fetch.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DBName is the output database name, written next to the FASTA file.
	DBName string `json:"db_name" yaml:"db_name" mapstructure:"db_name"`

	// DBType is passed to makeblastdb -dbtype (default "nucl").
	DBType string `json:"db_type" yaml:"db_type" mapstructure:"db_type"`

	// Runtime selects how makeblastdb runs: auto, native, docker, or podman.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime"`

	// Image is the container image used by the docker and podman runtimes.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// Validate reports a missing database name when a build is requested.
func (c BlastConfig) Validate() error {
	if c.Enabled && c.DBName == "" {
		return fmt.Errorf("database name is required when make-blastdb is set")
	}
	return nil
}

// CatalogConfig holds settings for the SQLite run catalog.
type CatalogConfig struct {
	// Path is the database file. Empty disables cataloging of fetch runs.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default row limit for catalog queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
