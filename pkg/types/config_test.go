// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchConfigURLs(t *testing.T) {
	tests := []struct {
		name        string
		base, path  string
		wantListing string
		wantFile    string
	}{
		{
			name:        "path with leading and trailing slash",
			base:        "https://ftp.cdc.gov",
			path:        "/pub/infectious_diseases/biotech/tsemm/",
			wantListing: "https://ftp.cdc.gov/pub/infectious_diseases/biotech/tsemm/",
			wantFile:    "https://ftp.cdc.gov/pub/infectious_diseases/biotech/tsemm/emm1.sds",
		},
		{
			name:        "path without trailing slash",
			base:        "https://ftp.cdc.gov",
			path:        "/tsemm",
			wantListing: "https://ftp.cdc.gov/tsemm",
			wantFile:    "https://ftp.cdc.gov/tsemm/emm1.sds",
		},
		{
			name:        "listing is not normalized",
			base:        "https://ftp.cdc.gov/",
			path:        "/tsemm",
			wantListing: "https://ftp.cdc.gov//tsemm",
			wantFile:    "https://ftp.cdc.gov//tsemm/emm1.sds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FetchConfig{BaseURL: tt.base, RemotePath: tt.path}
			assert.Equal(t, tt.wantListing, cfg.ListingURL())
			assert.Equal(t, tt.wantFile, cfg.FileURL("emm1.sds"))
		})
	}
}

func TestFetchConfigValidate(t *testing.T) {
	full := FetchConfig{BaseURL: "https://x", RemotePath: "/p", LocalPath: "out"}
	require.NoError(t, full.Validate())

	noBase := full
	noBase.BaseURL = ""
	assert.ErrorContains(t, noBase.Validate(), "base URL")

	noRemote := full
	noRemote.RemotePath = ""
	assert.ErrorContains(t, noRemote.Validate(), "remote path")

	noLocal := full
	noLocal.LocalPath = ""
	assert.ErrorContains(t, noLocal.Validate(), "local path")
}

func TestFetchConfigWithDefaults(t *testing.T) {
	cfg := FetchConfig{MaxFiles: 0}.WithDefaults()
	assert.Equal(t, DefaultExtension, cfg.Extension)
	assert.Equal(t, DefaultOutputExt, cfg.OutputExt)
	assert.Equal(t, DefaultProvenanceTag, cfg.ProvenanceTag)
	assert.Equal(t, DefaultCombinedPrefix, cfg.CombinedPrefix)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxFiles, "zero cap must survive defaults")

	custom := FetchConfig{ProvenanceTag: "LAB_TAG"}.WithDefaults()
	assert.Equal(t, "LAB_TAG", custom.ProvenanceTag)
}

func TestBlastConfigValidate(t *testing.T) {
	assert.NoError(t, BlastConfig{}.Validate())
	assert.NoError(t, BlastConfig{Enabled: true, DBName: "emm"}.Validate())
	assert.ErrorContains(t, BlastConfig{Enabled: true}.Validate(), "database name is required")
}

func TestSequenceRecordHeader(t *testing.T) {
	r := SequenceRecord{ID: "EMM1", SourceFile: "emm1.sds", Tag: DefaultProvenanceTag}
	assert.Equal(t, ">EMM1 emm1.sds CDC_2024_TSEEM_EMM_DATABASE", r.Header())
}
