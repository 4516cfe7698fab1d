// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceDocument is the raw text of one downloaded sequence description file.
type SourceDocument struct {
	// Name is the file name as listed on the server (e.g. "emm1.sds").
	Name string

	// Lines holds the physical lines in file order, without terminators.
	Lines []string
}

// SequenceRecord is one FASTA record built from a SourceDocument.
type SequenceRecord struct {
	// ID is the upper-cased file stem (e.g. "EMM1").
	ID string `json:"id" yaml:"id"`

	// SourceFile is the original file name (e.g. "emm1.sds").
	SourceFile string `json:"source_file" yaml:"source_file"`

	// Tag is the provenance tag closing the header line.
	Tag string `json:"tag" yaml:"tag"`

	// Sequence is the concatenated, upper-cased nucleotide string.
	Sequence string `json:"sequence" yaml:"sequence"`
}

// Header returns the FASTA header line, including the leading '>'.
func (r SequenceRecord) Header() string {
	return ">" + r.ID + " " + r.SourceFile + " " + r.Tag
}

// RunManifest describes the artifacts of one fetch run. It is written as
// YAML next to the combined FASTA file.
type RunManifest struct {
	// ID uniquely identifies the run.
	ID string `json:"id" yaml:"id"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// SourceURL is the listing page the candidates came from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Destination is the local directory holding the artifacts.
	Destination string `json:"destination" yaml:"destination"`

	// CombinedFile is the name of the multi-FASTA file.
	CombinedFile string `json:"combined_file" yaml:"combined_file"`

	ProvenanceTag string `json:"provenance_tag" yaml:"provenance_tag"`

	Records []ManifestEntry `json:"records" yaml:"records"`
}

// ManifestEntry summarizes one converted file.
type ManifestEntry struct {
	ID         string `json:"id" yaml:"id"`
	SourceFile string `json:"source_file" yaml:"source_file"`
	FASTAFile  string `json:"fasta_file" yaml:"fasta_file"`
	Length     int    `json:"length" yaml:"length"`
}
