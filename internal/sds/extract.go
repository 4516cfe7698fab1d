// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sds extracts nucleotide sequences from CDC sequence description
// (.sds) files.
//
// An .sds file is plain text. Sequence lines start with a numeric position
// counter followed by blocks of bases:
//
//	   1 ACGTACGTAC GTACGTACGT
//	  21 acgt-acgta
//
// Every other line (titles, primer notes, blank lines) is ignored.
package sds

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/emmdb/pkg/types"
)

// sequenceLine matches a position counter followed by bases, gaps, and
// whitespace up to the end of the line.
var sequenceLine = regexp.MustCompile(`^\s*\d+\s+[ACGTacgt\s-]+\s*$`)

// Extractor converts SourceDocuments into SequenceRecords. The provenance
// tag and source extension are fixed per Extractor.
type Extractor struct {
	tag string
	ext string
}

// NewExtractor returns an Extractor that closes every header with tag and
// strips ext from file names. Empty arguments select the defaults.
func NewExtractor(tag, ext string) *Extractor {
	if tag == "" {
		tag = types.DefaultProvenanceTag
	}
	if ext == "" {
		ext = types.DefaultExtension
	}
	return &Extractor{tag: tag, ext: ext}
}

// Tag returns the provenance tag written into headers.
func (e *Extractor) Tag() string { return e.tag }

// Extension returns the source extension stripped from file names.
func (e *Extractor) Extension() string { return e.ext }

// Extract builds the record for doc. A document without sequence lines
// yields an empty sequence; that is not an error.
func (e *Extractor) Extract(doc types.SourceDocument) types.SequenceRecord {
	var seq strings.Builder
	for _, line := range doc.Lines {
		if !IsSequenceLine(line) {
			continue
		}
		for _, frag := range strings.Fields(line)[1:] {
			seq.WriteString(frag)
		}
	}
	return types.SequenceRecord{
		ID:         e.Stem(doc.Name),
		SourceFile: doc.Name,
		Tag:        e.tag,
		Sequence:   strings.ToUpper(seq.String()),
	}
}

// Stem returns the upper-cased file name with the source extension removed.
func (e *Extractor) Stem(name string) string {
	return strings.ToUpper(strings.TrimSuffix(name, e.ext))
}

// IsSequenceLine reports whether line carries sequence data.
func IsSequenceLine(line string) bool {
	return sequenceLine.MatchString(line)
}

// ReadDocument splits r into lines and wraps them as a SourceDocument named
// name. LF and CRLF terminators are both dropped.
func ReadDocument(name string, r io.Reader) (types.SourceDocument, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	doc := types.SourceDocument{Name: name}
	for scanner.Scan() {
		doc.Lines = append(doc.Lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return types.SourceDocument{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return doc, nil
}
