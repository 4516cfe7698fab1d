// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fasta renders sequence records as FASTA text, writes FASTA files
// atomically, and reads them back.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/emmdb/pkg/types"
)

// Entry is a parsed FASTA record. Header excludes the leading '>'.
type Entry struct {
	Header   string
	Sequence string
}

// ID returns the first whitespace-delimited token of the header.
func (e Entry) ID() string {
	fields := strings.Fields(e.Header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Format returns the two-line text form of r: header, newline, sequence,
// newline. The sequence is not wrapped.
func Format(r types.SequenceRecord) string {
	return r.Header() + "\n" + r.Sequence + "\n"
}

// Concat joins the text forms of records in order, with no separator
// beyond each record's trailing newline.
func Concat(records []types.SequenceRecord) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(Format(r))
	}
	return b.String()
}

// WriteFile writes content to path through a temporary file in the same
// directory, renaming it into place on success. An existing file at path is
// replaced.
func WriteFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fasta-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := io.WriteString(tmp, content)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read parses FASTA records from r. Lines starting with '>' open a record;
// other lines are appended to the current sequence. Blank lines and text
// before the first header are ignored.
func Read(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		entries []Entry
		current *Entry
		seq     strings.Builder
	)
	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			entries = append(entries, *current)
			seq.Reset()
		}
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Entry{Header: line[1:]}
			continue
		}
		if current == nil {
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading FASTA: %w", err)
	}
	flush()
	return entries, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
