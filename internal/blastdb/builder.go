// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blastdb builds a BLAST nucleotide database from the combined
// FASTA file with makeblastdb, either from PATH or inside a container.
package blastdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/emmdb/internal/fasta"
)

var (
	// ErrIndexerUnavailable means the indexer cannot be invoked at all.
	ErrIndexerUnavailable = errors.New("indexer unavailable")

	// ErrIndexFailed means the indexer ran and reported failure.
	ErrIndexFailed = errors.New("creating BLAST database")

	// ErrEmptyInput means the FASTA file holds no records.
	ErrEmptyInput = errors.New("no FASTA records")
)

// IndexError carries the indexer output of a failed build.
type IndexError struct {
	Indexer     string
	Diagnostics string
	Err         error
}

func (e *IndexError) Error() string {
	msg := fmt.Sprintf("%v with %s: %v", ErrIndexFailed, e.Indexer, e.Err)
	if d := strings.TrimSpace(e.Diagnostics); d != "" {
		msg += "\n" + d
	}
	return msg
}

func (e *IndexError) Unwrap() []error { return []error{ErrIndexFailed, e.Err} }

// Builder validates the input and drives an Indexer once. It never retries.
type Builder struct {
	Indexer Indexer
	Out     io.Writer
}

// Build indexes fastaPath into a database named dbName. A relative dbName
// is placed next to the FASTA file. It returns the database path.
func (b *Builder) Build(ctx context.Context, fastaPath, dbName string) (string, error) {
	if dbName == "" {
		return "", fmt.Errorf("database name is required")
	}
	entries, err := fasta.ReadFile(fastaPath)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w in %s", ErrEmptyInput, fastaPath)
	}

	if err := b.Indexer.Check(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIndexerUnavailable, err)
	}

	dbOut := dbName
	if !filepath.IsAbs(dbOut) {
		dbOut = filepath.Join(filepath.Dir(fastaPath), dbName)
	}

	fmt.Fprintf(b.Out, "indexing: %s (%d records) with %s\n", filepath.Base(fastaPath), len(entries), b.Indexer.Name())
	diag, err := b.Indexer.Index(ctx, fastaPath, dbOut)
	if err != nil {
		return "", &IndexError{Indexer: b.Indexer.Name(), Diagnostics: diag, Err: err}
	}
	fmt.Fprintf(b.Out, "Database created successfully: %s\n", dbOut)
	return dbOut, nil
}
