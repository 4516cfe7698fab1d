// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/emmdb/internal/fasta"
	"github.com/pdiddy/emmdb/internal/sds"
	"github.com/pdiddy/emmdb/pkg/types"
)

// ConvertFiles converts local description files without touching the
// network. Each FASTA file is written to outDir, or next to its source when
// outDir is empty. Conversion stops at the first failure.
func ConvertFiles(ex *sds.Extractor, paths []string, outDir, outExt string, w io.Writer) ([]types.SequenceRecord, error) {
	if outExt == "" {
		outExt = types.DefaultOutputExt
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", outDir, err)
		}
	}

	records := make([]types.SequenceRecord, 0, len(paths))
	for _, p := range paths {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(p)
		}
		rec, fastaName, err := convertFile(ex, p, dir, outExt)
		if err != nil {
			return records, fmt.Errorf("converting %s: %w", p, err)
		}
		fmt.Fprintf(w, "converted: %s -> %s\n", filepath.Base(p), fastaName)
		records = append(records, rec)
	}
	return records, nil
}

// convertFile extracts the record from the file at srcPath and writes its
// FASTA text to outDir/<stem><outExt>. It returns the record and the FASTA
// file name.
func convertFile(ex *sds.Extractor, srcPath, outDir, outExt string) (types.SequenceRecord, string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return types.SequenceRecord{}, "", fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	name := filepath.Base(srcPath)
	doc, err := sds.ReadDocument(name, f)
	if err != nil {
		return types.SequenceRecord{}, "", err
	}
	rec := ex.Extract(doc)

	fastaName := strings.TrimSuffix(name, filepath.Ext(name)) + outExt
	if err := fasta.WriteFile(filepath.Join(outDir, fastaName), fasta.Format(rec)); err != nil {
		return types.SequenceRecord{}, "", err
	}
	return rec, fastaName, nil
}
