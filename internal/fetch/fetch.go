// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads sequence description files, converts each to a
// FASTA record, and assembles the dated multi-FASTA database file.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/emmdb/internal/fasta"
	"github.com/pdiddy/emmdb/internal/httputil"
	"github.com/pdiddy/emmdb/internal/sds"
	"github.com/pdiddy/emmdb/pkg/types"
)

// dateLayout renders the run date as DDMMYYYY.
const dateLayout = "02012006"

// Result describes the artifacts of a completed run.
type Result struct {
	RunID        string
	CombinedName string
	CombinedPath string
	ManifestPath string

	// Records holds one record per processed file, in input order.
	Records  []types.SequenceRecord
	Manifest types.RunManifest
}

// Fetcher runs the download and conversion loop for one destination.
type Fetcher struct {
	client    *http.Client
	cfg       types.FetchConfig
	extractor *sds.Extractor
	w         io.Writer

	// Now supplies the run date. Tests pin it.
	Now func() time.Time

	// NewID supplies the run identifier.
	NewID func() string
}

// New returns a Fetcher downloading with client into cfg.LocalPath and
// writing progress lines to w.
func New(client *http.Client, cfg types.FetchConfig, w io.Writer) *Fetcher {
	cfg = cfg.WithDefaults()
	return &Fetcher{
		client:    client,
		cfg:       cfg,
		extractor: sds.NewExtractor(cfg.ProvenanceTag, cfg.Extension),
		w:         w,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Process downloads and converts names strictly in order, then writes the
// combined FASTA file and the run manifest. The first failure aborts the
// run; files written before it are left in place.
func (f *Fetcher) Process(ctx context.Context, names []string) (Result, error) {
	dest := f.cfg.LocalPath
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating directory %s: %w", dest, err)
	}

	records := make([]types.SequenceRecord, 0, len(names))
	entries := make([]types.ManifestEntry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		fmt.Fprintf(f.w, "processing: %s\n", name)

		rec, fastaName, err := f.processFile(ctx, name)
		if err != nil {
			return Result{}, fmt.Errorf("processing %s: %w", name, err)
		}
		records = append(records, rec)
		entries = append(entries, types.ManifestEntry{
			ID:         rec.ID,
			SourceFile: rec.SourceFile,
			FASTAFile:  fastaName,
			Length:     len(rec.Sequence),
		})
	}

	now := f.Now()
	combinedName := CombinedName(f.cfg.CombinedPrefix, f.cfg.OutputExt, now)
	combinedPath := filepath.Join(dest, combinedName)
	if err := fasta.WriteFile(combinedPath, fasta.Concat(records)); err != nil {
		return Result{}, fmt.Errorf("writing combined file: %w", err)
	}
	fmt.Fprintf(f.w, "wrote: %s (%d records)\n", combinedName, len(records))

	manifest := types.RunManifest{
		ID:            f.NewID(),
		CreatedAt:     now.UTC(),
		SourceURL:     f.cfg.ListingURL(),
		Destination:   dest,
		CombinedFile:  combinedName,
		ProvenanceTag: f.extractor.Tag(),
		Records:       entries,
	}
	manifestPath := filepath.Join(dest, strings.TrimSuffix(combinedName, f.cfg.OutputExt)+".yaml")
	if err := writeManifest(&manifest, manifestPath); err != nil {
		return Result{}, fmt.Errorf("writing manifest: %w", err)
	}

	return Result{
		RunID:        manifest.ID,
		CombinedName: combinedName,
		CombinedPath: combinedPath,
		ManifestPath: manifestPath,
		Records:      records,
		Manifest:     manifest,
	}, nil
}

// processFile downloads name into the destination, converts the local copy,
// and returns the record with the name of its FASTA file.
func (f *Fetcher) processFile(ctx context.Context, name string) (types.SequenceRecord, string, error) {
	if name == "" || filepath.Base(name) != name {
		return types.SequenceRecord{}, "", fmt.Errorf("invalid file name %q", name)
	}
	localPath := filepath.Join(f.cfg.LocalPath, name)
	if err := f.download(ctx, f.cfg.FileURL(name), localPath); err != nil {
		return types.SequenceRecord{}, "", fmt.Errorf("downloading: %w", err)
	}
	return convertFile(f.extractor, localPath, f.cfg.LocalPath, f.cfg.OutputExt)
}

// download fetches url to destPath using a temporary file, so an
// interrupted transfer never leaves a truncated copy under the final name.
func (f *Fetcher) download(ctx context.Context, url, destPath string) error {
	resp, err := httputil.Get(ctx, f.client, url, f.cfg.UserAgent, f.cfg.MaxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CombinedName returns prefix + DDMMYYYY of t + ext.
func CombinedName(prefix, ext string, t time.Time) string {
	return prefix + t.Format(dateLayout) + ext
}

func writeManifest(m *types.RunManifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a run manifest written by Process.
func ReadManifest(path string) (*types.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m types.RunManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
