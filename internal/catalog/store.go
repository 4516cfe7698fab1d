// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records fetch runs and their sequence records in a SQLite
// database so earlier databases can be listed, inspected, and exported.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/emmdb/pkg/types"
)

const defaultMaxResults = 20

// ErrRunNotFound is returned when a run ID is not in the catalog.
var ErrRunNotFound = errors.New("run not found")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the catalog database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source_url TEXT,
			destination TEXT,
			combined_file TEXT,
			provenance_tag TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			emm_id TEXT NOT NULL,
			source_file TEXT NOT NULL,
			fasta_file TEXT,
			tag TEXT,
			sequence TEXT NOT NULL,
			UNIQUE(run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_emm_id ON records(emm_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores the manifest and its records. Recording the same run
// again replaces its records.
func (s *Store) RecordRun(ctx context.Context, m types.RunManifest, records []types.SequenceRecord) error {
	if m.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source_url, destination, combined_file, provenance_tag)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			created_at=excluded.created_at, source_url=excluded.source_url,
			destination=excluded.destination, combined_file=excluded.combined_file,
			provenance_tag=excluded.provenance_tag`,
		m.ID, m.CreatedAt.UTC().Format(time.RFC3339Nano), m.SourceURL,
		m.Destination, m.CombinedFile, m.ProvenanceTag,
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE run_id = ?`, m.ID); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, position, emm_id, source_file, fasta_file, tag, sequence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	fastaFiles := make(map[string]string, len(m.Records))
	for _, e := range m.Records {
		fastaFiles[e.SourceFile] = e.FASTAFile
	}

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			m.ID, i, r.ID, r.SourceFile, fastaFiles[r.SourceFile], r.Tag, r.Sequence,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string    `json:"id" yaml:"id"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	CombinedFile string    `json:"combined_file" yaml:"combined_file"`
	Destination  string    `json:"destination" yaml:"destination"`
	Records      int       `json:"records" yaml:"records"`
}

// Runs lists runs newest first. A limit of zero uses the store default.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.combined_file, r.destination, count(rec.rowid)
		 FROM runs r
		 LEFT JOIN records rec ON rec.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.created_at DESC, r.id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs      RunSummary
			created string
		)
		if err := rows.Scan(&rs.ID, &created, &rs.CombinedFile, &rs.Destination, &rs.Records); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rs.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Run returns the manifest of one run with its records in combined-file
// order.
func (s *Store) Run(ctx context.Context, id string) (types.RunManifest, error) {
	var (
		m       types.RunManifest
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source_url, destination, combined_file, provenance_tag
		 FROM runs WHERE id = ?`, id,
	).Scan(&m.ID, &created, &m.SourceURL, &m.Destination, &m.CombinedFile, &m.ProvenanceTag)
	if errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return m, fmt.Errorf("querying run %s: %w", id, err)
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	rows, err := s.db.QueryContext(ctx,
		`SELECT emm_id, source_file, fasta_file, length(sequence)
		 FROM records WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return m, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	m.Records = []types.ManifestEntry{}
	for rows.Next() {
		var (
			e         types.ManifestEntry
			fastaFile sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SourceFile, &fastaFile, &e.Length); err != nil {
			return m, fmt.Errorf("scanning row: %w", err)
		}
		e.FASTAFile = fastaFile.String
		m.Records = append(m.Records, e)
	}
	return m, rows.Err()
}

// Hit is a stored record with the run it belongs to.
type Hit struct {
	types.SequenceRecord `yaml:",inline"`
	RunID                string    `json:"run_id" yaml:"run_id"`
	RunCreatedAt         time.Time `json:"run_created_at" yaml:"run_created_at"`
	FASTAFile            string    `json:"fasta_file" yaml:"fasta_file"`
}

// Lookup returns every stored record for an emm type, newest run first.
// The match is case-insensitive on the record ID ("emm1" finds "EMM1").
func (s *Store) Lookup(ctx context.Context, emmID string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT rec.emm_id, rec.source_file, rec.tag, rec.sequence, rec.fasta_file,
			r.id, r.created_at
		 FROM records rec
		 JOIN runs r ON r.id = rec.run_id
		 WHERE rec.emm_id = ?
		 ORDER BY r.created_at DESC, r.id
		 LIMIT ?`, strings.ToUpper(emmID), limit)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h         Hit
			tag       sql.NullString
			fastaFile sql.NullString
			created   string
		)
		if err := rows.Scan(&h.ID, &h.SourceFile, &tag, &h.Sequence, &fastaFile, &h.RunID, &created); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		h.Tag = tag.String
		h.FASTAFile = fastaFile.String
		h.RunCreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
