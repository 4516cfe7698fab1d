// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/emmdb/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes every run manifest, newest first, to w.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	manifests, err := s.exportManifests(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(manifests); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every run manifest, newest first, to w.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	manifests, err := s.exportManifests(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(manifests, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportManifests(ctx context.Context) ([]types.RunManifest, error) {
	runs, err := s.Runs(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	manifests := make([]types.RunManifest, 0, len(runs))
	for _, r := range runs {
		m, err := s.Run(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}
