// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes consensus snapshots: the current community taxon,
// confidence, and grade for every subject of every stored occurrence.
// Implements: prd004-export (R1-R2);
//
//	docs/ARCHITECTURE § Snapshot Export.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/occurrence-engine/internal/consensus"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// Lister enumerates stored occurrences. The store implements it.
type Lister interface {
	ListOccurrences(ctx context.Context) ([]types.Occurrence, error)
}

// Entry is one occurrence-subject in a snapshot. Consensus is nil for a
// casual-grade subject (no identifications).
type Entry struct {
	OccurrenceRef string                 `json:"occurrence_ref" yaml:"occurrence_ref"`
	SubjectIndex  int                    `json:"subject_index" yaml:"subject_index"`
	Grade         types.QualityGrade     `json:"grade" yaml:"grade"`
	Consensus     *types.ConsensusResult `json:"consensus,omitempty" yaml:"consensus,omitempty"`
}

// Snapshot is a point-in-time consensus export across the whole store.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Entries     []Entry   `json:"entries" yaml:"entries"`
}

// Build computes a snapshot: every subject of every stored occurrence,
// ordered by occurrence ref then subject index. Progress lines go to w.
func Build(ctx context.Context, lister Lister, engine *consensus.Engine, w io.Writer) (Snapshot, error) {
	occurrences, err := lister.ListOccurrences(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing occurrences: %w", err)
	}

	snapshot := Snapshot{GeneratedAt: time.Now().UTC()}

	for _, occ := range occurrences {
		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		default:
		}

		results, err := engine.CalculateAllSubjects(ctx, occ.Ref)
		if err != nil {
			return Snapshot{}, fmt.Errorf("calculating %s: %w", occ.Ref, err)
		}

		indices := make([]int, 0, len(results))
		for i := range results {
			indices = append(indices, i)
		}
		sort.Ints(indices)

		for _, i := range indices {
			result := results[i]
			snapshot.Entries = append(snapshot.Entries, Entry{
				OccurrenceRef: occ.Ref,
				SubjectIndex:  i,
				Grade:         types.Grade(result),
				Consensus:     result,
			})
		}

		fmt.Fprintf(w, "exported %s (%d subject(s))\n", occ.Ref, len(indices))
	}

	return snapshot, nil
}

// WriteYAML writes the snapshot to dir/consensus.yaml.
func (s Snapshot) WriteYAML(dir string) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeSnapshotFile(dir, "consensus.yaml", data)
}

// WriteJSON writes the snapshot to dir/consensus.json.
func (s Snapshot) WriteJSON(dir string) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeSnapshotFile(dir, "consensus.json", data)
}

func writeSnapshotFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
