// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import (
	"context"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// Source is the read interface the engine consumes. The store implements
// it; tests substitute an in-memory fake. The engine never writes through
// it and never reinterprets its errors. Per prd002-consensus R1.4.
type Source interface {
	// FetchIdentifications returns every identification recorded for an
	// occurrence, across all subjects.
	FetchIdentifications(ctx context.Context, occurrenceRef string) ([]types.IdentificationEntry, error)

	// FetchSubjectIdentifications returns the identifications targeting one
	// subject of an occurrence.
	FetchSubjectIdentifications(ctx context.Context, occurrenceRef string, subjectIndex int) ([]types.IdentificationEntry, error)

	// ListSubjects returns the distinct subject indices present for an
	// occurrence, with per-subject counts and latest submission times.
	ListSubjects(ctx context.Context, occurrenceRef string) ([]types.SubjectSummary, error)
}

// Engine computes community identification consensus over identification
// snapshots read from a Source. It holds no mutable state; concurrent calls
// are independent.
type Engine struct {
	src Source
}

// NewEngine returns an Engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}
