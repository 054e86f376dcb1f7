// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import (
	"context"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// CalculateAllSubjects runs the consensus once per subject present in an
// occurrence and returns subject index -> result. Subject 0 is always in
// the map, nil result included, because every occurrence implicitly has a
// primary subject even before anyone identifies it (R5.2).
func (e *Engine) CalculateAllSubjects(ctx context.Context, occurrenceRef string) (map[int]*types.ConsensusResult, error) {
	subjects, err := e.src.ListSubjects(ctx, occurrenceRef)
	if err != nil {
		return nil, err
	}

	results := make(map[int]*types.ConsensusResult, len(subjects)+1)
	results[0] = nil

	for _, s := range subjects {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result, err := e.CalculateSubject(ctx, occurrenceRef, s.SubjectIndex)
		if err != nil {
			return results, err
		}
		results[s.SubjectIndex] = result
	}

	return results, nil
}

// CalculateBatch runs the whole-occurrence consensus for each reference and
// returns occurrence ref -> result. Items are independent read-only
// calculations; they are processed sequentially with a cancellation check
// between items (R5.3).
func (e *Engine) CalculateBatch(ctx context.Context, occurrenceRefs []string) (map[string]*types.ConsensusResult, error) {
	results := make(map[string]*types.ConsensusResult, len(occurrenceRefs))

	for _, ref := range occurrenceRefs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result, err := e.Calculate(ctx, ref)
		if err != nil {
			return results, err
		}
		results[ref] = result
	}

	return results, nil
}
