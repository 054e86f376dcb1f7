// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consensus reduces competing taxon identifications for an
// occurrence-subject into a single community consensus: a winning taxon, a
// confidence ratio, and a three-tier quality grade.
// Implements: prd002-consensus (R1-R5);
//
//	docs/ARCHITECTURE § Consensus Engine.
package consensus

import (
	"context"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// researchGradeFloor is the minimum number of distinct identifiers before
// an occurrence-subject can reach research grade. A lone identification
// trivially has 100% confidence; it must not qualify on its own (R3.3).
const researchGradeFloor = 2

// consensusOf reduces a raw identification snapshot to a result:
// deduplicate per identifier, group by taxon, select the leading group.
// Returns nil for an empty snapshot. Pure and idempotent: the same entry
// set always yields the same result, and entries are never mutated.
func consensusOf(entries []types.IdentificationEntry) *types.ConsensusResult {
	deduped := dedupeLatest(entries)
	winner, ok := selectWinner(groupByTaxon(deduped))
	if !ok {
		return nil
	}

	total := len(deduped)
	return &types.ConsensusResult{
		ScientificName:      winner.ScientificName,
		Kingdom:             winner.Kingdom,
		TaxonRank:           winner.TaxonRank,
		IdentificationCount: total,
		AgreementCount:      winner.VoteCount,
		Confidence:          float64(winner.VoteCount) / float64(total),
		IsResearchGrade:     total >= researchGradeFloor && winner.VoteCount >= superMajorityThreshold(total),
	}
}

// Calculate computes the consensus over every identification recorded for
// an occurrence, regardless of subject. A nil result with nil error means
// the occurrence has no identifications, a valid terminal state rather
// than an error (R3.1). Source errors propagate unchanged.
func (e *Engine) Calculate(ctx context.Context, occurrenceRef string) (*types.ConsensusResult, error) {
	entries, err := e.src.FetchIdentifications(ctx, occurrenceRef)
	if err != nil {
		return nil, err
	}
	return consensusOf(entries), nil
}

// CalculateSubject computes the consensus for one subject of an occurrence.
func (e *Engine) CalculateSubject(ctx context.Context, occurrenceRef string, subjectIndex int) (*types.ConsensusResult, error) {
	entries, err := e.src.FetchSubjectIdentifications(ctx, occurrenceRef, subjectIndex)
	if err != nil {
		return nil, err
	}
	return consensusOf(entries), nil
}

// IsResearchGrade reports whether the whole-occurrence consensus reaches
// research grade. False when no identifications exist.
func (e *Engine) IsResearchGrade(ctx context.Context, occurrenceRef string) (bool, error) {
	result, err := e.Calculate(ctx, occurrenceRef)
	if err != nil {
		return false, err
	}
	return result != nil && result.IsResearchGrade, nil
}

// SubjectIsResearchGrade reports whether one subject's consensus reaches
// research grade.
func (e *Engine) SubjectIsResearchGrade(ctx context.Context, occurrenceRef string, subjectIndex int) (bool, error) {
	result, err := e.CalculateSubject(ctx, occurrenceRef, subjectIndex)
	if err != nil {
		return false, err
	}
	return result != nil && result.IsResearchGrade, nil
}

// QualityGrade classifies the whole occurrence: research when a
// super-majority stands, needs_id when identifications exist without one,
// casual when none exist (R4.1-R4.3).
func (e *Engine) QualityGrade(ctx context.Context, occurrenceRef string) (types.QualityGrade, error) {
	result, err := e.Calculate(ctx, occurrenceRef)
	if err != nil {
		return "", err
	}
	return types.Grade(result), nil
}

// SubjectQualityGrade classifies one subject of an occurrence.
func (e *Engine) SubjectQualityGrade(ctx context.Context, occurrenceRef string, subjectIndex int) (types.QualityGrade, error) {
	result, err := e.CalculateSubject(ctx, occurrenceRef, subjectIndex)
	if err != nil {
		return "", err
	}
	return types.Grade(result), nil
}
