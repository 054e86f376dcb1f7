// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QualityGrade is the three-tier quality classification of an
// occurrence-subject. Per prd002-consensus R4.1-R4.3.
type QualityGrade string

const (
	// GradeResearch means at least two distinct identifiers weighed in and a
	// two-thirds super-majority backs one taxon.
	GradeResearch QualityGrade = "research"

	// GradeNeedsID means identifications exist but no super-majority has
	// formed (or only a single identifier has weighed in).
	GradeNeedsID QualityGrade = "needs_id"

	// GradeCasual means no identifications exist at all.
	GradeCasual QualityGrade = "casual"
)

// ConsensusResult is the outcome of one consensus calculation. It is a
// value: computed fresh on every call, never persisted by the engine.
// Per prd002-consensus R3.1-R3.5.
type ConsensusResult struct {
	// ScientificName is the winning taxon name, in first-seen casing.
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`

	// Kingdom is the winning group's kingdom, if one was proposed.
	Kingdom string `json:"kingdom,omitempty" yaml:"kingdom,omitempty"`

	// TaxonRank is the winning group's rank, if one was proposed.
	TaxonRank string `json:"taxon_rank,omitempty" yaml:"taxon_rank,omitempty"`

	// IdentificationCount is the number of deduplicated entries considered:
	// one vote per distinct identifier.
	IdentificationCount int `json:"identification_count" yaml:"identification_count"`

	// AgreementCount is how many of those votes back the winning taxon.
	AgreementCount int `json:"agreement_count" yaml:"agreement_count"`

	// Confidence is AgreementCount / IdentificationCount, in (0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// IsResearchGrade reports whether the winner clears the two-thirds
	// super-majority with at least two identifiers participating.
	IsResearchGrade bool `json:"is_research_grade" yaml:"is_research_grade"`
}

// Grade maps a ConsensusResult (or its absence) to a QualityGrade. A nil
// result means zero identifications and grades casual.
func Grade(r *ConsensusResult) QualityGrade {
	switch {
	case r == nil:
		return GradeCasual
	case r.IsResearchGrade:
		return GradeResearch
	default:
		return GradeNeedsID
	}
}
