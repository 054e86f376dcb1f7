// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the occurrence engine.
package types

import "time"

// IdentificationEntry is one observer's taxon proposal for a subject within
// an occurrence. Entries are created by the submission workflow (or remote
// ingestion) and are read-only to the consensus engine.
// Per prd002-consensus R1.1-R1.3.
type IdentificationEntry struct {
	// Identifier names the submitter. Unique per real-world observer.
	Identifier string `json:"identifier" yaml:"identifier"`

	// OccurrenceRef references the occurrence this identification concerns.
	OccurrenceRef string `json:"occurrence_ref" yaml:"occurrence_ref"`

	// SubjectIndex selects the organism within a multi-organism occurrence.
	// Zero is the primary subject.
	SubjectIndex int `json:"subject_index" yaml:"subject_index"`

	// ScientificName is the proposed taxon name. Validated non-empty at the
	// submission boundary (prd001-identification R2.1); the engine treats
	// whatever it is given as authoritative.
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`

	// TaxonRank is the rank of the proposed name (e.g. "species", "genus").
	// Free text, expected to match the rank vocabulary in internal/consensus.
	TaxonRank string `json:"taxon_rank,omitempty" yaml:"taxon_rank,omitempty"`

	// Kingdom disambiguates cross-kingdom homonyms. Optional.
	Kingdom string `json:"kingdom,omitempty" yaml:"kingdom,omitempty"`

	// IsAgreement marks the entry as an endorsement of an existing
	// identification rather than a fresh proposal. Recorded for diagnostics;
	// it does not change vote weight. Per prd002-consensus R2.4.
	IsAgreement bool `json:"is_agreement,omitempty" yaml:"is_agreement,omitempty"`

	// SubmittedAt orders entries from the same identifier. A later entry
	// from the same identifier supersedes the earlier one.
	SubmittedAt time.Time `json:"submitted_at" yaml:"submitted_at"`
}

// Occurrence is one biodiversity observation record. An occurrence may
// depict several organisms; each is addressed by a zero-based subject index.
type Occurrence struct {
	// Ref is the stable reference callers use to address this occurrence.
	Ref string `json:"ref" yaml:"ref"`

	// Location is a free-text locality description.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// ObservedAt is when the occurrence was recorded in the field.
	ObservedAt time.Time `json:"observed_at,omitempty" yaml:"observed_at,omitempty"`

	// Notes carries observer remarks.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// SubjectSummary describes one subject index present in an occurrence's
// identification set. Per prd002-consensus R5.1.
type SubjectSummary struct {
	// SubjectIndex is the zero-based organism index.
	SubjectIndex int `json:"subject_index" yaml:"subject_index"`

	// IdentificationCount is the raw (pre-dedup) number of identifications
	// targeting this subject.
	IdentificationCount int `json:"identification_count" yaml:"identification_count"`

	// LatestSubmission is the newest SubmittedAt among those entries.
	LatestSubmission time.Time `json:"latest_submission" yaml:"latest_submission"`
}
