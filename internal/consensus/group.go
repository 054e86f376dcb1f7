// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import (
	"strings"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// TaxonGroup is one candidate taxon and the votes behind it. Groups are
// ephemeral: built per calculation, discarded with the result.
type TaxonGroup struct {
	// ScientificName in first-seen casing.
	ScientificName string

	// Kingdom as first seen for this group. Empty when no submitter named one.
	Kingdom string

	// TaxonRank as first seen for this group.
	TaxonRank string

	// VoteCount is the number of deduplicated entries naming this taxon.
	VoteCount int

	// ExplicitAgreementCount counts entries flagged IsAgreement. Kept for
	// diagnostics only; it does not feed the confidence computation.
	ExplicitAgreementCount int
}

// taxonKey is the normalized grouping key: lowercased name and kingdom.
// Grouping is purely lexical. The kingdom half keeps cross-kingdom
// homonyms apart: "Ficus" the plant and "Ficus" the sea snail must never
// pool their votes (R2.3). A kingdom-less entry never merges with an
// explicit-kingdom entry of the same name, even though one may refine the
// other.
func taxonKey(e types.IdentificationEntry) string {
	return strings.ToLower(e.ScientificName) + "|" + strings.ToLower(e.Kingdom)
}

// groupByTaxon partitions deduplicated entries into taxon groups, ordered
// by first appearance. Name and kingdom match case-insensitively; casing
// and rank are recorded from the first entry seen for each group.
func groupByTaxon(entries []types.IdentificationEntry) []TaxonGroup {
	if len(entries) == 0 {
		return nil
	}

	position := make(map[string]int, len(entries))
	var groups []TaxonGroup

	for _, e := range entries {
		key := taxonKey(e)
		i, seen := position[key]
		if !seen {
			i = len(groups)
			position[key] = i
			groups = append(groups, TaxonGroup{
				ScientificName: e.ScientificName,
				Kingdom:        e.Kingdom,
				TaxonRank:      e.TaxonRank,
			})
		}
		groups[i].VoteCount++
		if e.IsAgreement {
			groups[i].ExplicitAgreementCount++
		}
	}

	return groups
}
