// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

// superMajorityThreshold returns ceil(total * 2/3): the vote count a group
// needs for research grade. The threshold never gates winner selection.
// The leading group is always reported so callers get a best-effort guess
// even on a contested occurrence; clearing it is surfaced downstream as
// the research-grade flag (R3.4).
func superMajorityThreshold(total int) int {
	return (2*total + 2) / 3
}

// selectWinner returns the group with the highest vote count. Ties break
// toward the group encountered first, which groupByTaxon orders by first
// appearance in the deduplicated input. The ok result is false only for an
// empty group set, i.e. no identifications at all.
func selectWinner(groups []TaxonGroup) (TaxonGroup, bool) {
	if len(groups) == 0 {
		return TaxonGroup{}, false
	}

	winner := groups[0]
	for _, g := range groups[1:] {
		if g.VoteCount > winner.VoteCount {
			winner = g
		}
	}
	return winner, true
}
