// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import "github.com/pdiddy/occurrence-engine/pkg/types"

// dedupeLatest collapses entries down to one per identifier: the one with
// the greatest SubmittedAt. An identifier can only ever contribute one vote;
// their most recent identification supersedes earlier ones (R2.1).
//
// Output order follows each identifier's first appearance in the input, so
// downstream grouping sees a stable encounter order. On an exact timestamp
// tie the incumbent entry is retained: the comparison is strictly
// "after", never "at or after" (R2.2).
func dedupeLatest(entries []types.IdentificationEntry) []types.IdentificationEntry {
	if len(entries) == 0 {
		return nil
	}

	position := make(map[string]int, len(entries))
	deduped := make([]types.IdentificationEntry, 0, len(entries))

	for _, e := range entries {
		i, seen := position[e.Identifier]
		if !seen {
			position[e.Identifier] = len(deduped)
			deduped = append(deduped, e)
			continue
		}
		if e.SubmittedAt.After(deduped[i].SubmittedAt) {
			deduped[i] = e
		}
	}

	return deduped
}
