// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import "strings"

// taxonomicRanks orders ranks from most to least specific. Index in this
// slice is the rank's level.
var taxonomicRanks = []string{
	"subspecies",
	"variety",
	"species",
	"genus",
	"family",
	"order",
	"class",
	"phylum",
	"kingdom",
}

// RankLevel returns the specificity level of a taxonomic rank: 0 for the
// most specific (subspecies), 8 for the least (kingdom). Matching is
// case-insensitive. An unknown or empty rank maps to 0, treating it as
// maximally specific, the conservative reading for free-text input.
//
// The rank table supports a planned ancestor-aware consensus rule (letting
// a genus-level identification stand in when no species-level name clears
// the threshold); the calculator does not consult it yet.
func RankLevel(rank string) int {
	needle := strings.ToLower(rank)
	for i, r := range taxonomicRanks {
		if r == needle {
			return i
		}
	}
	return 0
}

// IsMoreSpecific reports whether rank a is strictly more specific than
// rank b.
func IsMoreSpecific(a, b string) bool {
	return RankLevel(a) < RankLevel(b)
}

// CouldBeAncestorOf reports whether candidateAncestor could be a
// genus-level ancestor of taxonName: a single-word candidate whose word
// matches the first word of a multi-word name, case-insensitively.
// "Quercus" could be an ancestor of "Quercus alba"; "Quercus alba" or a
// non-matching genus could not.
func CouldBeAncestorOf(candidateAncestor, taxonName string) bool {
	ancestorWords := strings.Fields(candidateAncestor)
	nameWords := strings.Fields(taxonName)
	if len(ancestorWords) != 1 || len(nameWords) < 2 {
		return false
	}
	return strings.EqualFold(ancestorWords[0], nameWords[0])
}
