package quorumlib

import "sort"

// rankByCity turns a candidate list into a ranked sequence. Candidates
// are grouped by their normalized city keeping the order in which each
// distinct city was first seen; since candidates arrive in priority
// order, so do the groups. Groups are then stably sorted by descending
// size: equally sized groups keep their first-seen order, which breaks
// ties by the priority of the earliest member of each group. The winner
// of the vote is the first element of the returned sequence.
func rankByCity(candidates []SourcedRecord) []SourcedRecord {
	seen := map[string]int{}
	groups := [][]SourcedRecord{}

	for _, v := range candidates {
		idx, ok := seen[v.NormalizedCity]
		if !ok {
			idx = len(groups)
			seen[v.NormalizedCity] = idx
			groups = append(groups, nil)
		}

		groups[idx] = append(groups[idx], v)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})

	rv := make([]SourcedRecord, 0, len(candidates))

	for _, group := range groups {
		rv = append(rv, group...)
	}

	return rv
}

// repairNetwork picks network data for the winner: its own when
// complete, otherwise borrowed from the first candidate in rank order
// which reports the same city and carries complete network data.
func repairNetwork(ranked []SourcedRecord, winner SourcedRecord) (uint, string, string, bool) {
	if winner.HasNetwork() {
		return winner.ASN, winner.Network, winner.NormalizedNetwork, true
	}

	for _, v := range ranked {
		if v.NormalizedCity == winner.NormalizedCity && v.HasNetwork() {
			return v.ASN, v.Network, v.NormalizedNetwork, true
		}
	}

	return 0, "", "", false
}
