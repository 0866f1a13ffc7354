package subpair

// Pair is an ordered pair of token ids that appeared adjacently in a
// sequence.
type Pair struct {
	Left, Right int32
}

// pairCounts maps every adjacent pair in seq to the number of times it
// occurs, scanning left to right once. Sequences of length 0 or 1 yield an
// empty map.
func pairCounts(seq []int32) map[Pair]int {
	counts := make(map[Pair]int, min(len(seq), 4096))
	accumulatePairs(counts, seq)
	return counts
}

// accumulatePairs adds seq's adjacent-pair counts into counts.
func accumulatePairs(counts map[Pair]int, seq []int32) {
	for i := 0; i+1 < len(seq); i++ {
		counts[Pair{seq[i], seq[i+1]}]++
	}
}

// mergePair rewrites seq in place, replacing every non-overlapping
// occurrence of p with id. Matches are taken leftmost-first: after merging
// positions i and i+1 the scan resumes at i+2, so a run of three equal ids
// produces one merge, not two.
func mergePair(seq []int32, p Pair, id int32) []int32 {
	w := 0
	for r := 0; r < len(seq); w++ {
		if r+1 < len(seq) && seq[r] == p.Left && seq[r+1] == p.Right {
			seq[w] = id
			r += 2
		} else {
			seq[w] = seq[r]
			r++
		}
	}
	return seq[:w]
}

// lessPair orders pairs lexicographically by (Left, Right).
func lessPair(a, b Pair) bool {
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	return a.Right < b.Right
}
