package subpair

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Train learns up to vocabSize-256 merge rules from the given corpus
// pieces. Pieces are tokenized independently; no rule is ever learned
// across a piece boundary. A vocabSize of 256 or less yields an empty
// table, and a corpus that runs out of adjacent pairs before the target is
// reached yields a smaller table. Training never fails.
func (t *Trainer) Train(pieces [][]byte, vocabSize int) *Table {
	table, _ := t.TrainSequences(pieces, vocabSize)
	return table
}

// TrainSequences is Train but additionally returns the fully compressed
// token sequence of every piece, in input order.
func (t *Trainer) TrainSequences(pieces [][]byte, vocabSize int) (*Table, [][]int32) {
	logger := t.config.logger()

	seqs := make([][]int32, len(pieces))
	corpusBytes := 0
	for i, piece := range pieces {
		seqs[i] = byteIDs(piece)
		corpusBytes += len(piece)
	}

	numMerges := vocabSize - byteTokens
	if numMerges < 0 {
		numMerges = 0
	}

	rules := make([]Pair, 0, numMerges)
	for range numMerges {
		counts := t.countAll(seqs)
		best, count, ok := mostFrequent(counts)
		if !ok {
			logger.Debug("pair supply exhausted", "rules", len(rules), "requested", numMerges)
			break
		}

		id := int32(byteTokens + len(rules))
		for i := range seqs {
			seqs[i] = mergePair(seqs[i], best, id)
		}
		rules = append(rules, best)

		if len(rules)%256 == 0 {
			logger.Debug("training progress",
				"rules", len(rules), "pair", best, "count", count)
		}
	}

	if corpusBytes > 0 {
		corpusTokens := 0
		for _, seq := range seqs {
			corpusTokens += len(seq)
		}
		logger.Debug("training complete",
			"rules", len(rules),
			"ratio", float64(corpusBytes)/float64(max(corpusTokens, 1)))
	}

	return newTable(rules, t.config), seqs
}

// countAll aggregates adjacent-pair counts over every piece. With
// Parallelism above 1 the per-piece counting fans out over a bounded
// worker group; the aggregate is identical either way.
func (t *Trainer) countAll(seqs [][]int32) map[Pair]int {
	total := make(map[Pair]int, 4096)

	if t.config.Parallelism > 1 && len(seqs) > 1 {
		var mu sync.Mutex
		var g errgroup.Group
		g.SetLimit(t.config.Parallelism)
		for _, seq := range seqs {
			g.Go(func() error {
				local := pairCounts(seq)
				mu.Lock()
				for p, c := range local {
					total[p] += c
				}
				mu.Unlock()
				return nil
			})
		}
		// Workers only count; no errors to collect.
		_ = g.Wait()
		return total
	}

	for _, seq := range seqs {
		accumulatePairs(total, seq)
	}
	return total
}

// mostFrequent returns the pair with the highest count. Ties are broken by
// the lexicographically smallest (left, right) pair so that identical
// corpora always produce identical merge tables.
func mostFrequent(counts map[Pair]int) (Pair, int, bool) {
	var best Pair
	bestCount := 0
	for p, c := range counts {
		if c > bestCount || (c == bestCount && lessPair(p, best)) {
			best, bestCount = p, c
		}
	}
	return best, bestCount, bestCount > 0
}

// byteIDs decomposes a piece into primitive token ids, one per byte.
func byteIDs(piece []byte) []int32 {
	ids := make([]int32, len(piece))
	for i, b := range piece {
		ids[i] = int32(b)
	}
	return ids
}
