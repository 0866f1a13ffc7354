package subpair

import (
	"cmp"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
)

// chain is one element of the doubly linked merge list used during
// encoding. Merging a pair keeps the left element (with the composite id)
// and unlinks the right one.
type chain struct {
	id         int32
	prev, next int
}

// candidate is an adjacent pair currently present in the merge list,
// together with the rank of the rule that merges it. The ids are captured
// at push time so stale candidates can be detected after earlier merges.
type candidate struct {
	a, b        int
	left, right int32
	rank        int32
}

// Encode converts text into token ids, reproducing exactly the compression
// learned during training: among all adjacent pairs with a table entry, the
// lowest-rank pair is always merged first, leftmost occurrence first. Any
// byte sequence encodes; an empty input yields an empty sequence.
func (t *Table) Encode(text []byte) []int32 {
	if len(text) == 0 {
		return nil
	}

	if t.cache != nil {
		if ids, ok := t.cache.Get(string(text)); ok {
			return append([]int32(nil), ids...)
		}
	}

	ids := t.encode(text)

	if t.cache != nil {
		t.cache.Add(string(text), append([]int32(nil), ids...))
	}
	return ids
}

// EncodePieces encodes every piece independently and concatenates the
// results. Merges never apply across a piece boundary, matching how
// training treats pieces.
func (t *Table) EncodePieces(pieces [][]byte) []int32 {
	var ids []int32
	for _, piece := range pieces {
		ids = append(ids, t.Encode(piece)...)
	}
	return ids
}

// encode applies the merge rules to one piece. Candidates are drawn from a
// min-heap ordered by rank, so a later-learned rule is never applied while
// an earlier one still matches somewhere — a linear first-found scan would
// diverge from training here.
func (t *Table) encode(text []byte) []int32 {
	nodes := make([]chain, len(text))
	for i, b := range text {
		nodes[i] = chain{id: int32(b), prev: i - 1, next: i + 1}
	}

	pairwise := func(a, b int) (candidate, bool) {
		if a < 0 || b >= len(nodes) {
			return candidate{}, false
		}
		left, right := nodes[a].id, nodes[b].id
		rank, ok := t.index.Rank(left, right)
		if !ok {
			return candidate{}, false
		}
		return candidate{a: a, b: b, left: left, right: right, rank: rank}, true
	}

	// Equal ranks are ordered by position so that runs of the same pair
	// merge leftmost-first and non-overlapping, as in training.
	pairs := heap.NewWith(func(x, y candidate) int {
		if c := cmp.Compare(x.rank, y.rank); c != 0 {
			return c
		}
		return cmp.Compare(x.a, y.a)
	})

	for i := 0; i+1 < len(nodes); i++ {
		if cand, ok := pairwise(i, i+1); ok {
			pairs.Push(cand)
		}
	}

	for !pairs.Empty() {
		cand, _ := pairs.Pop()

		// Skip candidates invalidated by an earlier merge.
		if nodes[cand.a].id != cand.left || nodes[cand.b].id != cand.right ||
			nodes[cand.a].next != cand.b {
			continue
		}

		nodes[cand.a].id = byteTokens + cand.rank
		nodes[cand.b].id = -1
		nodes[cand.a].next = nodes[cand.b].next
		if next := nodes[cand.a].next; next < len(nodes) {
			nodes[next].prev = cand.a
		}

		if prev, ok := pairwise(nodes[cand.a].prev, cand.a); ok {
			pairs.Push(prev)
		}
		if next, ok := pairwise(cand.a, nodes[cand.a].next); ok {
			pairs.Push(next)
		}
	}

	ids := make([]int32, 0, len(nodes))
	for i := 0; i < len(nodes); i = nodes[i].next {
		ids = append(ids, nodes[i].id)
	}
	return ids
}
