// Package pairidx provides fast lookup from an ordered token-id pair to the
// rank of the merge rule that combines it.
package pairidx

// fastSize bounds the dense region. Byte-level merge tables resolve almost
// every lookup against low ids, so a dense array covering the first 512 ids
// serves the hot path while a map catches the rest.
const fastSize = 512

// Index is a hybrid pair-to-rank lookup:
//   - dense 2D region for pairs where both ids are below fastSize (O(1))
//   - map fallback for pairs involving larger ids
//
// An Index is populated once during table construction and is read-only
// afterwards, so it is safe for concurrent lookups.
type Index struct {
	fast     []int32 // fastSize×fastSize ranks, -1 marks absent
	fallback map[uint64]int32
	size     int
}

// New creates an empty index sized for the given number of rules.
func New(capacity int) *Index {
	fast := make([]int32, fastSize*fastSize)
	for i := range fast {
		fast[i] = -1
	}
	return &Index{
		fast:     fast,
		fallback: make(map[uint64]int32, capacity/8+1),
	}
}

// Insert records the rank for the ordered pair (left, right). Inserting the
// same pair twice overwrites the previous rank; callers are expected to
// insert each pair once.
func (ix *Index) Insert(left, right, rank int32) {
	if left >= 0 && left < fastSize && right >= 0 && right < fastSize {
		ix.fast[left*fastSize+right] = rank
	} else {
		ix.fallback[packPair(left, right)] = rank
	}
	ix.size++
}

// Rank returns the rank recorded for the ordered pair (left, right).
func (ix *Index) Rank(left, right int32) (int32, bool) {
	if left >= 0 && left < fastSize && right >= 0 && right < fastSize {
		if rank := ix.fast[left*fastSize+right]; rank >= 0 {
			return rank, true
		}
		return 0, false
	}
	rank, ok := ix.fallback[packPair(left, right)]
	return rank, ok
}

// Len returns the number of inserted pairs.
func (ix *Index) Len() int {
	return ix.size
}

// packPair packs two ids into a single map key.
func packPair(left, right int32) uint64 {
	return uint64(uint32(left))<<32 | uint64(uint32(right))
}
