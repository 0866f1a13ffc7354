package subpair

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/seiflotfy/subpair/pairidx"
)

var (
	// ErrInvalidTable indicates a merge rule list that violates table
	// invariants: a duplicate pair or a rule referencing an undefined id.
	ErrInvalidTable = errors.New("invalid merge table")
	// ErrInvalidUTF8 indicates decoded bytes that are not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("decoded bytes are not valid UTF-8")
	// ErrUnknownID indicates a token id outside the table's vocabulary.
	ErrUnknownID = errors.New("unknown token id")
)

// Table is the ordered collection of merge rules learned by training,
// together with the vocabulary derived from them. The rule at rank r
// defines the composite id 256+r, and a rule may only reference ids defined
// before it, so the table forms a DAG over ids.
//
// A Table is immutable once constructed and safe for concurrent use.
type Table struct {
	rules []Pair
	index *pairidx.Index // pair → rank
	vocab [][]byte       // id → flat byte expansion, resolved once

	cache *lru.Cache[string, []int32]
}

// NewTable builds a table from an ordered rule list, validating every
// invariant: the rule at position i must reference only ids below 256+i and
// no two rules may share a pair. The position of a rule is its rank and the
// id it defines is 256+rank.
func NewTable(rules []Pair, opts ...Option) (*Table, error) {
	seen := make(map[Pair]struct{}, len(rules))
	for i, rule := range rules {
		limit := int32(byteTokens + i)
		if rule.Left < 0 || rule.Left >= limit || rule.Right < 0 || rule.Right >= limit {
			return nil, fmt.Errorf("%w: rule %d pair (%d,%d) references an undefined id",
				ErrInvalidTable, i, rule.Left, rule.Right)
		}
		if _, dup := seen[rule]; dup {
			return nil, fmt.Errorf("%w: duplicate pair (%d,%d) at rank %d",
				ErrInvalidTable, rule.Left, rule.Right, i)
		}
		seen[rule] = struct{}{}
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return newTable(append([]Pair(nil), rules...), cfg), nil
}

// newTable assumes rules already satisfy the table invariants. It resolves
// every composite id down to its flat byte expansion exactly once; Decode
// only ever reads this cache.
func newTable(rules []Pair, cfg Config) *Table {
	index := pairidx.New(len(rules))
	vocab := make([][]byte, byteTokens+len(rules))
	for i := range byteTokens {
		vocab[i] = []byte{byte(i)}
	}
	for i, rule := range rules {
		index.Insert(rule.Left, rule.Right, int32(i))

		left, right := vocab[rule.Left], vocab[rule.Right]
		expansion := make([]byte, 0, len(left)+len(right))
		vocab[byteTokens+i] = append(append(expansion, left...), right...)
	}

	t := &Table{rules: rules, index: index, vocab: vocab}
	if cfg.CacheSize > 0 {
		// lru.New only fails on a non-positive size.
		t.cache, _ = lru.New[string, []int32](cfg.CacheSize)
	}
	return t
}

// Len returns the number of learned merge rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// VocabSize returns the total number of token ids: 256 primitives plus one
// per rule.
func (t *Table) VocabSize() int {
	return byteTokens + len(t.rules)
}

// Rank returns the 0-based rank at which the pair was learned.
func (t *Table) Rank(p Pair) (int32, bool) {
	return t.index.Rank(p.Left, p.Right)
}

// Rule returns the pair that merges into the given composite id. Primitive
// ids (below 256) and ids outside the vocabulary have no rule.
func (t *Table) Rule(id int32) (Pair, bool) {
	if id < byteTokens || int(id) >= t.VocabSize() {
		return Pair{}, false
	}
	return t.rules[id-byteTokens], true
}

// Bytes returns the flat byte expansion of a token id. The returned slice
// aliases table memory and must be treated as read-only.
func (t *Table) Bytes(id int32) ([]byte, bool) {
	if id < 0 || int(id) >= len(t.vocab) {
		return nil, false
	}
	return t.vocab[id], true
}

// Rules returns a copy of the ordered rule list.
func (t *Table) Rules() []Pair {
	return append([]Pair(nil), t.rules...)
}
