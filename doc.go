// Package subpair implements byte-level byte-pair-encoding (BPE) subword
// tokenization: it learns a ranked table of merge rules from a training
// corpus and uses that table to convert text to integer token ids and back.
//
// # Overview
//
// Token ids 0-255 stand for the 256 byte values. Training repeatedly finds
// the most frequent adjacent pair of ids in the corpus, assigns it a fresh
// composite id (256 plus the rule's rank), and rewrites the corpus with it.
// The resulting Table is immutable: encoding replays the learned rules in
// rank order, decoding expands each id back to its bytes.
//
// Training is deterministic. Ties between equally frequent pairs are broken
// by the numerically smallest (left, right) pair, so two runs over the same
// corpus produce identical tables.
//
// # Basic Usage
//
//	pieces := [][]byte{[]byte("some training text")}
//	table := subpair.Train(pieces, 1024)
//
//	ids := table.Encode([]byte("some text"))
//	text, err := table.Decode(ids)
//
//	// Serialize the table for reuse
//	data, _ := table.MarshalBinary()
//	var restored subpair.Table
//	_ = restored.UnmarshalBinary(data)
//
// When the corpus is pre-split into pieces (for example by an external
// regex splitter), pass one byte slice per piece: no merge rule is ever
// learned or applied across a piece boundary.
//
// # Concurrency
//
// A Table never changes after construction and may be shared by any number
// of concurrent Encode and Decode calls. Training itself is single-threaded
// except for the optional pair-counting fan-out enabled by WithParallelism,
// which only affects speed, never the learned rules.
package subpair
