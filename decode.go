package subpair

import (
	"fmt"
	"unicode/utf8"
)

// Decode reconstructs text from a token id sequence by concatenating each
// id's cached byte expansion in order. It fails with ErrUnknownID if an id
// lies outside the vocabulary and with ErrInvalidUTF8 if the reconstructed
// bytes are not valid UTF-8 — both signal corrupted ids or a malformed
// table, never a normal round trip.
func (t *Table) Decode(ids []int32) (string, error) {
	raw, err := t.DecodeBytes(ids)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %d byte(s) from %d token(s)", ErrInvalidUTF8, len(raw), len(ids))
	}
	return string(raw), nil
}

// DecodeBytes reconstructs the raw byte sequence without the UTF-8 check,
// for callers working below the text level.
func (t *Table) DecodeBytes(ids []int32) ([]byte, error) {
	size := 0
	for _, id := range ids {
		if id < 0 || int(id) >= len(t.vocab) {
			return nil, fmt.Errorf("%w: %d (vocabulary size %d)", ErrUnknownID, id, len(t.vocab))
		}
		size += len(t.vocab[id])
	}

	raw := make([]byte, 0, size)
	for _, id := range ids {
		raw = append(raw, t.vocab[id]...)
	}
	return raw, nil
}
