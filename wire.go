package subpair

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	wireMagic   = "SBPT"
	wireVersion = uint16(1)

	// maxWireRules bounds the rule count accepted from untrusted input.
	maxWireRules = 1 << 24
)

// Wire format (version 1):
//
//	magic[4]  = "SBPT"
//	version   = uint16 little-endian
//	ruleCount = uint32 little-endian
//	repeat ruleCount times:
//	  left  = uint32 little-endian
//	  right = uint32 little-endian
//
// The position of a rule in the list is its rank; the id it defines is
// 256+rank. The derived vocabulary is rebuilt on load, never persisted.

// WriteTo serializes the ordered rule list.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := io.WriteString(w, wireMagic)
	total += int64(n)
	if err != nil {
		return total, err
	}

	write := func(v any) error {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
		total += int64(binary.Size(v))
		return nil
	}

	if err := write(wireVersion); err != nil {
		return total, err
	}
	if err := write(uint32(len(t.rules))); err != nil {
		return total, err
	}
	for _, rule := range t.rules {
		if err := write([2]uint32{uint32(rule.Left), uint32(rule.Right)}); err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadTable deserializes a table written by WriteTo, validating every table
// invariant (via NewTable) before returning it.
func ReadTable(r io.Reader, opts ...Option) (*Table, error) {
	magic := make([]byte, len(wireMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != wireMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidTable, magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != wireVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidTable, version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading rule count: %w", err)
	}
	if count > maxWireRules {
		return nil, fmt.Errorf("%w: rule count %d exceeds limit %d", ErrInvalidTable, count, maxWireRules)
	}

	rules := make([]Pair, count)
	for i := range rules {
		var pair [2]uint32
		if err := binary.Read(r, binary.LittleEndian, &pair); err != nil {
			return nil, fmt.Errorf("reading rule %d: %w", i, err)
		}
		// Out-of-range values wrap negative and are rejected by NewTable.
		rules[i] = Pair{Left: int32(pair[0]), Right: int32(pair[1])}
	}

	return NewTable(rules, opts...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *Table) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, replacing the
// receiver with the deserialized table.
func (t *Table) UnmarshalBinary(data []byte) error {
	loaded, err := ReadTable(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}
