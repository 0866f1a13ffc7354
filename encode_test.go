package subpair

import (
	"slices"
	"sync"
	"testing"
)

// ============================================================================
// Encoding Behavior
// ============================================================================

func TestEncodeEmptyText(t *testing.T) {
	table := Train([][]byte{[]byte("abcabc")}, 300)
	if ids := table.Encode(nil); len(ids) != 0 {
		t.Errorf("expected empty sequence, got %v", ids)
	}
}

func TestEncodeWithEmptyTable(t *testing.T) {
	table := Train(nil, 0)
	text := []byte("hello")

	ids := table.Encode(text)
	if len(ids) != len(text) {
		t.Fatalf("expected %d raw byte ids, got %d", len(text), len(ids))
	}
	for i, id := range ids {
		if id != int32(text[i]) {
			t.Errorf("position %d: expected id %d, got %d", i, text[i], id)
		}
	}
}

func TestEncodeLowestRankFirst(t *testing.T) {
	// Rank 0 merges (b,c), rank 1 merges (a,b). In "abc" the rank-1 pair
	// appears first positionally, but the rank-0 rule must win: a
	// first-found linear scan would produce [257, 99] instead.
	table, err := NewTable([]Pair{{98, 99}, {97, 98}})
	if err != nil {
		t.Fatal(err)
	}

	got := table.Encode([]byte("abc"))
	if want := []int32{97, 256}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEncodeLeftmostFirstOnRuns(t *testing.T) {
	table, err := NewTable([]Pair{{97, 97}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		text     string
		expected []int32
	}{
		{"aaa", []int32{256, 97}},
		{"aaaa", []int32{256, 256}},
		{"aaaaa", []int32{256, 256, 97}},
	}
	for _, tt := range tests {
		if got := table.Encode([]byte(tt.text)); !slices.Equal(got, tt.expected) {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.expected, got)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	corpus := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("こんにちは世界、機械学習は面白いですね"),
		[]byte("hello world, hello tokenizer"),
	}
	table := Train(corpus, 400)

	inputs := []string{
		"",
		"the",
		"hello world",
		"こんにちは",
		"completely unseen input £€",
		"the quick brown fox jumps over the lazy dog",
	}
	for _, input := range inputs {
		ids := table.Encode([]byte(input))
		if len(ids) > len(input) {
			t.Errorf("%q: encoded length %d exceeds %d raw bytes", input, len(ids), len(input))
		}

		decoded, err := table.Decode(ids)
		if err != nil {
			t.Errorf("%q: decode failed: %v", input, err)
			continue
		}
		if decoded != input {
			t.Errorf("round trip mismatch: %q != %q", decoded, input)
		}
	}
}

func TestEncodeMatchesTrainingCompression(t *testing.T) {
	pieces := [][]byte{
		[]byte("low lower lowest"),
		[]byte("new newer newest"),
	}
	table, seqs := NewTrainer().TrainSequences(pieces, 320)

	for i, piece := range pieces {
		if got := table.Encode(piece); !slices.Equal(got, seqs[i]) {
			t.Errorf("piece %d: encode %v diverged from training sequence %v", i, got, seqs[i])
		}
	}
}

func TestEncodePiecesRespectsBoundaries(t *testing.T) {
	table, err := NewTable([]Pair{{97, 98}})
	if err != nil {
		t.Fatal(err)
	}

	joined := table.Encode([]byte("ab"))
	if want := []int32{256}; !slices.Equal(joined, want) {
		t.Fatalf("expected %v for joined text, got %v", want, joined)
	}

	split := table.EncodePieces([][]byte{[]byte("a"), []byte("b")})
	if want := []int32{97, 98}; !slices.Equal(split, want) {
		t.Fatalf("expected %v across piece boundary, got %v", want, split)
	}
}

func TestEncodeCache(t *testing.T) {
	corpus := [][]byte{[]byte("cached cached cached")}
	cached := Train(corpus, 300, WithEncodeCache(16))
	plain := Train(corpus, 300)

	text := []byte("cached")
	first := cached.Encode(text)
	if want := plain.Encode(text); !slices.Equal(first, want) {
		t.Fatalf("cached table diverged: %v vs %v", first, want)
	}

	// Mutating a returned slice must not poison later calls.
	first[0] = -42
	second := cached.Encode(text)
	if !slices.Equal(second, plain.Encode(text)) {
		t.Fatalf("cache returned corrupted sequence: %v", second)
	}
}

func TestEncodeConcurrent(t *testing.T) {
	table := Train([][]byte{[]byte("shared table, many readers, one result")}, 300, WithEncodeCache(8))
	text := []byte("many readers")
	expected := table.Encode(text)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if got := table.Encode(text); !slices.Equal(got, expected) {
					t.Errorf("concurrent encode diverged: %v vs %v", got, expected)
					return
				}
			}
		}()
	}
	wg.Wait()
}
