package chunk

import (
	"fmt"
	"math/rand"
	"testing"
)

// makeChunks creates n chunks with synthetic content.
func makeChunks(n int) []Chunk {
	chunks := make([]Chunk, n)
	for i := range chunks {
		chunks[i] = Chunk{Index: i, Text: fmt.Sprintf("content %d", i)}
	}
	return chunks
}

func newTestSampler(seed int64) *Sampler {
	return NewSampler(rand.New(rand.NewSource(seed)))
}

func TestSample_UnderBudget_ReturnsInputUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		count    int
		maxCount int
	}{
		{"fewer_than_max", 3, 8},
		{"exactly_max", 8, 8},
		{"single_chunk", 1, 8},
		{"empty", 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chunks := makeChunks(tt.count)
			got := newTestSampler(1).Sample(chunks, tt.maxCount)
			if len(got) != tt.count {
				t.Errorf("got %d chunks, want %d (unchanged)", len(got), tt.count)
			}
		})
	}
}

func TestSample_AlwaysKeepsFirstAndLast(t *testing.T) {
	t.Parallel()

	for _, total := range []int{9, 12, 20, 50, 100} {
		t.Run(fmt.Sprintf("total_%d", total), func(t *testing.T) {
			t.Parallel()
			chunks := makeChunks(total)
			got := newTestSampler(42).Sample(chunks, 8)

			if got[0].Index != 0 {
				t.Errorf("first sampled chunk has index %d, want 0", got[0].Index)
			}
			if got[len(got)-1].Index != total-1 {
				t.Errorf("last sampled chunk has index %d, want %d",
					got[len(got)-1].Index, total-1)
			}
		})
	}
}

func TestSample_StrictlyIncreasingWithinBudget(t *testing.T) {
	t.Parallel()

	chunks := makeChunks(30)
	got := newTestSampler(7).Sample(chunks, 8)

	if len(got) > 8 {
		t.Errorf("got %d chunks, want at most 8", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Index <= got[i-1].Index {
			t.Errorf("indices not strictly increasing at position %d: %d then %d",
				i, got[i-1].Index, got[i].Index)
		}
	}
}

func TestSample_IncludesMiddleNeighborhood(t *testing.T) {
	t.Parallel()

	// 20 chunks: middle is 10, so 9, 10, 11 must be selected along with
	// 0 and 19 before any random fill.
	chunks := makeChunks(20)
	got := newTestSampler(3).Sample(chunks, 8)

	want := map[int]bool{0: true, 9: true, 10: true, 11: true, 19: true}
	found := make(map[int]bool)
	for _, c := range got {
		found[c.Index] = true
	}
	for idx := range want {
		if !found[idx] {
			t.Errorf("expected index %d in sample, got %v", idx, indices(got))
		}
	}
}

func TestSample_NilRandomSource(t *testing.T) {
	t.Parallel()

	// A nil source gets a seeded default; sampling over the random-fill
	// threshold must work, not dereference nil.
	chunks := makeChunks(20)
	got := NewSampler(nil).Sample(chunks, 8)

	if len(got) == 0 || len(got) > 8 {
		t.Fatalf("got %d chunks, want between 1 and 8", len(got))
	}
	if got[0].Index != 0 || got[len(got)-1].Index != 19 {
		t.Errorf("boundary chunks missing from sample: %v", indices(got))
	}
}

func TestSample_SeededRandomnessIsDeterministic(t *testing.T) {
	t.Parallel()

	chunks := makeChunks(40)

	first := newTestSampler(99).Sample(chunks, 8)
	second := newTestSampler(99).Sample(chunks, 8)

	if len(first) != len(second) {
		t.Fatalf("sample sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Index != second[i].Index {
			t.Errorf("position %d differs: %d vs %d", i, first[i].Index, second[i].Index)
		}
	}
}

func TestSample_SmallOverage_NoRandomFill(t *testing.T) {
	t.Parallel()

	// 5 chunks with max 4: first, last, middle only (no middle±1, no
	// random fill at this size).
	chunks := makeChunks(5)
	got := newTestSampler(1).Sample(chunks, 4)

	wantIndices := []int{0, 2, 4}
	gotIdx := indices(got)
	if len(gotIdx) != len(wantIndices) {
		t.Fatalf("got indices %v, want %v", gotIdx, wantIndices)
	}
	for i, idx := range wantIndices {
		if gotIdx[i] != idx {
			t.Errorf("got indices %v, want %v", gotIdx, wantIndices)
			break
		}
	}
}

func indices(chunks []Chunk) []int {
	out := make([]int, len(chunks))
	for i, c := range chunks {
		out[i] = c.Index
	}
	return out
}
