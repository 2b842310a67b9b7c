package chunk

import (
	"math/rand"
	"sort"
	"time"
)

// Sampler selects a bounded, representative subset of chunks for very
// long inputs. Beginning, end, and middle carry the most salient content
// (introduction, conclusion, core body), so those positions are kept
// first; remaining budget is filled at random for diversity.
//
// Randomness is injected so callers can seed it for deterministic tests.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler creates a Sampler using the given random source. A nil
// rnd falls back to a time-seeded source; tests inject a fixed seed
// for deterministic selection.
func NewSampler(rnd *rand.Rand) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rnd: rnd}
}

// maxRandomFill is the number of extra chunks drawn at random when the
// input has more than 8 chunks.
const maxRandomFill = 3

// Sample returns a subsequence of chunks with at most maxCount elements,
// preserving the original relative order.
//
// If len(chunks) <= maxCount the input is returned unchanged. Otherwise
// chunks are selected in priority order until the budget is spent: first
// and last always; the middle chunk for more than 3 chunks; middle-1 and
// middle+1 for more than 5; and for more than 8 chunks up to 3 extras
// drawn uniformly at random from the unselected set. The result is
// deduplicated and re-sorted by original index.
func (s *Sampler) Sample(chunks []Chunk, maxCount int) []Chunk {
	if maxCount <= 0 || len(chunks) <= maxCount {
		return chunks
	}

	total := len(chunks)

	// Candidate indices in priority order. Duplicates are possible for
	// small inputs (e.g. middle == last); the selected set dedups them.
	candidates := []int{0, total - 1}
	if total > 3 {
		middle := total / 2
		candidates = append(candidates, middle)
		if total > 5 {
			candidates = append(candidates, middle-1, middle+1)
		}
	}

	selected := make(map[int]bool, maxCount)
	for _, idx := range candidates {
		if len(selected) >= maxCount {
			break
		}
		selected[idx] = true
	}

	if total > 8 && len(selected) < maxCount {
		var available []int
		for i := range total {
			if !selected[i] {
				available = append(available, i)
			}
		}
		s.rnd.Shuffle(len(available), func(i, j int) {
			available[i], available[j] = available[j], available[i]
		})
		extra := min(maxRandomFill, maxCount-len(selected), len(available))
		for _, idx := range available[:extra] {
			selected[idx] = true
		}
	}

	indices := make([]int, 0, len(selected))
	for idx := range selected {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	result := make([]Chunk, 0, len(indices))
	for _, idx := range indices {
		result = append(result, chunks[idx])
	}
	return result
}
