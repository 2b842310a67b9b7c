package chunk

import (
	"strings"
	"testing"
)

// joinChunks reassembles chunk texts with paragraph separators for
// reconstruction checks.
func joinChunks(chunks []Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}

// normalize collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSplit_EmptyInput_ReturnsNoChunks(t *testing.T) {
	t.Parallel()

	c := NewChunker(WithBudget(100))

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace_only", "   \n\n  \t "},
		{"blank_paragraphs", "\n\n\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Split(tt.text)
			if len(got) != 0 {
				t.Errorf("Split(%q) = %d chunks, want 0", tt.text, len(got))
			}
		})
	}
}

func TestSplit_ShortText_SingleChunk(t *testing.T) {
	t.Parallel()

	c := NewChunker(WithBudget(100))
	got := c.Split("hello world")

	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0].Text != "hello world" {
		t.Errorf("chunk text = %q, want %q", got[0].Text, "hello world")
	}
	if got[0].Index != 0 {
		t.Errorf("chunk index = %d, want 0", got[0].Index)
	}
}

func TestSplit_ParagraphBoundaries(t *testing.T) {
	t.Parallel()

	// Two paragraphs of 40 chars each fit a 100-char budget together;
	// a third forces a new chunk.
	para := strings.Repeat("a", 40)
	text := para + "\n\n" + para + "\n\n" + para

	c := NewChunker(WithBudget(100))
	got := c.Split(text)

	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].Text != para+"\n\n"+para {
		t.Errorf("first chunk = %q", got[0].Text)
	}
	if got[1].Text != para {
		t.Errorf("second chunk = %q", got[1].Text)
	}
}

func TestSplit_OversizeParagraph_FallsBackToSentences(t *testing.T) {
	t.Parallel()

	// One paragraph of five 30-char sentences against an 80-char budget.
	sentence := strings.Repeat("b", 29) // +1 for the period
	para := strings.Repeat(sentence+". ", 4) + sentence + "."

	c := NewChunker(WithBudget(80))
	got := c.Split(para)

	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for _, chunk := range got {
		if chunk.Size() > 80 {
			t.Errorf("%v exceeds budget", chunk)
		}
		if !strings.HasSuffix(chunk.Text, ".") {
			t.Errorf("chunk %d does not end with a period: %q", chunk.Index, chunk.Text)
		}
	}
}

func TestSplit_OversizeSentence_KeptWhole(t *testing.T) {
	t.Parallel()

	var warnings strings.Builder
	long := strings.Repeat("c", 200) // Single sentence over the 80-char budget.

	c := NewChunker(WithBudget(80), WithWarnWriter(&warnings))
	got := c.Split(long)

	if len(got) != 1 {
		t.Fatalf("expected 1 oversize chunk, got %d", len(got))
	}
	if got[0].Size() <= 80 {
		t.Errorf("expected oversize chunk, got %d chars", got[0].Size())
	}
	if !strings.Contains(warnings.String(), "exceeds chunk budget") {
		t.Errorf("expected an oversize warning, got %q", warnings.String())
	}
}

func TestSplit_ReconstructsInput(t *testing.T) {
	t.Parallel()

	paragraphs := []string{
		"The mitochondria is the powerhouse of the cell.",
		"Photosynthesis converts light energy into chemical energy. It occurs in chloroplasts.",
		"Cellular respiration releases stored energy. Glucose is broken down. ATP is produced.",
		strings.Repeat("Long filler sentence for budget pressure. ", 6),
	}
	text := strings.Join(paragraphs, "\n\n")

	c := NewChunker(WithBudget(120))
	got := c.Split(text)

	if normalize(joinChunks(got)) != normalize(text) {
		t.Errorf("reconstruction mismatch:\n got: %q\nwant: %q",
			normalize(joinChunks(got)), normalize(text))
	}
	for i, chunk := range got {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("Some sentence here. ", 50)
	c := NewChunker(WithBudget(150))

	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_BudgetRespected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget int
		text   string
	}{
		{"small_budget", 50, strings.Repeat("tiny words here. ", 30)},
		{"medium_budget", 200, strings.Repeat("A sentence goes here. ", 40)},
		{"paragraphs", 300, strings.Repeat("Paragraph content.\n\n", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewChunker(WithBudget(tt.budget))
			for _, chunk := range c.Split(tt.text) {
				if chunk.Size() > tt.budget {
					t.Errorf("%v exceeds budget %d", chunk, tt.budget)
				}
			}
		})
	}
}
