package mapreduce

import "fmt"

// Operation selects the transformation a pipeline run applies to the
// chunked text. Use the constants instead of string literals for
// compile-time safety.
type Operation string

const (
	// Summarize condenses educational content into a structured summary.
	Summarize Operation = "summarize"
	// ExtractClean cleans OCR output from scanned or handwritten notes
	// without summarizing it away.
	ExtractClean Operation = "extract-clean"
	// Questions generates practice questions with answers.
	Questions Operation = "questions"
)

// operationOrder is the canonical order for OperationNames().
var operationOrder = []Operation{Summarize, ExtractClean, Questions}

// Validate returns ErrUnknownOperation for operations not in the set.
func (op Operation) Validate() error {
	switch op {
	case Summarize, ExtractClean, Questions:
		return nil
	}
	return fmt.Errorf("unknown operation %q (supported: %v): %w", string(op), OperationNames(), ErrUnknownOperation)
}

// OperationNames returns the list of supported operation names in a
// stable order, for CLI help and error messages.
func OperationNames() []string {
	names := make([]string, len(operationOrder))
	for i, op := range operationOrder {
		names[i] = string(op)
	}
	return names
}

// Prompts are versioned with the binary; an update requires a rebuild.
// Map prompts process one part in isolation; reduce prompts combine the
// labeled partial outputs into one coherent result. Output format
// markers (SUMMARY:, KEY POINTS:, QUESTIONS:, ANSWERS:) match what the
// parse package recognizes.

const summarizeMapPrompt = `You are summarizing part %d of %d of educational content.

Guidelines:
- Capture all key ideas, insights, facts, and topics in this part.
- Remove filler words, repetition, and casual speech patterns.
- Do not mention speakers (e.g., "the host said", "she explains").
- Ignore promotional or sponsored content.
- Write from a neutral, third-person perspective in a professional,
  educational tone.
- The output should make sense even without the other parts.
- Do not add information not present in the text.

Output a single well-written paragraph or short set of paragraphs.`

const summarizeReducePrompt = `You are creating a final, comprehensive summary by combining summaries of multiple parts of the same content.

Guidelines:
- Capture all key ideas, insights, facts, and topics across the parts.
- Eliminate repetition between parts.
- Write from a neutral, third-person perspective in a professional,
  educational tone.
- The result must read as one complete, cohesive summary, not as
  separated parts.
- Do not add information not present in the provided summaries.
- Some parts may read "[segment unavailable]"; skip them silently.

Format your response exactly as:

SUMMARY:
[the summary]

KEY POINTS:
- [key point]
- [key point]`

const summarizeSinglePrompt = `You are summarizing educational content.

Guidelines:
- Capture all key ideas, insights, facts, and topics.
- Remove filler words, repetition, and casual speech patterns.
- Do not mention speakers (e.g., "the host said", "she explains").
- Write from a neutral, third-person perspective in a professional,
  educational tone.
- Do not add information not present in the text.

Format your response exactly as:

SUMMARY:
[the summary]

KEY POINTS:
- [key point]
- [key point]`

const extractCleanMapPrompt = `You are processing OCR-extracted text from part %d of %d of a handwritten or scanned document.

Guidelines:
- Preserve all original content. Do NOT summarize, shorten, or add
  information.
- Fix common OCR and handwriting errors (broken words, spacing,
  misread characters).
- Remove scanning noise (page numbers, stray symbols, repeated
  artifacts).
- Keep the original wording and structure; organize with headings only
  if the source has them.`

const extractCleanReducePrompt = `You receive cleaned OCR text from multiple parts of ONE document.

Guidelines:
- Treat all parts as one document.
- Merge broken sentences split across parts.
- Use consistent headings and formatting across parts.
- Preserve all content. Do NOT summarize, shorten, or add information.
- Some parts may read "[segment unavailable]"; skip them silently.

Output the single, clean, coherent document.`

const extractCleanSinglePrompt = `You are processing OCR-extracted text from a handwritten or scanned document.

Guidelines:
- Extract the text exactly as written. Do not add, remove, or change
  anything.
- Fix common OCR and handwriting errors (broken words, spacing,
  misread characters).
- Remove scanning noise (page numbers, stray symbols, repeated
  artifacts).
- Keep the original wording and structure; organize with headings only
  if the source has them.`

const questionsMapPrompt = `You are generating practice questions from part %d of %d of a document.
Create 2-3 high-quality questions from this part.
Include a clear answer for each question.`

const questionsReducePrompt = `You receive practice questions generated from multiple parts of the same document, labeled PART 1, PART 2, and so on.

Your task:
- Select the %d best questions overall.
- Remove duplicates and near-duplicates that test the same point.
- Keep the questions diverse (multiple choice, short answer,
  conceptual).
- Some parts may read "[segment unavailable]"; skip them silently.

Format your response exactly as:

QUESTIONS:
1. [Question 1]
2. [Question 2]

ANSWERS:
1. [Answer 1]
2. [Answer 2]

Ensure the number of questions and answers match exactly.`

const questionsSinglePrompt = `You are an educational question generator. Create %d practice questions based on the provided text.

Make questions diverse: multiple choice, short answer, and conceptual
questions.

Format your response exactly as:

QUESTIONS:
1. [Question 1]
2. [Question 2]

ANSWERS:
1. [Answer 1]
2. [Answer 2]

Ensure the number of questions and answers match exactly.`

// mapPrompt returns the system prompt for processing part idx (0-based)
// of total parts.
func (op Operation) mapPrompt(idx, total int) string {
	switch op {
	case ExtractClean:
		return fmt.Sprintf(extractCleanMapPrompt, idx+1, total)
	case Questions:
		return fmt.Sprintf(questionsMapPrompt, idx+1, total)
	default:
		return fmt.Sprintf(summarizeMapPrompt, idx+1, total)
	}
}

// reducePrompt returns the system prompt for combining partial outputs.
func (op Operation) reducePrompt(numQuestions int) string {
	switch op {
	case ExtractClean:
		return extractCleanReducePrompt
	case Questions:
		return fmt.Sprintf(questionsReducePrompt, numQuestions)
	default:
		return summarizeReducePrompt
	}
}

// singlePrompt returns the system prompt for single-chunk input, which
// skips the map phase entirely.
func (op Operation) singlePrompt(numQuestions int) string {
	switch op {
	case ExtractClean:
		return extractCleanSinglePrompt
	case Questions:
		return fmt.Sprintf(questionsSinglePrompt, numQuestions)
	default:
		return summarizeSinglePrompt
	}
}
