package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyflow/internal/mapreduce"
	"github.com/alnah/go-studyflow/internal/parse"
)

// QuestionsCmd creates the questions command.
func QuestionsCmd(env *Env) *cobra.Command {
	var (
		output string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "questions <file-or-caption-url>",
		Short: "Generate practice questions from a study document",
		Long: `Generate practice questions with answers from a study document or a
video transcript fetched from a caption URL.

Long inputs are chunked; questions are generated per chunk and the
best ones are selected and deduplicated. Output that follows the
expected format is rendered as paired question/answer lists; anything
else is passed through as-is.

Requires OPENAI_API_KEY.`,
		Example: `  studyflow questions chapter3.txt
  studyflow questions notes.md -n 5 -o quiz.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runTextOperation(cmd.Context(), env, args[0], mapreduce.Questions, textOptions{
				Output:       output,
				DefaultName:  "questions.md",
				PipelineOpts: []mapreduce.PipelineOption{mapreduce.WithNumQuestions(count)},
				Transform: func(raw string) string {
					qs := parse.ParseQuestions(raw)
					if len(qs.Questions) > 0 {
						fmt.Fprintf(env.Stderr, "Generated %d question/answer pairs\n", len(qs.Questions))
					}
					return FormatQuestionSet(qs)
				},
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, or questions.md in output-dir)")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of questions to generate")

	return cmd
}

// FormatQuestionSet renders a parsed question set as markdown, falling
// back to the raw model output when no structure was recognized.
func FormatQuestionSet(qs parse.QuestionSet) string {
	if len(qs.Questions) == 0 {
		return qs.Raw
	}

	var b strings.Builder
	b.WriteString("## Questions\n\n")
	for i, q := range qs.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	if len(qs.Answers) > 0 {
		b.WriteString("\n## Answers\n\n")
		for i, a := range qs.Answers {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a)
		}
	}
	return b.String()
}
