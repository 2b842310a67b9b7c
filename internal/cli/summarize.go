package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyflow/internal/mapreduce"
	"github.com/alnah/go-studyflow/internal/parse"
)

// SummarizeCmd creates the summarize command.
// The env parameter provides injectable dependencies for testing.
func SummarizeCmd(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "summarize <file-or-caption-url>",
		Short: "Summarize a study document or video transcript",
		Long: `Summarize a study document into a structured overview.

The input is a local text file, or a caption URL whose transcript is
fetched and split along the media timeline. Long inputs are split into
chunks, each chunk is summarized independently, and the partial
summaries are combined into one cohesive result. Very long inputs are
sampled rather than processed in full.

Requires OPENAI_API_KEY.`,
		Example: `  studyflow summarize notes.txt
  studyflow summarize https://example.com/captions/abc123.vtt
  studyflow summarize lecture.md -o lecture-summary.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runTextOperation(cmd.Context(), env, args[0], mapreduce.Summarize, textOptions{
				Output:      output,
				DefaultName: "summary.md",
				Transform: func(raw string) string {
					return FormatSummary(parse.ParseSummary(raw))
				},
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, or summary.md in output-dir)")

	return cmd
}

// FormatSummary renders a parsed summary as markdown, falling back to
// the raw model output when no key points were recognized.
func FormatSummary(s parse.Summary) string {
	if len(s.KeyPoints) == 0 {
		return s.Raw
	}

	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString(s.Text)
	b.WriteString("\n\n## Key Points\n\n")
	for _, p := range s.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}
