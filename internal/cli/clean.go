package cli

import (
	"github.com/spf13/cobra"

	"github.com/alnah/go-studyflow/internal/mapreduce"
)

// CleanCmd creates the clean command for OCR text cleanup.
func CleanCmd(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean up OCR text from scanned notes",
		Long: `Clean up OCR-extracted text from handwritten or scanned notes.

Fixes broken words, spacing, and misread characters, and strips
scanning noise, without summarizing or dropping content. The input is
the raw OCR text; running the OCR itself is out of scope.

Requires OPENAI_API_KEY.`,
		Example: `  studyflow clean scanned-notes.txt
  studyflow clean ocr-dump.txt -o cleaned.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runTextOperation(cmd.Context(), env, args[0], mapreduce.ExtractClean, textOptions{
				Output:      output,
				DefaultName: "cleaned.md",
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, or cleaned.md in output-dir)")

	return cmd
}
