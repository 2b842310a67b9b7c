package textgen

import (
	"context"
	"fmt"

	"github.com/alnah/go-studyflow/internal/lang"
)

// Translator translates text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// translateSystemPrompt instructs the generation service to translate.
// Technical terms and proper nouns stay in English; the register is
// spoken language, since translations feed a dubbed audio track.
const translateSystemPrompt = `You are a translator from English to %s.
Translate all normal text to %s.
Keep technical terms, names, and proper nouns in English.
Make the translation natural and easy to understand.
Don't make it too formal - use common spoken language.`

// Compile-time interface compliance check.
var _ Translator = (*CompleterTranslator)(nil)

// CompleterTranslator implements translation as a generation call, the
// way the text pipeline uses the same service for summaries.
type CompleterTranslator struct {
	completer Completer
}

// NewCompleterTranslator creates a Translator over the given Completer.
func NewCompleterTranslator(c Completer) *CompleterTranslator {
	return &CompleterTranslator{completer: c}
}

// Translate translates text into targetLang (an ISO 639-1 code or
// locale). English targets return the text unchanged without a call.
func (t *CompleterTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if lang.IsEnglish(targetLang) {
		return text, nil
	}

	name := lang.DisplayName(targetLang)
	system := fmt.Sprintf(translateSystemPrompt, name, name)

	out, err := t.completer.Complete(ctx, system, text)
	if err != nil {
		return "", fmt.Errorf("translation to %s failed: %w", name, err)
	}
	return out, nil
}
