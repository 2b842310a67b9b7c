// Package extract defines the document text extraction contracts the
// text pipeline consumes. Only plain text is handled in-process;
// binary formats (PDF, DOCX, slides) and image OCR are collaborator
// concerns behind the same interfaces.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-studyflow/internal/chunk"
)

// ErrUnsupportedFormat marks file types no registered extractor
// handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor pulls the full text out of a document file.
type Extractor interface {
	Extract(path string) (string, error)
}

// ImageReader extracts text from an image of handwritten or printed
// notes. Implementations run OCR and live outside this module.
type ImageReader interface {
	ExtractFromImage(ctx context.Context, imagePath string) (string, error)
}

// Compile-time interface compliance check.
var _ Extractor = (*TextExtractor)(nil)

// TextExtractor reads plain-text documents.
type TextExtractor struct{}

// Extract reads the file as UTF-8 text. Non-text formats are rejected
// with ErrUnsupportedFormat instead of being read raw.
func (TextExtractor) Extract(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", "":
	default:
		return "", fmt.Errorf("%s files: %w", ext, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ExtractChunked extracts the document text and splits it into
// pipeline-sized chunks.
func ExtractChunked(e Extractor, path string, chunker *chunk.Chunker) ([]chunk.Chunk, error) {
	text, err := e.Extract(path)
	if err != nil {
		return nil, err
	}
	return chunker.Split(text), nil
}
