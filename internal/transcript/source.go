package transcript

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Source retrieves the caption track for a video reference.
//
// Implementations return ErrNoTranscript when the video has no caption
// track in any supported language variant; callers must surface that as
// an input condition (400-class), not an internal failure.
type Source interface {
	Fetch(ctx context.Context, videoRef string) ([]Segment, error)
}

// httpDoer is the subset of *http.Client used by VTTSource.
// This allows injecting mocks in tests.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultFetchTimeout bounds a caption download; a slow caption host
// must not stall a whole dubbing job.
const defaultFetchTimeout = 30 * time.Second

// VTTSource fetches a WebVTT caption document over HTTP and parses it
// into segments. The video reference is the caption track URL; resolving
// a video page to its caption URL is the job of an upstream collaborator.
type VTTSource struct {
	client httpDoer
}

// VTTSourceOption configures a VTTSource.
type VTTSourceOption func(*VTTSource)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(c httpDoer) VTTSourceOption {
	return func(s *VTTSource) {
		if c != nil {
			s.client = c
		}
	}
}

// NewVTTSource creates a VTTSource with a default timeout-bounded client.
func NewVTTSource(opts ...VTTSourceOption) *VTTSource {
	s := &VTTSource{
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads and parses the caption track at captionURL.
// Returns ErrNoTranscript if the document contains no usable cues.
func (s *VTTSource) Fetch(ctx context.Context, captionURL string) ([]Segment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create caption request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("caption track %s: %w", captionURL, ErrNoTranscript)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption download returned status %d", resp.StatusCode)
	}

	segments := ParseVTT(resp.Body)
	if len(segments) == 0 {
		return nil, fmt.Errorf("caption track %s has no cues: %w", captionURL, ErrNoTranscript)
	}
	return segments, nil
}
