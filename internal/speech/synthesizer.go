// Package speech wraps the external text-to-speech service and the PCM
// audio plumbing around it. The Synthesizer returns raw PCM16 samples;
// WAV framing happens at persistence time so the timeline assembler can
// splice samples directly.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-studyflow/internal/apierr"
)

// ElevenLabs API configuration.
const (
	defaultTTSBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID    = "kvQSb3naDTi3sgHwwBC1"
	defaultTTSModel   = "eleven_multilingual_v2"

	// defaultOutputFormat requests raw little-endian PCM16 so segments
	// can be spliced without decoding a container.
	defaultOutputFormat = "pcm_24000"

	// DefaultSampleRate matches defaultOutputFormat.
	DefaultSampleRate = 24000

	// defaultSynthesisTimeout bounds one synthesis call.
	defaultSynthesisTimeout = 30 * time.Second

	// maxAudioResponseSize caps the synthesis response read. 50MB is
	// far beyond any single dubbed segment.
	maxAudioResponseSize = 50 * 1024 * 1024
)

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize renders text as raw PCM16 samples at SampleRate.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// SampleRate reports the sample rate of returned audio.
	SampleRate() int
}

// httpDoer is an interface for HTTP clients.
// *http.Client implements this interface.
// This allows injecting mock clients in tests.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Synthesizer = (*ElevenLabsSynthesizer)(nil)

// ElevenLabsSynthesizer synthesizes speech through the ElevenLabs REST
// API.
type ElevenLabsSynthesizer struct {
	apiKey       string
	baseURL      string
	voiceID      string
	model        string
	outputFormat string
	sampleRate   int
	httpTimeout  time.Duration
	httpClient   httpDoer
}

// SynthOption configures an ElevenLabsSynthesizer.
type SynthOption func(*ElevenLabsSynthesizer)

// WithVoice sets the voice used for synthesis.
func WithVoice(voiceID string) SynthOption {
	return func(s *ElevenLabsSynthesizer) {
		if voiceID != "" {
			s.voiceID = voiceID
		}
	}
}

// WithTTSBaseURL sets a custom base URL (for testing or proxies).
func WithTTSBaseURL(url string) SynthOption {
	return func(s *ElevenLabsSynthesizer) {
		s.baseURL = url
	}
}

// WithTTSHTTPClient sets a custom HTTP client (for testing).
func WithTTSHTTPClient(c httpDoer) SynthOption {
	return func(s *ElevenLabsSynthesizer) {
		s.httpClient = c
	}
}

// NewElevenLabsSynthesizer creates a synthesizer. apiKey is required.
func NewElevenLabsSynthesizer(apiKey string, opts ...SynthOption) *ElevenLabsSynthesizer {
	s := &ElevenLabsSynthesizer{
		apiKey:       apiKey,
		baseURL:      defaultTTSBaseURL,
		voiceID:      defaultVoiceID,
		model:        defaultTTSModel,
		outputFormat: defaultOutputFormat,
		sampleRate:   DefaultSampleRate,
		httpTimeout:  defaultSynthesisTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.httpTimeout}
	}
	return s
}

// SampleRate reports the PCM sample rate of synthesized audio.
func (s *ElevenLabsSynthesizer) SampleRate() int { return s.sampleRate }

// ttsRequest is the ElevenLabs text-to-speech request body.
type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize renders text as raw PCM16 audio. Failures are classified
// into apierr sentinels; there are no retries at this layer.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) (_ []byte, err error) {
	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: s.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", s.baseURL, s.voiceID, s.outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("synthesis request timed out: %w", apierr.ErrTimeout)
		}
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyTTSError(resp.StatusCode, audio)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return audio, nil
}

// classifyTTSError maps HTTP status codes to apierr sentinels.
func classifyTTSError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("synthesis auth failed (HTTP %d): %s: %w", status, msg, apierr.ErrAuthFailed)
	case http.StatusTooManyRequests:
		return fmt.Errorf("synthesis rate limited: %s: %w", msg, apierr.ErrRateLimit)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("synthesis rejected (HTTP %d): %s: %w", status, msg, apierr.ErrBadRequest)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("synthesis timed out (HTTP %d): %w", status, apierr.ErrTimeout)
	}
	return fmt.Errorf("synthesis failed (HTTP %d): %s", status, msg)
}

// SaveAudio writes audio bytes to path, creating parent directories.
func SaveAudio(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save audio: %w", err)
	}
	return nil
}
