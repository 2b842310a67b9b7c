package speech

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEncodeDecodeWAV(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	wav := EncodeWAV(pcm, 24000)

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(wav), wavHeaderSize+len(pcm))
	}

	gotPCM, gotRate, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", gotRate)
	}
	if !bytes.Equal(gotPCM, pcm) {
		t.Errorf("pcm = %v, want %v", gotPCM, pcm)
	}
}

func TestDecodeWAV_Rejections(t *testing.T) {
	t.Parallel()

	stereo := EncodeWAV([]byte{0, 0, 0, 0}, 24000)
	stereo[22] = 2 // channel count

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrNotWAV},
		{"not_riff", []byte("ID3xxxxxxxxxxxxx"), ErrNotWAV},
		{"stereo", stereo, ErrUnsupportedWAV},
		{"header_only", []byte("RIFF\x04\x00\x00\x00WAVE"), ErrNotWAV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := DecodeWAV(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSilence(t *testing.T) {
	t.Parallel()

	got := Silence(500*time.Millisecond, 24000)
	if len(got) != 24000 { // 12000 samples * 2 bytes
		t.Errorf("silence length = %d, want 24000", len(got))
	}
	for _, b := range got {
		if b != 0 {
			t.Fatal("silence contains non-zero samples")
		}
	}

	if Silence(0, 24000) != nil {
		t.Error("zero duration should yield nil")
	}
	if Silence(-time.Second, 24000) != nil {
		t.Error("negative duration should yield nil")
	}
}

func TestPCMDuration(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 48000) // 24000 samples at 24kHz = 1s
	if got := PCMDuration(pcm, 24000); got != time.Second {
		t.Errorf("duration = %v, want 1s", got)
	}
	if got := PCMDuration(nil, 24000); got != 0 {
		t.Errorf("duration = %v, want 0", got)
	}
}
