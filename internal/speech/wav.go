package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// WAV framing for mono PCM16 audio. Segments travel as raw samples and
// get a RIFF header only when written to disk.

var (
	// ErrNotWAV means the data does not carry a RIFF/WAVE header.
	ErrNotWAV = errors.New("not a WAV file")

	// ErrUnsupportedWAV means the WAV is not mono PCM16.
	ErrUnsupportedWAV = errors.New("unsupported WAV format")
)

const (
	wavHeaderSize  = 44
	bytesPerSample = 2
)

// EncodeWAV frames raw mono PCM16 samples as a WAV file.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	out := make([]byte, wavHeaderSize+len(pcm))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(out[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(out[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(out[34:36], 16) // bits per sample

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)

	return out
}

// DecodeWAV extracts raw PCM samples and the sample rate from a mono
// PCM16 WAV file. Chunks other than fmt and data are skipped.
func DecodeWAV(data []byte) (pcm []byte, sampleRate int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, ErrNotWAV
	}

	var haveFmt bool
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk: %w", id, ErrNotWAV)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("short fmt chunk: %w", ErrNotWAV)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			channels := binary.LittleEndian.Uint16(data[body+2 : body+4])
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if format != 1 || channels != 1 || bits != 16 {
				return nil, 0, fmt.Errorf("format=%d channels=%d bits=%d: %w",
					format, channels, bits, ErrUnsupportedWAV)
			}
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size + size%2
	}

	if !haveFmt || pcm == nil {
		return nil, 0, fmt.Errorf("missing fmt or data chunk: %w", ErrNotWAV)
	}
	return pcm, sampleRate, nil
}

// Silence returns d worth of PCM16 silence at the given sample rate.
func Silence(d time.Duration, sampleRate int) []byte {
	if d <= 0 {
		return nil
	}
	samples := int(float64(sampleRate) * d.Seconds())
	return make([]byte, samples*bytesPerSample)
}

// PCMDuration reports the playback duration of raw PCM16 samples.
func PCMDuration(pcm []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(pcm) / bytesPerSample
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}
