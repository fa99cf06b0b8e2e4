package whispercpp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// readWAV loads a 16-bit PCM WAV file and returns mono float32 samples plus
// the sample rate. Multi-channel audio is downmixed by averaging.
func readWAV(path string) ([]float32, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read wav: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a RIFF/WAVE file")
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		pcm           []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, errors.New("wav fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, fmt.Errorf("unsupported wav format %d, expected PCM", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if sampleRate == 0 || channels == 0 {
		return nil, 0, errors.New("wav fmt chunk missing")
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported wav bit depth %d, expected 16", bitsPerSample)
	}
	if len(pcm) == 0 {
		return nil, 0, errors.New("wav data chunk missing")
	}

	frameSize := 2 * channels
	frames := len(pcm) / frameSize
	samples := make([]float32, frames)
	const scale = 1.0 / 32768.0
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(pcm[i*frameSize+ch*2:]))
			sum += float64(raw)
		}
		samples[i] = float32(sum / float64(channels) * scale)
	}

	return samples, sampleRate, nil
}
