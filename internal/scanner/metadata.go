package scanner

import (
	"fmt"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// bytes per decoded sample: 16-bit stereo output from go-mp3
const bytesPerSample = 4

// extractDuration decodes the MP3 header and computes the track
// duration in whole seconds from decoded length and sample rate.
func extractDuration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	sampleRate := dec.SampleRate()
	if sampleRate <= 0 {
		return 0, fmt.Errorf("invalid sample rate in %s", path)
	}

	seconds := dec.Length() / int64(bytesPerSample*sampleRate)
	return int(seconds), nil
}
