package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep/wav"
)

// Wave holds a decoded mono waveform addressable by time range.
type Wave struct {
	SampleRate int
	Samples    []float32
}

// Load decodes a WAV file into memory. Multi-channel input is averaged
// down to mono.
func Load(path string) (*Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %v", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode wav file: %v", err)
	}
	defer streamer.Close()

	samples := make([]float32, 0, streamer.Len())
	buf := make([][2]float64, 1024)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, float32((buf[i][0]+buf[i][1])/2))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %v", err)
	}

	return &Wave{SampleRate: int(format.SampleRate), Samples: samples}, nil
}

// Duration returns the total length of the waveform in seconds.
func (w *Wave) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Crop returns the waveform slice covering [start, end) in seconds.
// Bounds are clamped to the available samples; an inverted range
// yields an empty slice.
func (w *Wave) Crop(start, end float64) []float32 {
	lo := int(start * float64(w.SampleRate))
	hi := int(end * float64(w.SampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(w.Samples) {
		hi = len(w.Samples)
	}
	if lo >= hi {
		return nil
	}
	return w.Samples[lo:hi]
}
