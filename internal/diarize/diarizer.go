package diarize

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/audio"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// Diarizer assigns anonymous speaker labels to transcribed segments by
// embedding each segment's audio slice and clustering the vectors.
type Diarizer struct {
	embedder Embedder
}

// New creates a Diarizer using the given embedding backend.
func New(embedder Embedder) *Diarizer {
	return &Diarizer{embedder: embedder}
}

// AssignSpeakers labels each segment in place with "SPEAKER n" for n in
// [1, numSpeakers]. Labels are only stable within one run; cluster 1 is
// not necessarily the first voice heard. On any failure — embedding error,
// invalid speaker count, clustering error — every segment gets the
// DIARIZATION_FAILED label and the pipeline continues.
func (d *Diarizer) AssignSpeakers(ctx context.Context, wave *audio.Wave, segments []types.Segment, numSpeakers int) []types.Segment {
	if err := d.assign(ctx, wave, segments, numSpeakers); err != nil {
		logrus.Warnf("Diarization failed, falling back to %s labels: %v", types.SpeakerDiarizationFailed, err)
		for i := range segments {
			segments[i].Speaker = types.SpeakerDiarizationFailed
		}
	}
	return segments
}

func (d *Diarizer) assign(ctx context.Context, wave *audio.Wave, segments []types.Segment, numSpeakers int) error {
	if len(segments) == 0 {
		return nil
	}

	duration := wave.Duration()
	embeddings := make([][]float64, len(segments))
	for i, seg := range segments {
		end := math.Min(duration, seg.End)
		if seg.Start >= end {
			// Empty slice after clamping; the clusterer still needs
			// one vector per segment.
			embeddings[i] = make([]float64, d.embedder.Dimension())
			continue
		}
		vec, err := d.embedder.Embed(ctx, wave.Crop(seg.Start, end), wave.SampleRate)
		if err != nil {
			return fmt.Errorf("embedding segment %d: %w", i, err)
		}
		embeddings[i] = vec
	}

	labels, err := Cluster(embeddings, numSpeakers)
	if err != nil {
		return fmt.Errorf("clustering: %w", err)
	}
	for i, label := range labels {
		segments[i].Speaker = fmt.Sprintf("SPEAKER %d", label+1)
	}
	return nil
}
