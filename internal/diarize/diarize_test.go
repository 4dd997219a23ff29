package diarize

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakh-abhayan/Maki-ai/internal/audio"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// stubEmbedder lets tests control the vector returned per slice.
type stubEmbedder struct {
	dim int
	fn  func(samples []float32) ([]float64, error)
}

func (s *stubEmbedder) Embed(_ context.Context, samples []float32, _ int) ([]float64, error) {
	return s.fn(samples)
}

func (s *stubEmbedder) Dimension() int { return s.dim }

func meanAmplitude(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += float64(v)
	}
	return sum / float64(len(samples))
}

func TestClusterSeparatesObviousGroups(t *testing.T) {
	embeddings := [][]float64{
		{0.1, 0.2}, {0.0, 0.1}, {10.0, 10.1}, {0.2, 0.0}, {9.9, 10.0},
	}
	labels, err := Cluster(embeddings, 2)
	require.NoError(t, err)
	require.Len(t, labels, 5)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[3])
	assert.Equal(t, labels[2], labels[4])
	assert.NotEqual(t, labels[0], labels[2])
	// First row always takes label 0.
	assert.Equal(t, 0, labels[0])
}

func TestClusterProducesExactlyKLabels(t *testing.T) {
	embeddings := [][]float64{
		{0, 0}, {0.1, 0}, {5, 5}, {5.1, 5}, {20, 20}, {20, 20.1},
	}
	for k := 1; k <= len(embeddings); k++ {
		labels, err := Cluster(embeddings, k)
		require.NoError(t, err)
		distinct := map[int]bool{}
		for _, l := range labels {
			assert.GreaterOrEqual(t, l, 0)
			assert.Less(t, l, k)
			distinct[l] = true
		}
		assert.Len(t, distinct, k, "k=%d", k)
	}
}

func TestClusterIsDeterministic(t *testing.T) {
	embeddings := [][]float64{
		{1, 2}, {1.1, 2}, {8, 1}, {8.2, 1.1}, {4, 4},
	}
	first, err := Cluster(embeddings, 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Cluster(embeddings, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClusterZeroesNonFiniteValues(t *testing.T) {
	embeddings := [][]float64{
		{math.NaN(), 1}, {0, 1.1}, {math.Inf(1), 9}, {0, 9.2},
	}
	labels, err := Cluster(embeddings, 2)
	require.NoError(t, err)
	// NaN/Inf entries are treated as zero, so rows pair up by the
	// finite coordinate.
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
}

func TestClusterRejectsInvalidK(t *testing.T) {
	embeddings := [][]float64{{1, 1}, {2, 2}}

	_, err := Cluster(embeddings, 0)
	assert.Error(t, err)

	_, err = Cluster(embeddings, -1)
	assert.Error(t, err)

	_, err = Cluster(embeddings, 3)
	assert.Error(t, err)
}

// buildWave creates a 7s mono waveform where the first 5 seconds are
// quiet and the last 2 seconds are loud, giving two separable voices.
func buildWave() *audio.Wave {
	rate := 16000
	samples := make([]float32, 7*rate)
	for i := range samples {
		if i < 5*rate {
			samples[i] = 0.1
		} else {
			samples[i] = 0.9
		}
	}
	return &audio.Wave{SampleRate: rate, Samples: samples}
}

func TestAssignSpeakersEndToEnd(t *testing.T) {
	embedder := &stubEmbedder{dim: 2, fn: func(samples []float32) ([]float64, error) {
		m := meanAmplitude(samples)
		return []float64{m, m}, nil
	}}
	d := New(embedder)

	segments := []types.Segment{
		{Start: 0, End: 2, Text: "hi"},
		{Start: 2, End: 5, Text: "there"},
		{Start: 5, End: 7, Text: "ok"},
	}
	got := d.AssignSpeakers(context.Background(), buildWave(), segments, 2)

	require.Len(t, got, 3)
	assert.Equal(t, "SPEAKER 1", got[0].Speaker)
	assert.Equal(t, "SPEAKER 1", got[1].Speaker)
	assert.Equal(t, "SPEAKER 2", got[2].Speaker)
}

func TestAssignSpeakersClampsSegmentBeyondDuration(t *testing.T) {
	embedder := &stubEmbedder{dim: 2, fn: func(samples []float32) ([]float64, error) {
		m := meanAmplitude(samples)
		return []float64{m, m}, nil
	}}
	d := New(embedder)

	// Second segment starts past the end of the audio; it still gets a
	// label via its zero-filled embedding.
	segments := []types.Segment{
		{Start: 0, End: 2, Text: "hi"},
		{Start: 99, End: 101, Text: "ghost"},
	}
	got := d.AssignSpeakers(context.Background(), buildWave(), segments, 2)
	assert.NotEmpty(t, got[0].Speaker)
	assert.NotEmpty(t, got[1].Speaker)
	assert.NotEqual(t, types.SpeakerDiarizationFailed, got[0].Speaker)
}

func TestAssignSpeakersFallsBackOnEmbedderError(t *testing.T) {
	embedder := &stubEmbedder{dim: 2, fn: func([]float32) ([]float64, error) {
		return nil, errors.New("model exploded")
	}}
	d := New(embedder)

	segments := []types.Segment{
		{Start: 0, End: 2, Text: "hi"},
		{Start: 2, End: 5, Text: "there"},
	}
	got := d.AssignSpeakers(context.Background(), buildWave(), segments, 2)
	for _, seg := range got {
		assert.Equal(t, types.SpeakerDiarizationFailed, seg.Speaker)
	}
	// Text and timing survive the fallback untouched.
	assert.Equal(t, "hi", got[0].Text)
	assert.Equal(t, 2.0, got[1].Start)
}

func TestAssignSpeakersFallsBackWhenKExceedsSegments(t *testing.T) {
	embedder := &stubEmbedder{dim: 2, fn: func(samples []float32) ([]float64, error) {
		return []float64{1, 1}, nil
	}}
	d := New(embedder)

	segments := []types.Segment{{Start: 0, End: 2, Text: "hi"}}
	got := d.AssignSpeakers(context.Background(), buildWave(), segments, 5)
	assert.Equal(t, types.SpeakerDiarizationFailed, got[0].Speaker)
}
