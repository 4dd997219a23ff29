package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

func TestAssembleGroupsConsecutiveSpeakers(t *testing.T) {
	segments := []types.Segment{
		{Start: 0, End: 2, Text: "hi", Speaker: "SPEAKER 1"},
		{Start: 2, End: 5, Text: "there", Speaker: "SPEAKER 1"},
		{Start: 5, End: 7, Text: "ok", Speaker: "SPEAKER 2"},
	}

	blocks := Blocks(segments)
	require.Len(t, blocks, 2)
	assert.Equal(t, "SPEAKER 1", blocks[0].Speaker)
	assert.Equal(t, []string{"hi", "there"}, blocks[0].Texts)
	assert.Equal(t, "SPEAKER 2", blocks[1].Speaker)

	out := Assemble(segments)
	assert.Contains(t, out, "**SPEAKER 1** [0:00:00]\nhi there")
	assert.Contains(t, out, "**SPEAKER 2** [0:00:05]\nok")
	assert.Equal(t, 2, strings.Count(out, "**SPEAKER"))
}

func TestAssembleSingleSpeakerYieldsOneBlock(t *testing.T) {
	segments := []types.Segment{
		{Start: 0, End: 1, Text: "a", Speaker: "SPEAKER 1"},
		{Start: 1, End: 2, Text: "b", Speaker: "SPEAKER 1"},
		{Start: 2, End: 3, Text: "c", Speaker: "SPEAKER 1"},
	}
	require.Len(t, Blocks(segments), 1)
	assert.Equal(t, "**SPEAKER 1** [0:00:00]\na b c", Assemble(segments))
}

func TestAssembleAlternatingSpeakersYieldsOneBlockPerSegment(t *testing.T) {
	var segments []types.Segment
	for i := 0; i < 6; i++ {
		speaker := "SPEAKER 1"
		if i%2 == 1 {
			speaker = "SPEAKER 2"
		}
		segments = append(segments, types.Segment{
			Start: float64(i), End: float64(i + 1), Text: "x", Speaker: speaker,
		})
	}
	assert.Len(t, Blocks(segments), len(segments))
}

func TestAssembleIsDeterministic(t *testing.T) {
	segments := []types.Segment{
		{Start: 0.4, End: 2, Text: "  padded  ", Speaker: "SPEAKER 2"},
		{Start: 2, End: 5, Text: "more", Speaker: "SPEAKER 1"},
	}
	first := Assemble(segments)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Assemble(segments))
	}
}

func TestAssembleMissingSpeakerUsesPlaceholder(t *testing.T) {
	segments := []types.Segment{{Start: 0, End: 1, Text: "hello"}}
	out := Assemble(segments)
	assert.Contains(t, out, "**UNKNOWN_SPEAKER** [0:00:00]")
}

func TestAssembleRoundTripPreservesSpeakerChanges(t *testing.T) {
	segments := []types.Segment{
		{Start: 0, End: 1, Text: "a", Speaker: "SPEAKER 1"},
		{Start: 1, End: 2, Text: "b", Speaker: "SPEAKER 2"},
		{Start: 2, End: 3, Text: "c", Speaker: "SPEAKER 2"},
		{Start: 3, End: 4, Text: "d", Speaker: "SPEAKER 1"},
	}
	out := Assemble(segments)
	headers := strings.Count(out, "**SPEAKER")
	assert.Equal(t, SpeakerChanges(segments)+1, headers)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatTimestamp(0))
	assert.Equal(t, "0:00:05", FormatTimestamp(5))
	assert.Equal(t, "0:00:06", FormatTimestamp(5.6))
	assert.Equal(t, "0:01:05", FormatTimestamp(65.2))
	assert.Equal(t, "1:00:01", FormatTimestamp(3600.7))
	assert.Equal(t, "0:00:00", FormatTimestamp(-2))
}
