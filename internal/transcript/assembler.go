// Package transcript renders speaker-labeled segments into the final
// human-readable meeting transcript.
package transcript

import (
	"fmt"
	"math"
	"strings"

	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// Block is a maximal run of consecutive segments sharing one speaker label.
type Block struct {
	Speaker string
	Start   float64
	Texts   []string
}

// Blocks groups time-ordered segments into speaker blocks. A new block
// starts whenever the speaker label changes. Segments without a label
// fall under the UNKNOWN_SPEAKER placeholder.
func Blocks(segments []types.Segment) []Block {
	var blocks []Block
	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = types.SpeakerUnknown
		}
		text := strings.TrimSpace(seg.Text)
		if len(blocks) == 0 || blocks[len(blocks)-1].Speaker != speaker {
			blocks = append(blocks, Block{Speaker: speaker, Start: seg.Start})
		}
		blocks[len(blocks)-1].Texts = append(blocks[len(blocks)-1].Texts, text)
	}
	return blocks
}

// Assemble renders the transcript as a single string. Each block opens
// with a header line carrying the speaker label and the block's start
// time, followed by the block's text; blocks are separated by a blank
// line. Output is byte-identical across runs for identical input.
func Assemble(segments []types.Segment) string {
	var b strings.Builder
	for i, blk := range Blocks(segments) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s** [%s]\n", blk.Speaker, FormatTimestamp(blk.Start))
		b.WriteString(strings.Join(blk.Texts, " "))
	}
	return b.String()
}

// SpeakerChanges counts the label transitions in a labeled segment list.
// Blocks(segments) always has SpeakerChanges(segments)+1 entries for a
// non-empty list.
func SpeakerChanges(segments []types.Segment) int {
	blocks := Blocks(segments)
	if len(blocks) == 0 {
		return 0
	}
	return len(blocks) - 1
}

// FormatTimestamp formats seconds as H:MM:SS, rounded to the nearest
// whole second. Hours carry no leading zero.
func FormatTimestamp(secs float64) string {
	total := int(math.Round(secs))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := total / 60 % 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
