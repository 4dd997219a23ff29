package transcript

import (
	"fmt"
	"os"
	"strings"

	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// WriteText writes the assembled transcript to path.
func WriteText(path string, segments []types.Segment) error {
	return os.WriteFile(path, []byte(Assemble(segments)), 0644)
}

// WriteSRT writes the segments as a SubRip (.srt) subtitle file with the
// speaker label prefixed to each cue. Cues are numbered sequentially with
// start/end timestamps in HH:MM:SS,mmm format.
func WriteSRT(path string, segments []types.Segment) error {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		speaker := seg.Speaker
		if speaker == "" {
			speaker = types.SpeakerUnknown
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTimestamp(seg.Start), formatSRTTimestamp(seg.End))
		fmt.Fprintf(&b, "%s: %s\n", speaker, strings.TrimSpace(seg.Text))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// formatSRTTimestamp formats seconds as HH:MM:SS,mmm (SRT subtitle format).
func formatSRTTimestamp(secs float64) string {
	if secs < 0 {
		secs = 0
	}
	total := int(secs)
	ms := int((secs - float64(total)) * 1000)
	h := total / 3600
	m := total / 60 % 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
