package caption

import (
	"strings"

	"github.com/kbukum/podscribe/timeline"
)

// LabelSeparator sits between the speaker label and the text in diarized
// output. It is the full-width colon U+FF1A.
const LabelSeparator = "："

// RenderDiarized renders one "label：text" line per segment.
func RenderDiarized(segments []timeline.LabeledSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Speaker)
		b.WriteString(LabelSeparator)
		b.WriteString(seg.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderPlain concatenates all segment texts with no separator.
func RenderPlain(segments []timeline.LabeledSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
