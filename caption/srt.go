package caption

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/timeline"
)

const (
	timingSeparator = " --> "
	// absorbs float noise such as 2.3*1000 == 2299.9999999999995
	msEpsilon = 1e-6
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are
// truncated, never rounded. Negative values render as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + msEpsilon))
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s%3600)/60, s%60, ms)
}

// ParseTimestamp parses HH:MM:SS,mmm into seconds. A period is accepted in
// place of the comma.
func ParseTimestamp(value string) (float64, error) {
	v := strings.TrimSpace(value)
	clock, frac, ok := strings.Cut(strings.Replace(v, ".", ",", 1), ",")
	if !ok {
		return 0, apperrors.InvalidFormat("timestamp", "HH:MM:SS,mmm")
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 || len(frac) == 0 || len(frac) > 3 {
		return 0, apperrors.InvalidFormat("timestamp", "HH:MM:SS,mmm")
	}

	var fields [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, apperrors.InvalidFormat("timestamp", "HH:MM:SS,mmm")
		}
		fields[i] = n
	}
	ms, err := strconv.ParseInt(frac+strings.Repeat("0", 3-len(frac)), 10, 64)
	if err != nil || ms < 0 {
		return 0, apperrors.InvalidFormat("timestamp", "HH:MM:SS,mmm")
	}

	total := ((fields[0]*3600+fields[1]*60+fields[2])*1000 + ms)
	return float64(total) / 1000, nil
}

// RenderSRT renders segments as numbered SubRip entries starting at 1.
// Speaker labels are not part of the caption text.
func RenderSRT(segments []timeline.LabeledSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		b.WriteString(FormatTimestamp(seg.Interval.Start))
		b.WriteString(timingSeparator)
		b.WriteString(FormatTimestamp(seg.Interval.End))
		b.WriteByte('\n')
		b.WriteString(captionText(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// captionText removes blank lines, which would end the entry early.
func captionText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// ParseSRT reads SubRip entries. Segment indexes are assigned in reading
// order starting at 0; the entry numbers in the file are not trusted.
// Every parsed interval is validated.
func ParseSRT(r io.Reader) ([]timeline.Segment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		segments []timeline.Segment
		block    []string
		lineNo   int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		seg, err := parseBlock(len(segments), block, lineNo)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
		block = block[:0]
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segments, nil
}

func parseBlock(index int, block []string, endLine int) (timeline.Segment, error) {
	invalid := func(reason string) error {
		return apperrors.InvalidFormat("srt", reason).
			WithDetail("entry", index+1).
			WithDetail("line", endLine)
	}
	if len(block) < 2 {
		return timeline.Segment{}, invalid("entry needs a number line and a timing line")
	}
	if _, err := strconv.Atoi(strings.TrimSpace(block[0])); err != nil {
		return timeline.Segment{}, invalid("entry number is not an integer")
	}
	startRaw, endRaw, ok := strings.Cut(block[1], "-->")
	if !ok {
		return timeline.Segment{}, invalid("timing line must contain -->")
	}
	start, err := ParseTimestamp(startRaw)
	if err != nil {
		return timeline.Segment{}, invalid("bad start timestamp")
	}
	// trailing positioning hints such as "X1:..." are ignored
	endFields := strings.Fields(endRaw)
	if len(endFields) == 0 {
		return timeline.Segment{}, invalid("missing end timestamp")
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return timeline.Segment{}, invalid("bad end timestamp")
	}
	return timeline.NewSegment(index, start, end, strings.Join(block[2:], "\n"))
}
