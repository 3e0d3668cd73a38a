package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNegativeTimestamp reports a contract violation: SRT timestamps are
// non-negative by definition, so a negative input fails fast instead of
// producing a nonsensical timestamp.
var ErrNegativeTimestamp = errors.New("negative timestamp")

// FormatTimestamp renders seconds as an SRT timestamp "HH:MM:SS,mmm".
// The value is rounded to the nearest millisecond before the div/mod
// cascade, so FormatTimestamp(3661.5) == "01:01:01,500". Rounding (rather
// than truncation) is the documented choice here; tests byte-match it.
func FormatTimestamp(seconds float64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("format timestamp %f: %w", seconds, ErrNegativeTimestamp)
	}

	ms := int64(math.Round(seconds * 1000.0))
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	secs := ms / 1_000
	ms %= 1_000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms), nil
}

// ParseTimestamp converts an SRT timestamp back to seconds. A period is
// accepted in place of the standard comma millisecond separator.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// RenderSRT serializes cues as SRT text: a 1-based index line, a timing
// line, the cue text, and a blank line per cue.
func RenderSRT(cues []Cue) (string, error) {
	var b strings.Builder
	for i, cue := range cues {
		start, err := FormatTimestamp(cue.Start)
		if err != nil {
			return "", fmt.Errorf("cue %d start: %w", i+1, err)
		}
		end, err := FormatTimestamp(cue.End)
		if err != nil {
			return "", fmt.Errorf("cue %d end: %w", i+1, err)
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, start, end, cue.Text)
	}
	return b.String(), nil
}
