// Package timecode converts completion times between the "M:SS.mmm" form used
// on the wire and the integer millisecond count stored in the database.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	millisPerSecond = 1000
	millisPerMinute = 60000
)

// PadMilliseconds right-pads a fractional component with zero digits until it
// is exactly 3 digits long, so "18" means 180ms rather than 18ms. Submission
// forms send two fractional digits; stored values are always thousandths.
func PadMilliseconds(ms string) string {
	for len(ms) < 3 {
		ms += "0"
	}
	return ms
}

// Encode converts minute, second and millisecond strings into a single
// millisecond count. Empty components count as zero. The millisecond string
// must already be expressed in thousandths (see PadMilliseconds).
func Encode(minutes, seconds, milliseconds string) (int, error) {
	total := 0

	components := []struct {
		value      string
		multiplier int
	}{
		{milliseconds, 1},
		{seconds, millisPerSecond},
		{minutes, millisPerMinute},
	}

	for _, c := range components {
		if c.value == "" {
			continue
		}
		n, err := strconv.Atoi(c.value)
		if err != nil {
			return 0, fmt.Errorf("invalid time component %q: %w", c.value, err)
		}
		total += n * c.multiplier
	}

	return total, nil
}

// Decode splits a millisecond count into minutes, seconds and milliseconds.
func Decode(timeMillis int) (minutes, seconds, milliseconds int) {
	milliseconds = timeMillis % millisPerSecond
	timeMillis /= millisPerSecond
	seconds = timeMillis % 60
	timeMillis /= 60
	minutes = timeMillis
	return minutes, seconds, milliseconds
}

// Format renders a millisecond count as "M:SS.mmm".
func Format(timeMillis int) string {
	minutes, seconds, milliseconds := Decode(timeMillis)
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, milliseconds)
}

// Parse splits a "M:SS.mmm" string into its component strings without
// encoding them. The minute part is optional (defaults to "0"), as is the
// fractional part (defaults to "0"). Returned in the order Encode expects.
func Parse(timeStr string) (msStr, secStr, minStr string) {
	minStr = "0"
	secMS := timeStr

	if idx := strings.Index(timeStr, ":"); idx >= 0 {
		minStr = timeStr[:idx]
		secMS = timeStr[idx+1:]
	}

	secStr = secMS
	msStr = "0"

	if idx := strings.Index(secMS, "."); idx >= 0 {
		secStr = secMS[:idx]
		msStr = secMS[idx+1:]
	}

	return msStr, secStr, minStr
}

// ParseToMillis parses a full time string straight to a millisecond count.
func ParseToMillis(timeStr string) (int, error) {
	msStr, secStr, minStr := Parse(timeStr)
	return Encode(minStr, secStr, msStr)
}
