package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ffmpeg prints stream info on stderr. Duration appears as
// "Duration: HH:MM:SS.cc"; progress lines carry "time=HH:MM:SS.cc".
var (
	durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	timeRe     = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// parseDuration extracts the playable duration from ffmpeg output.
// Prefers the Duration header; falls back to the last progress time.
// Returns ErrDurationUnknown when neither is present.
func parseDuration(output string) (time.Duration, error) {
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return timeComponents(matches[1], matches[2], matches[3], matches[4]), nil
	}

	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return timeComponents(matches[1], matches[2], matches[3], matches[4]), nil
	}

	return 0, fmt.Errorf("%w: no duration in ffmpeg output", ErrDurationUnknown)
}

// timeComponents converts HH:MM:SS.frac strings to a Duration.
// The fractional part may carry 1-6+ digits and is normalized to
// milliseconds.
func timeComponents(hours, minutes, seconds, fractional string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}
