// Package timecode converts between CUE frame counts and their textual
// M:SS:FF representation. A frame is 1/75th of a second, the native time
// unit of the CUE sheet format.
package timecode

import (
	"regexp"
	"strconv"
	"strings"
)

// FramesPerSecond is the CUE sector rate.
const FramesPerSecond = 75

var strictTimeFormat = regexp.MustCompile(`^\d+:\d{2}:\d{2}$`)

// FramesToTime renders a frame count as "M:SS:FF". Seconds and frames are
// zero-padded to two digits; minutes grow unbounded (105 minutes renders as
// "105:00:00"). Negative input is clamped to zero.
func FramesToTime(frames int) string {
	if frames < 0 {
		frames = 0
	}

	f := frames % FramesPerSecond
	seconds := frames / FramesPerSecond
	s := seconds % 60
	m := seconds / 60

	return strconv.Itoa(m) + ":" + pad2(s) + ":" + pad2(f)
}

// TimeToFrames parses "M:SS:FF" or "M:SS" (frames implied zero) into a frame
// count. Malformed input degrades to 0 instead of failing: live-typed text
// must never crash the editor. A single bare number is ambiguous and is
// rejected the same way.
func TimeToFrames(s string) int {
	parts := strings.Split(s, ":")

	var m, sec, f int
	switch len(parts) {
	case 3:
		var ok bool
		if m, ok = num(parts[0]); !ok {
			return 0
		}
		if sec, ok = num(parts[1]); !ok {
			return 0
		}
		if f, ok = num(parts[2]); !ok {
			return 0
		}
	case 2:
		var ok bool
		if m, ok = num(parts[0]); !ok {
			return 0
		}
		if sec, ok = num(parts[1]); !ok {
			return 0
		}
	default:
		return 0
	}

	return m*60*FramesPerSecond + sec*FramesPerSecond + f
}

// IsValidTimeFormat reports whether s is strictly "M:SS:FF" with two-digit
// seconds and frames. It gates input styling only; TimeToFrames stays
// permissive regardless.
func IsValidTimeFormat(s string) bool {
	return strictTimeFormat.MatchString(s)
}

// MMSSToSeconds parses "MM:SS" or "HH:MM:SS" into whole seconds.
// Unrecognized shapes return 0.
func MMSSToSeconds(s string) int {
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 2:
		m, ok1 := num(parts[0])
		sec, ok2 := num(parts[1])
		if !ok1 || !ok2 {
			return 0
		}
		return m*60 + sec
	case 3:
		h, ok1 := num(parts[0])
		m, ok2 := num(parts[1])
		sec, ok3 := num(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return 0
		}
		return h*3600 + m*60 + sec
	}
	return 0
}

func num(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
