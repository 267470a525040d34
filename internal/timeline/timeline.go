// Package timeline implements the edit operations over a track list. Every
// operation takes the current sequence and returns a new one; the input is
// never mutated, so callers can treat sequences as values.
package timeline

import "cueforge/internal/cue"

// defaultRowGap is the start offset added for a newly appended row:
// 200 seconds in frames.
const defaultRowGap = 15000

// Retime sets track i's start offset without touching any other track. No
// ordering is enforced; a literal user edit may leave the list unordered,
// and Ordered exposes that state to the caller.
func Retime(tracks []cue.Track, i, frames int) []cue.Track {
	if i < 0 || i >= len(tracks) {
		return clone(tracks)
	}
	out := clone(tracks)
	out[i].Index01 = frames
	return out
}

// SetDuration changes the derived duration of track i by shifting the start
// of every subsequent track by the same delta. Each later track keeps its
// own duration; only track i's changes. The last track's duration is derived
// from the total audio length, so editing it is a no-op here.
func SetDuration(tracks []cue.Track, i, durationFrames int) []cue.Track {
	out := clone(tracks)
	if i < 0 || i >= len(tracks)-1 {
		return out
	}

	current := tracks[i+1].Index01 - tracks[i].Index01
	delta := durationFrames - current
	for j := i + 1; j < len(out); j++ {
		out[j].Index01 += delta
	}
	return out
}

// AddRow appends a new untitled track starting defaultRowGap frames after
// the last track, or at zero when the list is empty.
func AddRow(tracks []cue.Track) []cue.Track {
	start := 0
	if len(tracks) > 0 {
		start = tracks[len(tracks)-1].Index01 + defaultRowGap
	}
	out := clone(tracks)
	return append(out, cue.Track{Number: len(tracks) + 1, Index01: start})
}

// Delete removes the track at position i and renumbers the remainder to a
// dense 1..N sequence. No start offset changes.
func Delete(tracks []cue.Track, i int) []cue.Track {
	if i < 0 || i >= len(tracks) {
		return clone(tracks)
	}
	out := make([]cue.Track, 0, len(tracks)-1)
	out = append(out, tracks[:i]...)
	out = append(out, tracks[i+1:]...)
	return Renumber(out)
}

// SetTitle sets track i's title. No timing side effects.
func SetTitle(tracks []cue.Track, i int, title string) []cue.Track {
	out := clone(tracks)
	if i >= 0 && i < len(out) {
		out[i].Title = title
	}
	return out
}

// SetPerformer sets track i's performer. No timing side effects.
func SetPerformer(tracks []cue.Track, i int, performer string) []cue.Track {
	out := clone(tracks)
	if i >= 0 && i < len(out) {
		out[i].Performer = performer
	}
	return out
}

// Renumber returns the sequence with track numbers rewritten to 1..N.
func Renumber(tracks []cue.Track) []cue.Track {
	out := clone(tracks)
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}

// Ordered reports whether start offsets are non-decreasing. Duration math
// downstream assumes this holds.
func Ordered(tracks []cue.Track) bool {
	for i := 1; i < len(tracks); i++ {
		if tracks[i].Index01 < tracks[i-1].Index01 {
			return false
		}
	}
	return true
}

func clone(tracks []cue.Track) []cue.Track {
	out := make([]cue.Track, len(tracks))
	copy(out, tracks)
	return out
}
