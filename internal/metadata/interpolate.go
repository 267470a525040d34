package metadata

import (
	"math"

	"cueforge/internal/cue"
	"cueforge/internal/timecode"
)

// Interpolate rescales a list of provider-reported relative durations so
// their sum matches the known total audio length, then lays the tracks out
// end to end from offset zero. Rounding to whole frames happens per track,
// not cumulatively, so the laid-out total matches the target within N frames
// for N tracks. When the provider's durations sum to zero the ratio is 1,
// which degenerates to a plain cumulative layout.
func Interpolate(tracks []ResultTrack, totalFrames int) []cue.Track {
	durations := make([]float64, len(tracks))
	var providerTotal float64
	for i, t := range tracks {
		durations[i] = float64(timecode.MMSSToSeconds(t.Duration))
		providerTotal += durations[i]
	}

	ratio := 1.0
	if providerTotal > 0 {
		targetSeconds := float64(totalFrames) / timecode.FramesPerSecond
		ratio = targetSeconds / providerTotal
	}

	out := make([]cue.Track, 0, len(tracks))
	offset := 0
	for i, t := range tracks {
		out = append(out, cue.Track{
			Number:    t.Number,
			Title:     t.Title,
			Performer: t.Performer,
			Index01:   offset,
		})
		offset += int(math.Round(durations[i] * ratio * timecode.FramesPerSecond))
	}
	return out
}

// CumulativeLayout converts relative durations into absolute offsets without
// rescaling: each track starts where the previous one's reported duration
// ended.
func CumulativeLayout(tracks []ResultTrack) []ResultTrack {
	out := make([]ResultTrack, len(tracks))
	offset := 0
	for i, t := range tracks {
		t.Index01 = offset
		out[i] = t
		offset += timecode.MMSSToSeconds(t.Duration) * timecode.FramesPerSecond
	}
	return out
}
