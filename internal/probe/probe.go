// Package probe reads a selected audio file's duration and tags. The
// reported duration, converted to frames, is the authoritative total length
// of the sheet's timeline; the tags are offered as fill-ins for empty
// header fields.
package probe

import (
	"fmt"

	"go.senan.xyz/taglib"

	"cueforge/internal/timecode"
)

// Info is what a probed audio file contributes to the editing session.
type Info struct {
	DurationFrames int
	Title          string
	Artist         string
	Year           string
	Genre          string
}

// Probe reads duration and tags from the audio file at path.
func Probe(path string) (*Info, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio properties from %s: %w", path, err)
	}

	info := &Info{
		DurationFrames: int(props.Length.Seconds() * timecode.FramesPerSecond),
	}

	// Tags are optional; a file with none still yields its duration.
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return info, nil
	}
	info.Title = firstTag(tags, taglib.Album)
	if info.Title == "" {
		info.Title = firstTag(tags, taglib.Title)
	}
	info.Artist = firstTag(tags, taglib.AlbumArtist)
	if info.Artist == "" {
		info.Artist = firstTag(tags, taglib.Artist)
	}
	info.Year = firstTag(tags, taglib.Date)
	info.Genre = firstTag(tags, taglib.Genre)

	return info, nil
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}
