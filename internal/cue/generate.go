package cue

import (
	"fmt"
	"path/filepath"
	"strings"

	"cueforge/internal/timecode"
)

// Generate renders the sheet as CUE text with a deterministic, byte-stable
// ordering: REM header lines, TITLE, PERFORMER, FILE, then one TRACK block
// per track. Empty header fields are omitted. versionTag, when non-empty,
// is embedded as a REM COMMENT and is not model state.
func Generate(s *Sheet, versionTag string) string {
	var b strings.Builder

	writeRem := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "REM %s %s\n", key, value)
		}
	}

	// CUE quoting is plain delimiting: values go between double quotes
	// verbatim, with no escape sequences. Parse strips the quotes the same
	// way, so any value round-trips byte for byte.
	quote := func(value string) string {
		return `"` + value + `"`
	}

	writeRem("GENRE", s.Genre)
	writeRem("DATE", s.Date)
	writeRem("DISCID", s.DiscID)
	writeRem("MUSICBRAINZ_DISCID", s.MBDiscID)
	writeRem("DISCOGS_RELEASE", s.ReleaseCode)
	writeRem("BARCODE", s.Barcode)
	writeRem("LABEL", s.Label)
	writeRem("CATALOG", s.Catalog)
	if versionTag != "" {
		fmt.Fprintf(&b, "REM COMMENT %s\n", quote("cueforge "+versionTag))
	}

	if s.Title != "" {
		fmt.Fprintf(&b, "TITLE %s\n", quote(s.Title))
	}
	if s.Performer != "" {
		fmt.Fprintf(&b, "PERFORMER %s\n", quote(s.Performer))
	}
	if s.File != "" {
		fmt.Fprintf(&b, "FILE %s %s\n", quote(s.File), fileType(s.File))
	}

	for _, t := range s.Tracks {
		fmt.Fprintf(&b, "  TRACK %02d AUDIO\n", t.Number)
		fmt.Fprintf(&b, "    TITLE %s\n", quote(t.Title))
		fmt.Fprintf(&b, "    PERFORMER %s\n", quote(t.Performer))
		fmt.Fprintf(&b, "    INDEX 01 %s\n", timecode.FramesToTime(t.Index01))
	}

	return b.String()
}

func fileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "MP3"
	case ".aiff", ".aif":
		return "AIFF"
	default:
		return "WAVE"
	}
}
