// Package cue defines the Cue Sheet model and its text grammar.
//
// All timing state is stored as integer frames (75 per second); the textual
// M:SS:FF form is a derived view produced by internal/timecode. The grammar
// implemented by Parse and Generate round-trips every field of the model
// except TotalDuration, which is only known once an audio file has been
// probed and is never persisted.
package cue

// Track is a single entry of a sheet. Index01 is the absolute start offset
// in frames from the beginning of the referenced audio file.
type Track struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
	Index01   int    `json:"index01"`
}

// Sheet is the full document: header metadata, the referenced audio file
// name, the ordered track list, and opaque provenance identifiers carried
// through from metadata imports.
type Sheet struct {
	Title     string `json:"title"`
	Performer string `json:"performer"`
	File      string `json:"file"`
	Date      string `json:"date"`
	Genre     string `json:"genre"`

	// TotalDuration is the authoritative length of the audio in frames,
	// 0 until an audio file has been resolved.
	TotalDuration int `json:"totalDuration"`

	Tracks []Track `json:"tracks"`

	// Provenance carried from provider imports; not user-editable content.
	DiscID      string `json:"discId,omitempty"`
	MBDiscID    string `json:"mbDiscId,omitempty"`
	ReleaseCode string `json:"releaseCode,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Label       string `json:"label,omitempty"`
	Catalog     string `json:"catalog,omitempty"`
}

// New returns a freshly created sheet: a single untitled track starting at
// frame zero.
func New() *Sheet {
	return &Sheet{
		Tracks: []Track{{Number: 1, Title: "", Performer: "", Index01: 0}},
	}
}

// Pristine reports whether the track list is still in its initial state: a
// single untitled track at offset zero. A pristine list may be replaced
// wholesale by an import even when every overwrite toggle is off.
func (s *Sheet) Pristine() bool {
	if len(s.Tracks) != 1 {
		return false
	}
	t := s.Tracks[0]
	return t.Number == 1 && t.Title == "" && t.Performer == "" && t.Index01 == 0
}

// TrackDuration returns the derived duration of track i in frames: the gap
// to the next track's start, or for the last track the remainder of
// TotalDuration. Returns 0 when the duration is unknown or i is out of
// range. The value is always recomputed, never stored.
func (s *Sheet) TrackDuration(i int) int {
	if i < 0 || i >= len(s.Tracks) {
		return 0
	}
	if i < len(s.Tracks)-1 {
		return s.Tracks[i+1].Index01 - s.Tracks[i].Index01
	}
	if s.TotalDuration > 0 {
		return s.TotalDuration - s.Tracks[i].Index01
	}
	return 0
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	out := *s
	out.Tracks = make([]Track, len(s.Tracks))
	copy(out.Tracks, s.Tracks)
	return &out
}
