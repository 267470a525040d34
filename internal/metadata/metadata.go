// Package metadata defines the common shape every metadata source is
// translated into, and the merge and interpolation logic that reconciles an
// incoming result with the sheet being edited.
//
// The Provider interface lives here rather than next to its implementations,
// following the Go convention of defining interfaces where they are
// consumed. Each sub-package of internal/provider implements it for one
// external source.
package metadata

import "context"

// Source tags which external database a Result came from. The merge engine
// never branches on it; adapters construct exactly one variant each.
type Source string

const (
	SourceGnuDB       Source = "gnudb"
	SourceDiscogs     Source = "discogs"
	SourceMusicBrainz Source = "musicbrainz"
	SourceTracklist   Source = "tracklist"
)

// ResultTrack is one track as reported by a provider. Index01 is the
// absolute start offset in frames. Duration carries the provider's MM:SS
// text when the source reports relative durations instead of offsets; it is
// what interpolation rescales.
type ResultTrack struct {
	Number    int
	Title     string
	Performer string
	Index01   int
	Duration  string
}

// Result is the transient, per-source value produced by an adapter. It is
// never stored directly: it always passes through Merge before touching a
// sheet.
type Result struct {
	Source Source

	Artist string
	Album  string
	Year   string
	Genre  string
	File   string // suggested audio file name; only some sources provide one

	Tracks []ResultTrack

	// Provenance identifiers; each adapter fills only its own.
	DiscID      string
	MBDiscID    string
	ReleaseCode string
	Barcode     string
	Label       string
	Catalog     string
}

// HasDurations reports whether any track carries a relative duration, i.e.
// whether the result is a candidate for interpolation.
func (r *Result) HasDurations() bool {
	for _, t := range r.Tracks {
		if t.Duration != "" {
			return true
		}
	}
	return false
}

// Options are the per-import overwrite toggles. A toggle that is on lets the
// provider value replace existing data for its field category; off keeps
// existing data except where it is empty.
type Options struct {
	Header          bool
	TrackTitles     bool
	TrackPerformers bool
	Timings         bool
	Interpolate     bool

	// DiscNumber filters multi-disc release tracklists ("2" keeps only
	// positions prefixed "2-"). Understood by the release-database
	// adapter only.
	DiscNumber string
}

// Provider is implemented by every network-backed metadata source.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, id string) (*Result, error)
}
