package metadata

import "cueforge/internal/cue"

// Merge reconciles a provider result with the sheet being edited under the
// given overwrite toggles, returning a new sheet. The policy, applied
// independently per field and per track position:
//
//   - toggle on: the provider value wins, even when it is empty;
//   - toggle off: the existing value wins unless it is empty or absent, in
//     which case the provider value fills the gap.
//
// The track list is only replaced when at least one track-level toggle is on
// or the existing list is still pristine; otherwise edits the user already
// made (including the list's length) stay untouched. Provenance identifiers
// bypass the toggles entirely: whatever the provider reported is recorded.
func Merge(sheet *cue.Sheet, res *Result, opts Options) *cue.Sheet {
	out := sheet.Clone()

	out.Performer = pickField(opts.Header, res.Artist, sheet.Performer)
	out.Title = pickField(opts.Header, res.Album, sheet.Title)
	out.Date = pickField(opts.Header, res.Year, sheet.Date)
	out.Genre = pickField(opts.Header, res.Genre, sheet.Genre)

	// The suggested file name is advisory: it never overwrites a file the
	// user already picked unless the header toggle says so.
	if res.File != "" && (opts.Header || sheet.File == "") {
		out.File = res.File
	}

	copyProvenance(out, res)

	anyTrackToggle := opts.TrackTitles || opts.TrackPerformers || opts.Timings
	pristine := sheet.Pristine()
	if !anyTrackToggle && !pristine {
		return out
	}

	// A result with no tracks has nothing to replace the list with; keep
	// the existing tracks so the sheet stays renderable.
	if len(res.Tracks) == 0 {
		return out
	}

	incoming := res.Tracks
	if opts.Timings && opts.Interpolate && sheet.TotalDuration > 0 && res.HasDurations() {
		interpolated := Interpolate(incoming, sheet.TotalDuration)
		rescaled := make([]ResultTrack, len(incoming))
		for i, t := range incoming {
			t.Index01 = interpolated[i].Index01
			rescaled[i] = t
		}
		incoming = rescaled
	}

	merged := make([]cue.Track, 0, len(incoming))
	for i, pt := range incoming {
		var prev *cue.Track
		if !pristine && i < len(sheet.Tracks) {
			prev = &sheet.Tracks[i]
		}

		tr := cue.Track{Number: i + 1}

		if opts.TrackTitles || prev == nil || prev.Title == "" {
			tr.Title = pt.Title
		} else {
			tr.Title = prev.Title
		}

		if opts.TrackPerformers || prev == nil || prev.Performer == "" {
			tr.Performer = pt.Performer
		} else {
			tr.Performer = prev.Performer
		}

		// A zero offset is a valid timing, so only a missing previous
		// track counts as absent here.
		if opts.Timings || prev == nil {
			tr.Index01 = pt.Index01
		} else {
			tr.Index01 = prev.Index01
		}

		merged = append(merged, tr)
	}

	out.Tracks = merged
	return out
}

func pickField(overwrite bool, incoming, existing string) string {
	if overwrite || existing == "" {
		return incoming
	}
	return existing
}

// copyProvenance records every identifier the provider reported. Each
// adapter fills only its own fields, so identifiers from earlier imports of
// other sources survive.
func copyProvenance(sheet *cue.Sheet, res *Result) {
	if res.DiscID != "" {
		sheet.DiscID = res.DiscID
	}
	if res.MBDiscID != "" {
		sheet.MBDiscID = res.MBDiscID
	}
	if res.ReleaseCode != "" {
		sheet.ReleaseCode = res.ReleaseCode
	}
	if res.Barcode != "" {
		sheet.Barcode = res.Barcode
	}
	if res.Label != "" {
		sheet.Label = res.Label
	}
	if res.Catalog != "" {
		sheet.Catalog = res.Catalog
	}
}
