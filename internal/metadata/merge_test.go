package metadata

import (
	"testing"

	"cueforge/internal/cue"
)

func existingSheet() *cue.Sheet {
	return &cue.Sheet{
		Title:     "My Mix",
		Performer: "",
		Date:      "2020",
		Tracks: []cue.Track{
			{Number: 1, Title: "Opener", Performer: "DJ A", Index01: 0},
			{Number: 2, Title: "", Performer: "DJ B", Index01: 20000},
		},
	}
}

func providerResult() *Result {
	return &Result{
		Source: SourceGnuDB,
		Artist: "Provider Artist",
		Album:  "Provider Album",
		Year:   "1999",
		Genre:  "Trance",
		DiscID: "940aa30b",
		Tracks: []ResultTrack{
			{Number: 1, Title: "Song A", Performer: "Artist", Index01: 0},
			{Number: 2, Title: "Song B", Performer: "Artist", Index01: 14625},
			{Number: 3, Title: "Song C", Performer: "Artist", Index01: 30000},
		},
	}
}

func TestMerge_FillTheGaps(t *testing.T) {
	// Header toggle off, existing performer empty: provider fills it.
	out := Merge(existingSheet(), providerResult(), Options{})

	if out.Performer != "Provider Artist" {
		t.Errorf("Performer = %q, want provider value to fill the gap", out.Performer)
	}
	// Non-empty existing values survive.
	if out.Title != "My Mix" {
		t.Errorf("Title = %q, want %q", out.Title, "My Mix")
	}
	if out.Date != "2020" {
		t.Errorf("Date = %q, want %q", out.Date, "2020")
	}
	// Empty existing genre filled.
	if out.Genre != "Trance" {
		t.Errorf("Genre = %q, want %q", out.Genre, "Trance")
	}
}

func TestMerge_PreservesWhenOffAndPresent(t *testing.T) {
	sheet := existingSheet()
	sheet.Performer = "User Performer"

	out := Merge(sheet, providerResult(), Options{})
	if out.Performer != "User Performer" {
		t.Errorf("Performer = %q, want existing value preserved", out.Performer)
	}
}

func TestMerge_HeaderOverwrite(t *testing.T) {
	out := Merge(existingSheet(), providerResult(), Options{Header: true})

	if out.Title != "Provider Album" || out.Performer != "Provider Artist" {
		t.Errorf("header = %q/%q, want provider values", out.Title, out.Performer)
	}
	if out.Date != "1999" {
		t.Errorf("Date = %q, want %q", out.Date, "1999")
	}
}

func TestMerge_TracksUntouchedWhenAllTogglesOff(t *testing.T) {
	out := Merge(existingSheet(), providerResult(), Options{})

	if len(out.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want existing length 2", len(out.Tracks))
	}
	if out.Tracks[0].Title != "Opener" || out.Tracks[0].Index01 != 0 {
		t.Errorf("track 0 = %+v", out.Tracks[0])
	}
	if out.Tracks[1].Index01 != 20000 {
		t.Errorf("track 1 timing = %d, want 20000", out.Tracks[1].Index01)
	}
}

func TestMerge_PristineSheetReplacedWholesale(t *testing.T) {
	out := Merge(cue.New(), providerResult(), Options{})

	if len(out.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3", len(out.Tracks))
	}
	if out.Tracks[1].Title != "Song B" || out.Tracks[1].Index01 != 14625 {
		t.Errorf("track 1 = %+v", out.Tracks[1])
	}
}

func TestMerge_EmptyResultKeepsTracks(t *testing.T) {
	res := providerResult()
	res.Tracks = nil

	// A trackless result must not strip a pristine sheet down to zero
	// tracks; the generated text would no longer parse.
	out := Merge(cue.New(), res, Options{})
	if len(out.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d, want pristine track kept", len(out.Tracks))
	}
	if out.Title != res.Album {
		t.Errorf("Title = %q, header merge should still apply", out.Title)
	}

	out = Merge(existingSheet(), res, Options{TrackTitles: true})
	if len(out.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want existing length 2", len(out.Tracks))
	}
}

func TestMerge_PerTrackPolicy(t *testing.T) {
	out := Merge(existingSheet(), providerResult(), Options{Timings: true})

	if len(out.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want provider length 3", len(out.Tracks))
	}

	// Titles toggle off: existing non-empty title survives, empty gets filled.
	if out.Tracks[0].Title != "Opener" {
		t.Errorf("track 0 title = %q, want %q", out.Tracks[0].Title, "Opener")
	}
	if out.Tracks[1].Title != "Song B" {
		t.Errorf("track 1 title = %q, want gap filled with %q", out.Tracks[1].Title, "Song B")
	}

	// Timings toggle on: provider offsets win everywhere.
	if out.Tracks[1].Index01 != 14625 {
		t.Errorf("track 1 timing = %d, want 14625", out.Tracks[1].Index01)
	}

	// Extra provider track emitted past the existing list; provider wins
	// unconditionally there.
	if out.Tracks[2].Title != "Song C" || out.Tracks[2].Performer != "Artist" {
		t.Errorf("track 2 = %+v", out.Tracks[2])
	}

	// Renumbered densely.
	for i, tr := range out.Tracks {
		if tr.Number != i+1 {
			t.Errorf("track %d number = %d", i, tr.Number)
		}
	}
}

func TestMerge_TrackTogglesOverwrite(t *testing.T) {
	out := Merge(existingSheet(), providerResult(), Options{TrackTitles: true, TrackPerformers: true})

	if out.Tracks[0].Title != "Song A" {
		t.Errorf("track 0 title = %q, want provider value", out.Tracks[0].Title)
	}
	if out.Tracks[0].Performer != "Artist" {
		t.Errorf("track 0 performer = %q, want provider value", out.Tracks[0].Performer)
	}
	// Timings off with an existing track: user timing preserved.
	if out.Tracks[1].Index01 != 20000 {
		t.Errorf("track 1 timing = %d, want 20000", out.Tracks[1].Index01)
	}
}

func TestMerge_ProvenanceAlwaysCopied(t *testing.T) {
	sheet := existingSheet()
	sheet.MBDiscID = "earlier-disc-id"

	out := Merge(sheet, providerResult(), Options{})

	if out.DiscID != "940aa30b" {
		t.Errorf("DiscID = %q, want copied regardless of toggles", out.DiscID)
	}
	// A gnudb result has no MusicBrainz identifier; the earlier one stays.
	if out.MBDiscID != "earlier-disc-id" {
		t.Errorf("MBDiscID = %q, want earlier identifier preserved", out.MBDiscID)
	}
}

func TestMerge_InterpolateRescalesTimings(t *testing.T) {
	sheet := cue.New()
	sheet.TotalDuration = 2 * 300 * 75 // twice the provider's reported total

	res := &Result{
		Source: SourceDiscogs,
		Artist: "Artist",
		Tracks: []ResultTrack{
			{Number: 1, Title: "One", Duration: "2:00"},
			{Number: 2, Title: "Two", Duration: "3:00"},
		},
	}

	out := Merge(sheet, res, Options{Timings: true, Interpolate: true})

	if out.Tracks[0].Index01 != 0 {
		t.Errorf("track 0 start = %d, want 0", out.Tracks[0].Index01)
	}
	// 2:00 doubled = 4:00 = 18000 frames.
	if out.Tracks[1].Index01 != 18000 {
		t.Errorf("track 1 start = %d, want 18000", out.Tracks[1].Index01)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	sheet := existingSheet()
	Merge(sheet, providerResult(), Options{Header: true, TrackTitles: true, Timings: true})

	if sheet.Title != "My Mix" || len(sheet.Tracks) != 2 || sheet.Tracks[0].Title != "Opener" {
		t.Errorf("input sheet mutated: %+v", sheet)
	}
}
