package metadata

import "testing"

func TestInterpolate_PreservesTotal(t *testing.T) {
	tracks := []ResultTrack{
		{Number: 1, Title: "A", Duration: "3:21"},
		{Number: 2, Title: "B", Duration: "4:07"},
		{Number: 3, Title: "C", Duration: "5:59"},
	}
	// Provider says 13:27 total; the real file is one hour long.
	target := 3600 * 75

	out := Interpolate(tracks, target)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].Index01 != 0 {
		t.Errorf("first offset = %d, want 0", out[0].Index01)
	}

	// Re-derive the implied total: last start plus last rescaled span. With
	// per-track rounding the drift is bounded by one frame per track.
	providerSeconds := []int{201, 247, 359}
	total := 0
	for _, s := range providerSeconds {
		total += s
	}
	ratio := float64(target) / 75 / float64(total)
	lastSpan := int(float64(providerSeconds[2])*ratio*75 + 0.5)

	implied := out[2].Index01 + lastSpan
	if diff := implied - target; diff > len(tracks) || diff < -len(tracks) {
		t.Errorf("implied total %d deviates from target %d by %d frames", implied, target, diff)
	}

	// Proportions hold: track B starts where A's rescaled duration ends.
	wantB := int(float64(providerSeconds[0])*ratio*75 + 0.5)
	if out[1].Index01 != wantB {
		t.Errorf("track B start = %d, want %d", out[1].Index01, wantB)
	}
}

func TestInterpolate_ZeroProviderTotal(t *testing.T) {
	tracks := []ResultTrack{
		{Number: 1, Duration: "0:00"},
		{Number: 2, Duration: ""},
	}

	out := Interpolate(tracks, 100000)
	for i, tr := range out {
		if tr.Index01 != 0 {
			t.Errorf("track %d offset = %d, want 0 (ratio 1 on zero total)", i, tr.Index01)
		}
	}
}

func TestInterpolate_KeepsTitlesAndPerformers(t *testing.T) {
	tracks := []ResultTrack{{Number: 1, Title: "One", Performer: "P", Duration: "1:00"}}
	out := Interpolate(tracks, 4500)
	if out[0].Title != "One" || out[0].Performer != "P" || out[0].Number != 1 {
		t.Errorf("metadata lost: %+v", out[0])
	}
}

func TestCumulativeLayout(t *testing.T) {
	tracks := []ResultTrack{
		{Number: 1, Duration: "2:00"},
		{Number: 2, Duration: "3:30"},
		{Number: 3, Duration: "1:00"},
	}

	out := CumulativeLayout(tracks)
	want := []int{0, 9000, 24750}
	for i, w := range want {
		if out[i].Index01 != w {
			t.Errorf("track %d offset = %d, want %d", i, out[i].Index01, w)
		}
	}
}
