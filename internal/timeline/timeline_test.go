package timeline

import (
	"reflect"
	"testing"

	"cueforge/internal/cue"
	"cueforge/internal/timecode"
)

func threeTracks() []cue.Track {
	return []cue.Track{
		{Number: 1, Title: "A", Index01: 0},
		{Number: 2, Title: "B", Index01: 15000},
		{Number: 3, Title: "C", Index01: 30000},
	}
}

func TestRetime(t *testing.T) {
	in := threeTracks()
	out := Retime(in, 1, 14000)

	if out[1].Index01 != 14000 {
		t.Errorf("Index01 = %d, want 14000", out[1].Index01)
	}
	if out[0].Index01 != 0 || out[2].Index01 != 30000 {
		t.Errorf("neighbors moved: %+v", out)
	}
	if in[1].Index01 != 15000 {
		t.Error("input sequence was mutated")
	}
}

func TestRetime_NoOrderingEnforcement(t *testing.T) {
	out := Retime(threeTracks(), 1, 99999)
	if Ordered(out) {
		t.Error("expected unordered sequence after an out-of-range retime")
	}
}

func TestSetDuration_Cascade(t *testing.T) {
	in := threeTracks()
	out := SetDuration(in, 0, timecode.TimeToFrames("4:00:00"))

	want := []int{0, 18000, 33000}
	for i, w := range want {
		if out[i].Index01 != w {
			t.Errorf("track %d Index01 = %d, want %d", i, out[i].Index01, w)
		}
	}

	// Only track 0's duration changed; track 1 kept its own.
	if d := out[2].Index01 - out[1].Index01; d != 15000 {
		t.Errorf("track 1 duration = %d, want 15000", d)
	}
	if !reflect.DeepEqual(in, threeTracks()) {
		t.Error("input sequence was mutated")
	}
}

func TestSetDuration_Shrink(t *testing.T) {
	out := SetDuration(threeTracks(), 0, 7500)
	want := []int{0, 7500, 22500}
	for i, w := range want {
		if out[i].Index01 != w {
			t.Errorf("track %d Index01 = %d, want %d", i, out[i].Index01, w)
		}
	}
}

func TestSetDuration_LastTrackNoOp(t *testing.T) {
	in := threeTracks()
	out := SetDuration(in, 2, 1234)
	if !reflect.DeepEqual(out, in) {
		t.Errorf("last track duration edit should be a no-op, got %+v", out)
	}
}

func TestAddRow(t *testing.T) {
	out := AddRow(threeTracks())
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	added := out[3]
	if added.Number != 4 || added.Index01 != 45000 || added.Title != "" {
		t.Errorf("added track = %+v", added)
	}

	first := AddRow(nil)
	if len(first) != 1 || first[0].Index01 != 0 || first[0].Number != 1 {
		t.Errorf("first row = %+v", first)
	}
}

func TestDelete_Renumbers(t *testing.T) {
	out := Delete(threeTracks(), 1)

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Number != 1 || out[1].Number != 2 {
		t.Errorf("numbers = %d,%d want 1,2", out[0].Number, out[1].Number)
	}
	// Deletion never shifts offsets.
	if out[0].Index01 != 0 || out[1].Index01 != 30000 {
		t.Errorf("offsets changed: %+v", out)
	}
	if out[1].Title != "C" {
		t.Errorf("wrong track deleted: %+v", out)
	}
}

func TestSetTitleAndPerformer(t *testing.T) {
	in := threeTracks()
	out := SetPerformer(SetTitle(in, 0, "Opener"), 0, "DJ")

	if out[0].Title != "Opener" || out[0].Performer != "DJ" {
		t.Errorf("track 0 = %+v", out[0])
	}
	if out[0].Index01 != in[0].Index01 {
		t.Error("field edit shifted timing")
	}
}

func TestOrdered(t *testing.T) {
	if !Ordered(threeTracks()) {
		t.Error("ascending offsets reported unordered")
	}
	if !Ordered([]cue.Track{{Index01: 5}, {Index01: 5}}) {
		t.Error("equal boundary offsets should count as ordered")
	}
	if Ordered([]cue.Track{{Index01: 10}, {Index01: 5}}) {
		t.Error("descending offsets reported ordered")
	}
	if !Ordered(nil) {
		t.Error("empty sequence should be ordered")
	}
}
