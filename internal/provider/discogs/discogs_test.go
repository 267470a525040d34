package discogs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiURL:     url,
		token:      "test-token",
	}
}

const sampleRelease = `{
	"title": "Global Underground 013",
	"year": 1999,
	"artists": [{"name": "Sasha (2)"}],
	"genres": ["Electronic", "House"],
	"labels": [{"name": "Boxed", "catno": "GU013"}],
	"tracklist": [
		{"position": "1-1", "type_": "track", "title": "Intro", "duration": "2:00"},
		{"position": "", "type_": "heading", "title": "Disc Two"},
		{"position": "1-2", "type_": "track", "title": "Deep Cut", "duration": "6:30",
			"artists": [{"name": "Breeder (3)"}, {"name": "Slacker"}]},
		{"position": "2-1", "type_": "track", "title": "Other Disc", "duration": "4:00"}
	]
}`

func TestLookup_ParsesRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/1467600" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Discogs token=test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleRelease))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Lookup(context.Background(), "1467600")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	// Disambiguation suffix stripped from the album artist.
	if res.Artist != "Sasha" {
		t.Errorf("Artist = %q, want %q", res.Artist, "Sasha")
	}
	if res.Album != "Global Underground 013" || res.Year != "1999" {
		t.Errorf("Album/Year = %q/%q", res.Album, res.Year)
	}
	if res.Genre != "Electronic" {
		t.Errorf("Genre = %q, want first genre", res.Genre)
	}
	if res.ReleaseCode != "1467600" {
		t.Errorf("ReleaseCode = %q", res.ReleaseCode)
	}
	if res.Label != "Boxed" || res.Catalog != "GU013" {
		t.Errorf("Label/Catalog = %q/%q", res.Label, res.Catalog)
	}

	// Heading entries excluded, track entries renumbered densely.
	if len(res.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(res.Tracks))
	}
	if res.Tracks[1].Performer != "Breeder, Slacker" {
		t.Errorf("track 1 performer = %q", res.Tracks[1].Performer)
	}
	if res.Tracks[0].Performer != "Sasha" {
		t.Errorf("track 0 performer = %q, want album artist fallback", res.Tracks[0].Performer)
	}

	// Cumulative layout from the MM:SS durations: 0, 2:00, 8:30.
	wantOffsets := []int{0, 9000, 38250}
	for i, w := range wantOffsets {
		if res.Tracks[i].Index01 != w {
			t.Errorf("track %d offset = %d, want %d", i, res.Tracks[i].Index01, w)
		}
	}

	// Duration text kept for interpolation.
	if res.Tracks[1].Duration != "6:30" {
		t.Errorf("track 1 duration = %q", res.Tracks[1].Duration)
	}
}

func TestLookupRelease_DiscFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRelease))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.LookupRelease(context.Background(), "1467600", "2")
	if err != nil {
		t.Fatalf("LookupRelease() error: %v", err)
	}

	if len(res.Tracks) != 1 {
		t.Fatalf("expected 1 track for disc 2, got %d", len(res.Tracks))
	}
	if res.Tracks[0].Title != "Other Disc" || res.Tracks[0].Number != 1 {
		t.Errorf("track 0 = %+v", res.Tracks[0])
	}
}

func TestLookupRelease_DiscFilterFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRelease))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.LookupRelease(context.Background(), "1467600", "9")
	if err != nil {
		t.Fatalf("LookupRelease() error: %v", err)
	}

	// No position starts with "9-": the filter is ignored, not an empty sheet.
	if len(res.Tracks) != 3 {
		t.Errorf("expected unfiltered 3 tracks, got %d", len(res.Tracks))
	}
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Lookup(context.Background(), "0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
