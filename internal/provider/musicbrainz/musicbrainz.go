// Package musicbrainz implements metadata.Provider for MusicBrainz disc ID
// lookups. Offsets come from the physical disc's sector table and are
// rebased so the first track starts at frame zero; when the table is missing
// or short, starts are reconstructed by walking forward from track lengths.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"cueforge/internal/metadata"
	"cueforge/internal/timecode"
)

// Terminal lookup failures.
var (
	// ErrNotFound means no disc with that ID exists at all.
	ErrNotFound = errors.New("disc id not found on musicbrainz")
	// ErrStub means the disc exists as a stub that no release is linked
	// to yet; a distinct, user-facing case from ErrNotFound.
	ErrStub = errors.New("disc id found as a stub, not yet linked to a release")
)

// Client is a MusicBrainz Web API client that implements metadata.Provider.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new MusicBrainz client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://musicbrainz.org/ws/2",
	}
}

func (c *Client) Name() string { return "musicbrainz" }

// Lookup fetches a disc ID and translates its best-matching release into
// the common result shape.
func (c *Client) Lookup(ctx context.Context, discID string) (*metadata.Result, error) {
	reqURL := fmt.Sprintf("%s/discid/%s?fmt=json&inc=artist-credits+recordings+labels+release-groups", c.apiURL, discID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", "cueforge/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("musicbrainz returned %d: %s", resp.StatusCode, body)
	}

	var disc discResponse
	if err := json.NewDecoder(resp.Body).Decode(&disc); err != nil {
		return nil, fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}

	if len(disc.Releases) == 0 {
		return nil, ErrStub
	}

	return parseDisc(disc, discID), nil
}

func parseDisc(disc discResponse, discID string) *metadata.Result {
	rel := disc.Releases[0]

	artist := joinArtistCredits(rel.ArtistCredit)
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := rel.Title
	if album == "" {
		album = "Unknown Album"
	}

	res := &metadata.Result{
		Source:   metadata.SourceMusicBrainz,
		Artist:   artist,
		Album:    album,
		Genre:    rel.ReleaseGroup.PrimaryType,
		MBDiscID: discID,
		Barcode:  rel.Barcode,
	}
	if len(rel.Date) >= 4 {
		res.Year = rel.Date[:4]
	}
	if len(rel.LabelInfo) > 0 {
		res.Label = rel.LabelInfo[0].Label.Name
		res.Catalog = rel.LabelInfo[0].CatalogNumber
	}

	medium := pickMedium(rel.Media, discID)
	if medium == nil {
		return res
	}

	// Disc offsets are absolute sectors from the physical disc start
	// (usually 150); rebase everything on the first one so the sheet's
	// timeline starts at zero.
	offsets := disc.Offsets
	firstOffset := 0
	if len(offsets) > 0 {
		firstOffset = offsets[0]
	}

	for i, t := range medium.Tracks {
		performer := joinArtistCredits(t.ArtistCredit)
		if performer == "" {
			performer = artist
		}
		title := t.Title
		if title == "" {
			title = "Untitled"
		}

		index01 := 0
		if i < len(offsets) {
			index01 = offsets[i] - firstOffset
		} else if i > 0 {
			// Offset table missing or short: continue from the previous
			// track's start plus its reported length.
			prev := res.Tracks[i-1]
			lenMS := medium.Tracks[i-1].Length
			index01 = prev.Index01 + int(math.Round(float64(lenMS)/1000*timecode.FramesPerSecond))
		}
		if index01 < 0 {
			index01 = 0
		}

		res.Tracks = append(res.Tracks, metadata.ResultTrack{
			Number:    i + 1,
			Title:     title,
			Performer: performer,
			Index01:   index01,
			Duration:  formatLength(t.Length),
		})
	}

	return res
}

// pickMedium returns the medium whose disc list contains the looked-up disc
// ID, falling back to the first medium when none matches.
func pickMedium(media []medium, discID string) *medium {
	for i := range media {
		for _, d := range media[i].Discs {
			if d.ID == discID {
				return &media[i]
			}
		}
	}
	if len(media) > 0 {
		return &media[0]
	}
	return nil
}

func joinArtistCredits(credits []artistCredit) string {
	parts := make([]string, 0, len(credits))
	for _, ac := range credits {
		if ac.Name != "" {
			parts = append(parts, ac.Name)
		} else {
			parts = append(parts, ac.Artist.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// formatLength renders a track length in milliseconds as M:SS text, the
// shape interpolation consumes. Returns "" for unknown lengths.
func formatLength(ms int) string {
	if ms <= 0 {
		return ""
	}
	seconds := int(math.Round(float64(ms) / 1000))
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// MusicBrainz API response types

type discResponse struct {
	ID       string    `json:"id"`
	Offsets  []int     `json:"offsets"`
	Sectors  int       `json:"sectors"`
	Releases []release `json:"releases"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Barcode      string         `json:"barcode"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	ReleaseGroup releaseGroup   `json:"release-group"`
	LabelInfo    []labelInfo    `json:"label-info"`
	Media        []medium       `json:"media"`
}

type artistCredit struct {
	Name   string     `json:"name"`
	Artist artistInfo `json:"artist"`
}

type artistInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type releaseGroup struct {
	PrimaryType string `json:"primary-type"`
}

type labelInfo struct {
	CatalogNumber string    `json:"catalog-number"`
	Label         labelName `json:"label"`
}

type labelName struct {
	Name string `json:"name"`
}

type medium struct {
	Position int       `json:"position"`
	Discs    []discRef `json:"discs"`
	Tracks   []track   `json:"tracks"`
}

type discRef struct {
	ID string `json:"id"`
}

type track struct {
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}
