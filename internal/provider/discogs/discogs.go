// Package discogs implements metadata.Provider for the Discogs release
// database. A release carries per-track MM:SS durations rather than absolute
// offsets, so track starts are laid out cumulatively and the duration text
// is kept for interpolation against the real audio length.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cueforge/internal/metadata"
)

// ErrNotFound indicates the release code does not exist.
var ErrNotFound = errors.New("release not found on discogs")

// Discogs disambiguates same-named artists with a trailing " (n)" suffix
// that has no place in a cue sheet.
var artistSuffix = regexp.MustCompile(`\s\(\d+\)$`)

// Client is a Discogs API client that implements metadata.Provider.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// New creates a new Discogs client. token may be empty; Discogs then serves
// rate-limited anonymous requests.
func New(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://api.discogs.com",
		token:      token,
	}
}

func (c *Client) Name() string { return "discogs" }

// Lookup fetches a release by its numeric release code.
func (c *Client) Lookup(ctx context.Context, id string) (*metadata.Result, error) {
	return c.LookupRelease(ctx, id, "")
}

// LookupRelease fetches a release, optionally keeping only the tracks of one
// disc of a multi-disc release. A filter that matches no track positions is
// ignored rather than producing an empty sheet.
func (c *Client) LookupRelease(ctx context.Context, releaseCode, discNumber string) (*metadata.Result, error) {
	reqURL := fmt.Sprintf("%s/releases/%s", c.apiURL, releaseCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create discogs request: %w", err)
	}
	req.Header.Set("User-Agent", "cueforge/1.0")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discogs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discogs returned %d: %s", resp.StatusCode, body)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode discogs response: %w", err)
	}

	return parseRelease(rel, releaseCode, discNumber), nil
}

func parseRelease(rel release, releaseCode, discNumber string) *metadata.Result {
	albumArtist := joinArtists(rel.Artists)

	res := &metadata.Result{
		Source:      metadata.SourceDiscogs,
		Artist:      albumArtist,
		Album:       rel.Title,
		ReleaseCode: releaseCode,
	}
	if rel.Year > 0 {
		res.Year = strconv.Itoa(rel.Year)
	}
	if len(rel.Genres) > 0 {
		res.Genre = rel.Genres[0]
	}
	if len(rel.Labels) > 0 {
		res.Label = cleanArtist(rel.Labels[0].Name)
		res.Catalog = rel.Labels[0].CatNo
	}

	// Headings, index tracks and other non-track entries are excluded.
	var entries []trackEntry
	for _, e := range rel.Tracklist {
		if e.Type == "track" {
			entries = append(entries, e)
		}
	}

	if discNumber != "" {
		prefix := discNumber + "-"
		var filtered []trackEntry
		for _, e := range entries {
			if strings.HasPrefix(e.Position, prefix) {
				filtered = append(filtered, e)
			}
		}
		// An empty match means the release is not positioned per disc;
		// fall back to the unfiltered list.
		if len(filtered) > 0 {
			entries = filtered
		}
	}

	tracks := make([]metadata.ResultTrack, 0, len(entries))
	for i, e := range entries {
		performer := albumArtist
		if len(e.Artists) > 0 {
			performer = joinArtists(e.Artists)
		}
		tracks = append(tracks, metadata.ResultTrack{
			Number:    i + 1,
			Title:     e.Title,
			Performer: performer,
			Duration:  e.Duration,
		})
	}

	res.Tracks = metadata.CumulativeLayout(tracks)
	return res
}

func joinArtists(artists []artist) string {
	parts := make([]string, 0, len(artists))
	for _, a := range artists {
		parts = append(parts, cleanArtist(a.Name))
	}
	return strings.Join(parts, ", ")
}

func cleanArtist(name string) string {
	return artistSuffix.ReplaceAllString(name, "")
}

// Discogs API response types

type release struct {
	Title     string       `json:"title"`
	Year      int          `json:"year"`
	Artists   []artist     `json:"artists"`
	Genres    []string     `json:"genres"`
	Labels    []label      `json:"labels"`
	Tracklist []trackEntry `json:"tracklist"`
}

type artist struct {
	Name string `json:"name"`
}

type label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type trackEntry struct {
	Position string   `json:"position"`
	Type     string   `json:"type_"`
	Title    string   `json:"title"`
	Duration string   `json:"duration"`
	Artists  []artist `json:"artists"`
}
