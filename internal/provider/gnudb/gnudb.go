// Package gnudb implements metadata.Provider for the GnuDB CDDB-style
// database. Responses are line-oriented key=value text in the classic xmcd
// shape; track start offsets arrive as commented integer lines.
package gnudb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cueforge/internal/metadata"
)

// Terminal lookup failures. Anything else HTTP-side is treated as retryable.
var (
	ErrNotFound             = errors.New("disc not found in gnudb")
	ErrRegistrationRequired = errors.New("gnudb rejected the request: registration required")
)

const maxRetries = 2

// retryDelay is a variable so tests can shorten it.
var retryDelay = time.Second

// Client is a GnuDB read client that implements metadata.Provider.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new GnuDB client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://gnudb.org/gnudb",
	}
}

func (c *Client) Name() string { return "gnudb" }

// Lookup fetches and parses a disc entry. id is the GnuDB disc identifier,
// "<genre>/<discid>". Server-side failures are retried up to maxRetries
// times with a fixed delay; 403 and 404 are terminal.
func (c *Client) Lookup(ctx context.Context, id string) (*metadata.Result, error) {
	reqURL := fmt.Sprintf("%s/%s", c.apiURL, strings.Trim(id, "/"))

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	res, err := parse(body)
	if err != nil {
		return nil, err
	}
	if res.DiscID == "" {
		// Response carried no DISCID field; fall back to the looked-up id.
		if i := strings.LastIndex(id, "/"); i >= 0 {
			res.DiscID = id[i+1:]
		} else {
			res.DiscID = id
		}
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create gnudb request: %w", err)
		}
		req.Header.Set("User-Agent", "cueforge/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("gnudb request failed: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			data, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read gnudb response: %w", err)
			}
			return string(data), nil

		case resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return "", ErrRegistrationRequired

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return "", ErrNotFound

		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("gnudb returned %d", resp.StatusCode)

		default:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return "", fmt.Errorf("gnudb returned %d: %s", resp.StatusCode, body)
		}
	}

	return "", lastErr
}

// parse converts an xmcd response body into the common result shape.
//
// Repeated DTITLE/TTITLE keys are concatenated, not replaced: the protocol
// continues long values across lines by repeating the key. Offset lines are
// "# <integer>"; the first offset is forced to zero while every later one is
// kept literal, matching the protocol convention that non-first offsets are
// already relative to the disc start.
func parse(body string) (*metadata.Result, error) {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	statusSeen := false
	var dtitle, year, genre, discID string
	titles := make(map[int]string)
	maxTitle := -1
	var offsets []int

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !statusSeen {
			if !strings.HasPrefix(line, "210") {
				return nil, fmt.Errorf("unexpected gnudb status line: %q", line)
			}
			statusSeen = true
			continue
		}

		if strings.HasPrefix(line, "#") {
			if n, err := strconv.Atoi(strings.TrimSpace(line[1:])); err == nil {
				offsets = append(offsets, n)
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch {
		case key == "DTITLE":
			dtitle += value
		case key == "DYEAR":
			year = value
		case key == "DGENRE":
			genre = value
		case key == "DISCID":
			discID = strings.TrimSpace(value)
		case strings.HasPrefix(key, "TTITLE"):
			idx, err := strconv.Atoi(key[len("TTITLE"):])
			if err != nil {
				continue
			}
			titles[idx] += value
			if idx > maxTitle {
				maxTitle = idx
			}
		}
	}

	if !statusSeen {
		return nil, fmt.Errorf("empty gnudb response")
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("gnudb response contains no track offsets")
	}
	offsets[0] = 0

	artist, album, _ := strings.Cut(dtitle, " / ")
	artist = strings.TrimSpace(artist)
	album = strings.TrimSpace(album)
	if album == "" {
		// A DTITLE without the separator carries one shared
		// artist/album name.
		album = artist
	}

	res := &metadata.Result{
		Source: metadata.SourceGnuDB,
		Artist: artist,
		Album:  album,
		Year:   year,
		Genre:  genre,
		DiscID: discID,
	}

	for i, offset := range offsets {
		title := titles[i]
		performer := artist
		// A track title of the form "Performer / Title" overrides the
		// album performer for that track only.
		if p, t, ok := strings.Cut(title, " / "); ok {
			performer = strings.TrimSpace(p)
			title = strings.TrimSpace(t)
		}

		res.Tracks = append(res.Tracks, metadata.ResultTrack{
			Number:    i + 1,
			Title:     title,
			Performer: performer,
			Index01:   offset,
		})
	}

	return res, nil
}
