// Package tracklist extracts the common track shape from a
// 1001Tracklists-style HTML page, fetched over HTTP or read from a saved
// local copy.
package tracklist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cueforge/internal/metadata"
	"cueforge/internal/timecode"
)

// Client fetches and scrapes tracklist pages.
type Client struct {
	httpClient *http.Client
}

// New creates a tracklist client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "tracklist" }

// Lookup scrapes the page at src, which is either an http(s) URL or the
// path of a saved HTML file.
func (c *Client) Lookup(ctx context.Context, src string) (*metadata.Result, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return c.fetch(ctx, src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracklist file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*metadata.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; cueforge)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracklist page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracklist page returned status %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

var (
	siteSuffix    = regexp.MustCompile(`(?i)\s*-\s*1001Tracklists$`)
	titleSep      = regexp.MustCompile(`\s+@\s+`)
	spacedItemSep = regexp.MustCompile(`\s*@\s*|\s+-\s+`)
	bareItemSep   = regexp.MustCompile(`[@-]`)
)

// item is one parsed page entry before mashup/linked continuations are
// folded into their parent track.
type item struct {
	title      string
	performer  string
	cueSeconds int
	sub        []item
}

// Parse scrapes an HTML tracklist document into the common result shape.
// It fails only when the document contains no track items at all.
func Parse(r io.Reader) (*metadata.Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracklist html: %w", err)
	}

	performer, title := splitPageTitle(doc)
	date, genre, djs := leftPaneMetadata(doc)
	if djs != "" {
		// DJ profile links are more reliable than the title split.
		performer = djs
	}

	items := collectItems(doc)
	if len(items) == 0 {
		return nil, fmt.Errorf("no track items found in tracklist html")
	}

	res := &metadata.Result{
		Source: metadata.SourceTracklist,
		Artist: performer,
		Album:  title,
		Year:   date,
		Genre:  genre,
		File:   fmt.Sprintf("%s - %s.mp3", performer, title),
	}

	for i, it := range items {
		titles := []string{it.title}
		performers := []string{it.performer}
		for _, sub := range it.sub {
			titles = append(titles, sub.title)
			performers = append(performers, sub.performer)
		}

		res.Tracks = append(res.Tracks, metadata.ResultTrack{
			Number:    i + 1,
			Title:     strings.Join(titles, " / "),
			Performer: strings.Join(performers, " / "),
			Index01:   it.cueSeconds * timecode.FramesPerSecond,
		})
	}

	return res, nil
}

func splitPageTitle(doc *goquery.Document) (performer, title string) {
	raw := strings.TrimSpace(doc.Find("title").First().Text())
	raw = strings.TrimSpace(siteSuffix.ReplaceAllString(raw, ""))
	if raw == "" {
		raw = "Unknown Tracklist"
	}

	performer = "Unknown Artist"
	title = raw

	// "DJs @ Event/Location" page titles carry both fields.
	parts := titleSep.Split(raw, -1)
	if len(parts) >= 2 {
		performer = strings.TrimSpace(parts[0])
		title = strings.TrimSpace(strings.Join(parts[1:], " @ "))
	}
	return performer, title
}

func leftPaneMetadata(doc *goquery.Document) (date, genre, djs string) {
	left := doc.Find("#left")
	if left.Length() == 0 {
		return "", "", ""
	}

	dateSpan := left.Find(`span[title="tracklist recording date"]`).First()
	if dateSpan.Length() > 0 {
		// The date label and value sit in adjacent cells of a table row.
		date = strings.TrimSpace(dateSpan.Parent().Parent().Find("td").Eq(1).Text())
	}

	genre = strings.TrimSpace(left.Find("#tl_music_styles").Text())

	var names []string
	left.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/dj/") {
			if name := strings.TrimSpace(a.Text()); name != "" {
				names = append(names, name)
			}
		}
	})
	djs = strings.Join(names, " & ")

	return date, genre, djs
}

func collectItems(doc *goquery.Document) []item {
	var items []item

	doc.Find("div.tlpItem").Each(func(_ int, div *goquery.Selection) {
		value := div.Find("span.trackValue")
		if value.Length() == 0 {
			return
		}

		performer, title := splitItemText(normalizeSpace(value.Text()))

		cueSeconds := 0
		if v, ok := div.Find(`input[id*="_cue_seconds"]`).Attr("value"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				cueSeconds = n
			}
		}

		it := item{title: title, performer: performer, cueSeconds: cueSeconds}

		// Mashup, linked, and "w/" entries continue the previous track
		// rather than starting a new one.
		isMashup := div.Find(`i[title="mashup linked position"]`).Length() > 0
		isLinked := div.HasClass("con")
		isW := strings.Contains(div.Find(`span[id*="_tracknumber_value"]`).Text(), "w/")

		if (isMashup || isLinked || isW) && len(items) > 0 {
			last := &items[len(items)-1]
			last.sub = append(last.sub, it)
			return
		}
		items = append(items, it)
	})

	return items
}

// splitItemText separates an item's text into performer and title on " @ "
// or " - ", falling back to a bare "@"/"-" without surrounding spaces, and
// finally to Unknown Artist with the raw text as title.
func splitItemText(text string) (performer, title string) {
	if parts := spacedItemSep.Split(text, -1); len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(strings.Join(parts[1:], " - "))
	}
	if parts := bareItemSep.Split(text, -1); len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(strings.Join(parts[1:], " - "))
	}
	return "Unknown Artist", text
}

// normalizeSpace collapses all whitespace runs, including non-breaking
// spaces, to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
