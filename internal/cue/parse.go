package cue

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"cueforge/internal/timecode"
)

// Parse reads CUE sheet text into a Sheet. The parser is line-oriented and
// tolerant: keywords match case-insensitively, CRLF and LF line endings are
// both accepted, quoted values have their surrounding quotes stripped, and
// unknown REM lines are skipped. It fails only when the text contains no
// TRACK block at all.
func Parse(text string) (*Sheet, error) {
	sheet := &Sheet{}
	var current *Track

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		keyword, rest := splitKeyword(line)

		switch keyword {
		case "REM":
			key, value := splitKeyword(rest)
			applyRem(sheet, key, unquote(value))

		case "TRACK":
			fields := strings.Fields(rest)
			num := len(sheet.Tracks) + 1
			if len(fields) > 0 {
				if n, err := strconv.Atoi(fields[0]); err == nil {
					num = n
				}
			}
			sheet.Tracks = append(sheet.Tracks, Track{Number: num})
			current = &sheet.Tracks[len(sheet.Tracks)-1]

		case "TITLE":
			if current != nil {
				current.Title = unquote(rest)
			} else {
				sheet.Title = unquote(rest)
			}

		case "PERFORMER":
			if current != nil {
				current.Performer = unquote(rest)
			} else {
				sheet.Performer = unquote(rest)
			}

		case "FILE":
			sheet.File = parseFileValue(rest)

		case "INDEX":
			if current == nil {
				continue
			}
			fields := strings.Fields(rest)
			// Only INDEX 01 carries the track start; INDEX 00 pregaps
			// are not part of the model.
			if len(fields) >= 2 && fields[0] == "01" {
				current.Index01 = timecode.TimeToFrames(fields[1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cue text: %w", err)
	}
	if len(sheet.Tracks) == 0 {
		return nil, fmt.Errorf("no TRACK blocks found")
	}

	return sheet, nil
}

func applyRem(sheet *Sheet, key, value string) {
	switch key {
	case "DATE":
		sheet.Date = value
	case "GENRE":
		sheet.Genre = value
	case "DISCID":
		sheet.DiscID = value
	case "MUSICBRAINZ_DISCID":
		sheet.MBDiscID = value
	case "DISCOGS_RELEASE":
		sheet.ReleaseCode = value
	case "BARCODE":
		sheet.Barcode = value
	case "LABEL":
		sheet.Label = value
	case "CATALOG":
		sheet.Catalog = value
	}
}

// splitKeyword splits a line into its leading keyword (uppercased) and the
// remainder.
func splitKeyword(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return strings.ToUpper(line), ""
	}
	return strings.ToUpper(line[:i]), strings.TrimSpace(line[i+1:])
}

// parseFileValue extracts the file name from a FILE line remainder, which is
// either `"name" TYPE` or a bare `name TYPE`.
func parseFileValue(rest string) string {
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			return rest[1 : end+1]
		}
		return strings.TrimPrefix(rest, `"`)
	}
	// Unquoted: drop the trailing type token when present.
	if i := strings.LastIndexAny(rest, " \t"); i > 0 {
		return strings.TrimSpace(rest[:i])
	}
	return rest
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
