// Package session ties the sheet model, timeline operations, provider imports
// and audio probing together behind one editing surface. The CLI and the web
// server both drive a Session.
package session

import (
	"context"
	"fmt"
	"os"

	"cueforge/internal/cue"
	"cueforge/internal/logger"
	"cueforge/internal/metadata"
	"cueforge/internal/probe"
	"cueforge/internal/timecode"
	"cueforge/internal/timeline"
)

// Session is one open cue sheet being edited.
type Session struct {
	Log *logger.Logger

	Sheet     *cue.Sheet
	Path      string // sheet file on disk, empty for an unsaved sheet
	AudioPath string // attached audio file, empty when none

	versionTag string
}

// New starts a session on a pristine single-track sheet.
func New(log *logger.Logger, versionTag string) *Session {
	return &Session{
		Log:        log,
		Sheet:      cue.New(),
		versionTag: versionTag,
	}
}

// Load reads and parses a sheet file, replacing the session's sheet.
func (s *Session) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cue file: %w", err)
	}

	sheet, err := cue.Parse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.Sheet = sheet
	s.Path = path
	s.Log.Debug("Loaded %s: %d tracks", path, len(sheet.Tracks))
	return nil
}

// Save writes the sheet back to its file. The in-memory sheet is untouched
// when the write fails.
func (s *Session) Save() error {
	if s.Path == "" {
		return fmt.Errorf("no file associated with this sheet, use save-as")
	}
	return s.SaveAs(s.Path)
}

// SaveAs writes the sheet to path and makes path the session's file.
func (s *Session) SaveAs(path string) error {
	if err := os.WriteFile(path, []byte(s.Text()), 0644); err != nil {
		return fmt.Errorf("failed to write cue file: %w", err)
	}
	s.Path = path
	return nil
}

// Text renders the current sheet as cue text.
func (s *Session) Text() string {
	return cue.Generate(s.Sheet, s.versionTag)
}

// AttachAudio probes an audio file, records its duration as the sheet's
// total duration, and fills empty header fields from the file's tags.
func (s *Session) AttachAudio(path string) error {
	info, err := probe.Probe(path)
	if err != nil {
		return fmt.Errorf("failed to probe audio: %w", err)
	}

	s.AudioPath = path
	s.Sheet.TotalDuration = info.DurationFrames
	if s.Sheet.Title == "" {
		s.Sheet.Title = info.Title
	}
	if s.Sheet.Performer == "" {
		s.Sheet.Performer = info.Artist
	}
	if s.Sheet.Date == "" {
		s.Sheet.Date = info.Year
	}
	if s.Sheet.Genre == "" {
		s.Sheet.Genre = info.Genre
	}

	s.Log.Info("Attached %s (%d frames)", path, info.DurationFrames)
	return nil
}

// Import looks up metadata through a provider and merges the result into
// the sheet according to opts.
func (s *Session) Import(ctx context.Context, p metadata.Provider, id string, opts metadata.Options) error {
	s.Log.Info("Looking up %q via %s...", id, p.Name())

	res, err := p.Lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("%s lookup failed: %w", p.Name(), err)
	}

	s.Sheet = metadata.Merge(s.Sheet, res, opts)
	s.Log.Info("Merged %d tracks from %s", len(res.Tracks), p.Name())
	return nil
}

// Retime sets a track's start time from time text like "4:32:10".
func (s *Session) Retime(i int, timeText string) error {
	if err := s.checkTrack(i); err != nil {
		return err
	}
	if !timecode.IsValidTimeFormat(timeText) {
		return fmt.Errorf("invalid time %q, expected M:SS:FF", timeText)
	}
	s.Sheet.Tracks = timeline.Retime(s.Sheet.Tracks, i, timecode.TimeToFrames(timeText))
	return nil
}

// SetDuration sets a track's duration from time text, shifting every later
// track by the change.
func (s *Session) SetDuration(i int, timeText string) error {
	if err := s.checkTrack(i); err != nil {
		return err
	}
	if !timecode.IsValidTimeFormat(timeText) {
		return fmt.Errorf("invalid time %q, expected M:SS:FF", timeText)
	}
	s.Sheet.Tracks = timeline.SetDuration(s.Sheet.Tracks, i, timecode.TimeToFrames(timeText))
	return nil
}

// AddRow appends an empty track after the last one.
func (s *Session) AddRow() {
	s.Sheet.Tracks = timeline.AddRow(s.Sheet.Tracks)
}

// Delete removes track i and renumbers the rest.
func (s *Session) Delete(i int) error {
	if err := s.checkTrack(i); err != nil {
		return err
	}
	s.Sheet.Tracks = timeline.Delete(s.Sheet.Tracks, i)
	return nil
}

// SetTitle updates a track's title.
func (s *Session) SetTitle(i int, title string) error {
	if err := s.checkTrack(i); err != nil {
		return err
	}
	s.Sheet.Tracks = timeline.SetTitle(s.Sheet.Tracks, i, title)
	return nil
}

// SetPerformer updates a track's performer.
func (s *Session) SetPerformer(i int, performer string) error {
	if err := s.checkTrack(i); err != nil {
		return err
	}
	s.Sheet.Tracks = timeline.SetPerformer(s.Sheet.Tracks, i, performer)
	return nil
}

func (s *Session) checkTrack(i int) error {
	if i < 0 || i >= len(s.Sheet.Tracks) {
		return fmt.Errorf("no track at position %d", i+1)
	}
	return nil
}
