// Package splitter cuts the referenced audio file into one file per track,
// driven by the sheet's start offsets and derived durations. Cutting is
// delegated to ffmpeg; each produced piece is then tagged from the sheet.
package splitter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"

	"cueforge/internal/cue"
	"cueforge/internal/logger"
	"cueforge/internal/timecode"
	"cueforge/internal/timeline"
)

// Splitter drives the per-track transcode.
type Splitter struct {
	Logger *logger.Logger

	// Format is the output extension/codec, or "copy" to stream-copy the
	// source without re-encoding.
	Format string

	// OnProgress, when set, is called after each finished track.
	OnProgress func(done, total int)
}

// New creates a Splitter.
func New(log *logger.Logger, format string) *Splitter {
	return &Splitter{Logger: log, Format: format}
}

// CheckDependencies verifies ffmpeg is installed.
func CheckDependencies() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("required command 'ffmpeg' not found in PATH")
	}
	return nil
}

// Split produces one audio file per track in outDir and returns their
// paths. The track list must be ordered; the last track runs to the end of
// the source when the total duration is unknown.
func (s *Splitter) Split(ctx context.Context, sheet *cue.Sheet, audioPath, outDir string) ([]string, error) {
	if len(sheet.Tracks) == 0 {
		return nil, fmt.Errorf("nothing to split: sheet has no tracks")
	}
	if !timeline.Ordered(sheet.Tracks) {
		return nil, fmt.Errorf("cannot split: track start times are not in order")
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var outputs []string
	for i, tr := range sheet.Tracks {
		select {
		case <-ctx.Done():
			return outputs, fmt.Errorf("split cancelled")
		default:
		}

		outPath := filepath.Join(outDir, outputName(tr, s.ext(audioPath)))
		args := s.buildArgs(sheet, i, audioPath, outPath)

		s.Logger.Debug("[%d/%d] ffmpeg %s", i+1, len(sheet.Tracks), strings.Join(args, " "))

		cmd := exec.CommandContext(ctx, "ffmpeg", args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return outputs, fmt.Errorf("split cancelled")
			}
			return outputs, fmt.Errorf("ffmpeg failed on track %d: %w\nDetails: %s", tr.Number, err, stderr.String())
		}

		if err := tagPiece(outPath, sheet, tr); err != nil {
			s.Logger.Warn("Failed to tag %s: %v", filepath.Base(outPath), err)
		}

		outputs = append(outputs, outPath)
		if s.OnProgress != nil {
			s.OnProgress(i+1, len(sheet.Tracks))
		}
	}

	return outputs, nil
}

func (s *Splitter) ext(audioPath string) string {
	if s.Format == "" || s.Format == "copy" {
		return strings.TrimPrefix(filepath.Ext(audioPath), ".")
	}
	return s.Format
}

// buildArgs constructs the ffmpeg arguments for track i. Seeking happens
// before the input for fast keyframe seek; the duration is omitted for an
// open-ended last track.
func (s *Splitter) buildArgs(sheet *cue.Sheet, i int, audioPath, outPath string) []string {
	tr := sheet.Tracks[i]

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(tr.Index01),
		"-i", audioPath,
	}
	if d := sheet.TrackDuration(i); d > 0 {
		args = append(args, "-t", formatSeconds(d))
	}
	if s.Format == "" || s.Format == "copy" {
		args = append(args, "-c", "copy")
	}
	args = append(args, "-vn", outPath)
	return args
}

// formatSeconds renders a frame count as fractional seconds for ffmpeg.
func formatSeconds(frames int) string {
	return strconv.FormatFloat(float64(frames)/timecode.FramesPerSecond, 'f', 3, 64)
}

func outputName(tr cue.Track, ext string) string {
	title := tr.Title
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("%02d - %s.%s", tr.Number, sanitizeName(title), ext)
}

// sanitizeName replaces characters that are problematic in file names.
func sanitizeName(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return strings.TrimSpace(replacer.Replace(s))
}

func tagPiece(path string, sheet *cue.Sheet, tr cue.Track) error {
	tags := make(map[string][]string)

	if tr.Title != "" {
		tags[taglib.Title] = []string{tr.Title}
	}
	if tr.Performer != "" {
		tags[taglib.Artist] = []string{tr.Performer}
	}
	if sheet.Title != "" {
		tags[taglib.Album] = []string{sheet.Title}
	}
	if sheet.Performer != "" {
		tags[taglib.AlbumArtist] = []string{sheet.Performer}
	}
	if sheet.Date != "" {
		tags[taglib.Date] = []string{sheet.Date}
	}
	if sheet.Genre != "" {
		tags[taglib.Genre] = []string{sheet.Genre}
	}
	tags[taglib.TrackNumber] = []string{strconv.Itoa(tr.Number)}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags: %w", err)
	}
	return nil
}
