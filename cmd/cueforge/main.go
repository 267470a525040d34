package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cueforge/internal/config"
	"cueforge/internal/logger"
	"cueforge/internal/metadata"
	"cueforge/internal/progress"
	"cueforge/internal/provider/discogs"
	"cueforge/internal/provider/gnudb"
	"cueforge/internal/provider/musicbrainz"
	"cueforge/internal/provider/tracklist"
	"cueforge/internal/session"
	"cueforge/internal/splitter"
)

const version = "0.3.0"

func main() {
	a, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(a.config.Verbose)
	defer log.Close()

	if !a.config.Verbose {
		logDir := config.DefaultLogDir()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("cueforge_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if a.config.Verbose && a.configPath != "" {
		log.Debug("Loaded configuration from: %s", a.configPath)
	}

	if err := a.config.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	if err := run(ctx, a, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a cliArgs, log *logger.Logger) error {
	sess := session.New(log, version)

	switch a.command {
	case "new":
		return runNew(sess, a)
	case "show":
		return runShow(sess, a)
	case "import":
		return runImport(ctx, sess, a, log)
	case "split":
		return runSplit(ctx, sess, a, log)
	default:
		return fmt.Errorf("unknown command %q, see --help", a.command)
	}
}

func runNew(sess *session.Session, a cliArgs) error {
	out := a.outPath
	if out == "" {
		return fmt.Errorf("new requires --out <path>")
	}
	if err := sess.SaveAs(out); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", out)
	return nil
}

func runShow(sess *session.Session, a cliArgs) error {
	if len(a.args) != 1 {
		return fmt.Errorf("usage: cueforge show <sheet.cue>")
	}
	if err := sess.Load(a.args[0]); err != nil {
		return err
	}
	fmt.Print(sess.Text())
	return nil
}

func runImport(ctx context.Context, sess *session.Session, a cliArgs, log *logger.Logger) error {
	if len(a.args) != 3 {
		return fmt.Errorf("usage: cueforge import <sheet.cue> <source> <id>")
	}
	cuePath, source, id := a.args[0], a.args[1], a.args[2]

	if err := sess.Load(cuePath); err != nil {
		return err
	}
	if a.audioPath != "" {
		if err := sess.AttachAudio(a.audioPath); err != nil {
			return err
		}
	}

	p, err := providerFor(a, source)
	if err != nil {
		return err
	}

	opts := metadata.Options{
		Header:          a.header,
		TrackTitles:     a.titles,
		TrackPerformers: a.performers,
		Timings:         a.timings,
		Interpolate:     a.interpolate,
		DiscNumber:      a.discNumber,
	}
	if err := sess.Import(ctx, p, id, opts); err != nil {
		return err
	}

	out := a.outPath
	if out == "" {
		out = cuePath
	}
	if err := sess.SaveAs(out); err != nil {
		return err
	}
	log.Info("Wrote %s (%d tracks)", out, len(sess.Sheet.Tracks))
	return nil
}

func providerFor(a cliArgs, source string) (metadata.Provider, error) {
	switch metadata.Source(source) {
	case metadata.SourceGnuDB:
		return gnudb.New(), nil
	case metadata.SourceDiscogs:
		if a.config.DiscogsToken == "" {
			return nil, fmt.Errorf("discogs lookups need a token, set discogs_token in the config or DISCOGS_TOKEN")
		}
		if a.discNumber != "" {
			return discogsDisc{c: discogs.New(a.config.DiscogsToken), discNumber: a.discNumber}, nil
		}
		return discogs.New(a.config.DiscogsToken), nil
	case metadata.SourceMusicBrainz:
		return musicbrainz.New(), nil
	case metadata.SourceTracklist:
		return tracklist.New(), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want gnudb, discogs, musicbrainz or tracklist)", source)
	}
}

// discogsDisc narrows a discogs lookup to one disc of a multi-disc release.
type discogsDisc struct {
	c          *discogs.Client
	discNumber string
}

func (d discogsDisc) Name() string { return d.c.Name() }

func (d discogsDisc) Lookup(ctx context.Context, id string) (*metadata.Result, error) {
	return d.c.LookupRelease(ctx, id, d.discNumber)
}

func runSplit(ctx context.Context, sess *session.Session, a cliArgs, log *logger.Logger) error {
	if len(a.args) != 2 {
		return fmt.Errorf("usage: cueforge split <sheet.cue> <audio file>")
	}
	cuePath, audioPath := a.args[0], a.args[1]

	log.Debug("Checking dependencies...")
	if err := splitter.CheckDependencies(); err != nil {
		return fmt.Errorf("dependency check failed: %w", err)
	}

	if err := sess.Load(cuePath); err != nil {
		return err
	}
	if err := sess.AttachAudio(audioPath); err != nil {
		return err
	}

	outDir := a.outDir
	if outDir == "" {
		outDir = a.config.OutputDir
	}

	sp := splitter.New(log, a.config.AudioFormat)

	var bar *progress.Bar
	if !a.config.Verbose {
		bar = progress.New(len(sess.Sheet.Tracks))
		log.Quiet(true)
		sp.OnProgress = func(done, total int) {
			bar.Set(done)
		}
	}

	outputs, err := sp.Split(ctx, sess.Sheet, audioPath, outDir)

	if bar != nil {
		bar.Finish()
		log.Quiet(false)
	}

	if err != nil {
		return err
	}

	log.Info("Split %d tracks into %s", len(outputs), outDir)
	return nil
}
