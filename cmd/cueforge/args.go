package main

import (
	"fmt"
	"os"

	"cueforge/internal/config"
)

// cliArgs holds the parsed command line: one command, its positional
// arguments, and the effective configuration.
// Priority: CLI flags > config file > defaults
type cliArgs struct {
	config     config.Config
	configPath string

	command string
	args    []string

	// import toggles
	header      bool
	titles      bool
	performers  bool
	timings     bool
	interpolate bool
	all         bool
	discNumber  string

	audioPath string
	outPath   string
	outDir    string
}

func parseArgs() (cliArgs, error) {
	raw := os.Args[1:]

	if len(raw) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range raw {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return cliArgs{}, initConfigFile()
		}
	}

	var a cliArgs

	for i := 0; i < len(raw); i++ {
		if raw[i] == "--config" || raw[i] == "-c" {
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--config requires a path argument")
			}
			a.configPath = raw[i+1]
			break
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to load config: %w", err)
	}
	if a.configPath == "" {
		a.configPath = config.FindConfigFile()
	}
	a.config = cfg

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		switch arg {
		case "--verbose", "-v":
			a.config.Verbose = true

		case "--format", "-f":
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--format requires a format name")
			}
			i++
			a.config.AudioFormat = raw[i]

		case "--header":
			a.header = true

		case "--titles":
			a.titles = true

		case "--performers":
			a.performers = true

		case "--timings":
			a.timings = true

		case "--interpolate":
			a.interpolate = true

		case "--all":
			a.all = true

		case "--disc", "-d":
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--disc requires a disc number")
			}
			i++
			a.discNumber = raw[i]

		case "--audio", "-a":
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--audio requires a file argument")
			}
			i++
			a.audioPath = raw[i]

		case "--out", "-o":
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--out requires a path argument")
			}
			i++
			a.outPath = raw[i]

		case "--out-dir", "-O":
			if i+1 >= len(raw) {
				return cliArgs{}, fmt.Errorf("--out-dir requires a directory argument")
			}
			i++
			a.outDir = raw[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return cliArgs{}, fmt.Errorf("unknown flag: %s", arg)
			}
			if a.command == "" {
				a.command = arg
			} else {
				a.args = append(a.args, arg)
			}
		}
	}

	if a.command == "" {
		return cliArgs{}, fmt.Errorf("no command given, see --help")
	}
	if a.all {
		a.header = true
		a.titles = true
		a.performers = true
		a.timings = true
	}

	return a, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.DefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  output_dir: directory for split track files")
	fmt.Println("  audio_format: mp3, m4a, flac, wav, opus, or copy")
	fmt.Println("  discogs_token: personal access token for Discogs lookups")
	fmt.Println("  verbose: true/false (enable detailed logging)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("cueforge - Edit CUE sheets and split mix recordings into tracks")
	fmt.Println()
	fmt.Println("Usage: cueforge [options] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  new                              Create a new sheet (write with --out)")
	fmt.Println("  show <sheet.cue>                 Parse a sheet and print it back")
	fmt.Println("  import <sheet.cue> <source> <id> Merge metadata from a provider")
	fmt.Println("                                   Sources: gnudb, discogs, musicbrainz, tracklist")
	fmt.Println("  split <sheet.cue> <audio file>   Cut the recording into per-track files")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -o, --out <path>           Write the resulting sheet to this path")
	fmt.Println("  -O, --out-dir <dir>        Directory for split output (default from config)")
	fmt.Println("  -f, --format <format>      Split output format, or 'copy' (default: mp3)")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Import options:")
	fmt.Println("  --header                   Overwrite album title, performer, date, genre")
	fmt.Println("  --titles                   Overwrite track titles")
	fmt.Println("  --performers               Overwrite track performers")
	fmt.Println("  --timings                  Overwrite track start times")
	fmt.Println("  --all                      All of the above")
	fmt.Println("  --interpolate              Rescale provider timings to the audio length")
	fmt.Println("  -a, --audio <file>         Attach a recording; sets the total duration")
	fmt.Println("  -d, --disc <n>             Disc number for multi-disc Discogs releases")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./cueforge.yaml")
	fmt.Println("  ~/.config/cueforge/config.yaml")
	fmt.Println("  ~/.cueforge.yaml")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Look up a disc on GnuDB and fill empty fields only")
	fmt.Println("  cueforge import mix.cue gnudb misc/940aac0d")
	fmt.Println()
	fmt.Println("  # Replace the track list from a Discogs release, disc 2")
	fmt.Println("  cueforge import album.cue discogs 9474934 --all --disc 2")
	fmt.Println()
	fmt.Println("  # Scrape a saved tracklist page, stretch timings to the recording")
	fmt.Println("  cueforge import set.cue tracklist set.html --all --interpolate -a set.mp3")
	fmt.Println()
	fmt.Println("  # Split a recording into FLAC tracks")
	fmt.Println("  cueforge split mix.cue mix.flac -f flac -O ./tracks")
}
