package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"tiaforge/capture"
	"tiaforge/export"
	"tiaforge/player"
)

type settings struct {
	dumpPath   string
	imagePath  string
	outputDir  string
	exportType string
	name       string
	author     string
	hz         float64
	speed      int
	patternLen int
	debug      bool
	wav        bool
	strict     bool
	verbose    bool
	stackDepth int
	dictSize   int
	seqDict    int
	duration   bool
}

func parseArgs() *settings {
	s := &settings{}
	flag.StringVar(&s.dumpPath, "dump", "", "register dump log to convert")
	flag.StringVar(&s.imagePath, "image", "", "6502 player image to capture and convert")
	flag.StringVar(&s.outputDir, "o", "out", "output directory")
	flag.StringVar(&s.exportType, "type", "COMPACT", "export type (RAW, BASIC, BASICX, DELTA, COMPACT, CRUSHED)")
	flag.StringVar(&s.name, "name", "", "song name")
	flag.StringVar(&s.author, "author", "", "song author")
	flag.Float64Var(&s.hz, "hz", 60, "replay rate for dump input and image capture")
	flag.IntVar(&s.speed, "speed", 8, "frames per row for image capture")
	flag.IntVar(&s.patternLen, "patlen", 16, "rows per order for image capture")
	flag.BoolVar(&s.debug, "debug", false, "emit the register dump file")
	flag.BoolVar(&s.wav, "wav", false, "emit a WAV preview of the folded states")
	flag.BoolVar(&s.strict, "strict", false, "treat recoverable capture conditions as errors")
	flag.BoolVar(&s.verbose, "v", false, "log recovered capture conditions to stderr")
	flag.IntVar(&s.stackDepth, "stack", 2, "macro call nesting budget")
	flag.IntVar(&s.dictSize, "dict", 64, "literal dictionary size")
	flag.IntVar(&s.seqDict, "seqdict", 64, "sequence dictionary size (reserved)")
	flag.BoolVar(&s.duration, "duration", false, "RAW: one row per interval with a duration column")
	flag.Parse()
	return s
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	s := parseArgs()
	if (s.dumpPath == "") == (s.imagePath == "") {
		fmt.Fprintln(os.Stderr, "Usage: tiaforge (-dump file | -image file) [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opts := export.DefaultOptions()
	mode, err := export.ParseMode(s.exportType)
	if err != nil {
		fatal("Error: %v", err)
	}
	opts.Type = mode
	opts.DebugOutput = s.debug
	opts.DebugWav = s.wav
	opts.Strict = s.strict
	opts.Verbose = s.verbose
	opts.StackDepth = s.stackDepth
	opts.LiteralDictSize = s.dictSize
	opts.SequenceDictSize = s.seqDict
	opts.EncodeDuration = s.duration

	var info export.SongInfo
	var subWrites [][]capture.RegisterWrite

	if s.dumpPath != "" {
		f, err := os.Open(s.dumpPath)
		if err != nil {
			fatal("Error reading input: %v", err)
		}
		writes, err := capture.ParseDumpLog(f, s.hz)
		f.Close()
		if err != nil {
			fatal("Error parsing dump: %v", err)
		}
		fmt.Printf("Converting: %s (%d writes)\n", s.dumpPath, len(writes))
		allWrites := writes
		subWrites = capture.SplitSubSongs(allWrites)
		info = export.InfoFromWrites(s.name, s.author, allWrites)
	} else {
		f, err := os.Open(s.imagePath)
		if err != nil {
			fatal("Error reading input: %v", err)
		}
		img, err := player.LoadImage(f)
		f.Close()
		if err != nil {
			fatal("Error loading player image: %v", err)
		}
		fmt.Printf("Converting: %s (%d songs, init $%04X play $%04X)\n",
			s.imagePath, img.Songs, img.InitAddress, img.PlayAddress)
		p := player.New(img)
		p.Speed = s.speed
		p.PatternLen = s.patternLen
		p.FrameRate = s.hz
		var flat []capture.RegisterWrite
		for ss := 0; ss < int(img.Songs); ss++ {
			writes, err := capture.Collect(p, ss)
			if err != nil {
				fatal("Error capturing subsong %d: %v", ss, err)
			}
			fmt.Printf("  subsong %d: %d writes\n", ss, len(writes)-1)
			subWrites = append(subWrites, writes)
			flat = append(flat, writes...)
		}
		info = export.InfoFromWrites(s.name, s.author, flat)
		for len(info.SubSongs) < len(subWrites) {
			info.SubSongs = append(info.SubSongs, export.SubSong{Hz: s.hz, PatternLen: s.patternLen})
		}
	}

	outputs, err := export.Export(info, subWrites, opts)
	if err != nil {
		fatal("Error: %v", err)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		fatal("Error creating output dir: %v", err)
	}
	total := 0
	for _, out := range outputs {
		path := filepath.Join(s.outputDir, out.Name)
		if err := os.WriteFile(path, out.Data, 0644); err != nil {
			fatal("Error writing %s: %v", path, err)
		}
		fmt.Printf("  %s: %d bytes\n", out.Name, len(out.Data))
		total += len(out.Data)
	}
	fmt.Printf("Wrote %d files (%d bytes) to %s\n", len(outputs), total, s.outputDir)
}
