// tiadump captures a 6502 player image and writes the raw register dump,
// without running any export pipeline. The dump feeds tiaforge -dump or a
// diff against another capture.
package main

import (
	"flag"
	"fmt"
	"os"

	"tiaforge/capture"
	"tiaforge/player"
)

func main() {
	imagePath := flag.String("image", "", "6502 player image to capture")
	outputPath := flag.String("o", "", "dump file (default stdout)")
	hz := flag.Float64("hz", 60, "replay rate")
	speed := flag.Int("speed", 8, "frames per row")
	patternLen := flag.Int("patlen", 16, "rows per order")
	maxFrames := flag.Int("frames", 60*60*5, "capture length limit in frames")
	subsong := flag.Int("subsong", -1, "capture one subsong only (default all)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: tiadump -image file [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	img, err := player.LoadImage(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading player image: %v\n", err)
		os.Exit(1)
	}

	p := player.New(img)
	p.FrameRate = *hz
	p.Speed = *speed
	p.PatternLen = *patternLen
	p.MaxFrames = *maxFrames

	first, last := 0, int(img.Songs)-1
	if *subsong >= 0 {
		first, last = *subsong, *subsong
	}

	out := os.Stdout
	if *outputPath != "" {
		out, err = os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	total := 0
	for ss := first; ss <= last; ss++ {
		writes, err := capture.Collect(p, ss)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error capturing subsong %d: %v\n", ss, err)
			os.Exit(1)
		}
		if err := capture.WriteDumpLog(out, writes); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing dump: %v\n", err)
			os.Exit(1)
		}
		total += len(writes) - 1
	}
	fmt.Fprintf(os.Stderr, "captured %d writes\n", total)
}
