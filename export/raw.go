package export

import (
	"bytes"
	"fmt"

	"tiaforge/capture"
)

// writeTrackDataRaw dumps folded states with no driver support: one
// control/frequency/volume row per interval, either repeated per frame or
// carrying an explicit duration column.
func writeTrackDataRaw(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	var w bytes.Buffer
	fmt.Fprintf(&w, "; Song: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)

	cfg := capture.FoldConfig{Strict: opts.Strict, Verbose: opts.Verbose, SuppressVolumeSlot: capture.NoVolumeSlot}
	totalSize := 0
	for subsong := range writes {
		seqs, err := foldChannels(writes[subsong], subsong, cfg)
		if err != nil {
			return nil, err
		}
		for ch, seq := range seqs {
			dataSize := 0
			totalFrames := 0
			fmt.Fprintf(&w, "\nSONG_%d_CHANNEL_%d\n", subsong, ch)
			for _, n := range seq.Intervals {
				c := n.State.Registers[0]
				f := n.State.Registers[1]
				v := n.State.Registers[2]
				if opts.EncodeDuration {
					fmt.Fprintf(&w, "    byte %d, %d, %d, %d\n", c, f, v, n.Duration)
					dataSize += 4
				} else {
					for i := 0; i < n.Duration; i++ {
						fmt.Fprintf(&w, "    byte %d, %d, %d\n", c, f, v)
						dataSize += 3
					}
				}
				totalFrames += n.Duration
			}
			w.WriteString("    byte 0\n")
			dataSize++
			fmt.Fprintf(&w, "    ; %d bytes %d frames\n", dataSize, totalFrames)
			totalSize += dataSize
		}
	}
	fmt.Fprintf(&w, "\n; Total Data Size %d\n", totalSize)
	return []Output{{Name: "Track_data.asm", Data: w.Bytes()}}, nil
}
