package export

import (
	"bytes"
	"fmt"

	"tiaforge/capture"
	"tiaforge/encode"
	"tiaforge/verify"
)

// writeTrackDataDelta emits per-channel delta opcode streams with no
// macro layer. Every stream is decoded back and compared before it is
// allowed out the door.
func writeTrackDataDelta(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	var w bytes.Buffer
	var bin bytes.Buffer
	fmt.Fprintf(&w, "; Song: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)

	cfg := capture.FoldConfig{
		SuppressVolumeSlot: volumeSlot,
		Strict:             opts.Strict,
		Verbose:            opts.Verbose,
	}
	totalSize := 0
	for subsong := range writes {
		seqs, err := foldChannels(writes[subsong], subsong, cfg)
		if err != nil {
			return nil, err
		}
		for ch, seq := range seqs {
			stream := encode.DeltaBytes(seq)
			if err := verify.DeltaStream(seq, stream); err != nil {
				return nil, fmt.Errorf("DELTA: subsong %d channel %d: %w", subsong, ch, err)
			}
			fmt.Fprintf(&w, "\nSONG_%d_CHANNEL_%d\n", subsong, ch)
			for _, b := range stream {
				fmt.Fprintf(&w, "    byte %d\n", b)
			}
			fmt.Fprintf(&w, "    ; %d bytes %d frames\n", len(stream), seq.TotalFrames())
			bin.Write(stream)
			totalSize += len(stream)
		}
	}
	fmt.Fprintf(&w, "\n; Total Data Size %d\n", totalSize)
	return []Output{
		{Name: "Track_data.asm", Data: w.Bytes()},
		{Name: "Track_delta.bin", Data: bin.Bytes()},
	}, nil
}
