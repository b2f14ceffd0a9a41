package export

import (
	"bytes"
	"fmt"

	"tiaforge/capture"
)

// basicMaxLen is the hard table limit of the basic driver: one page per
// channel, indexed with a byte.
const basicMaxLen = 256

// basicMaxDuration is the widest interval the 3-bit duration field can
// carry.
const basicMaxDuration = 8

// writeTrackDataBasic emits the split-table layout of the simple sound
// driver: a frequency table with embedded duration and a control+volume
// table. BASIC plays both channels in lockstep and therefore requires
// equal table lengths; BASICX walks each channel independently.
func writeTrackDataBasic(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	var w bytes.Buffer
	fmt.Fprintf(&w, "; Song: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)

	cfg := capture.FoldConfig{
		MaxIntervalDuration: basicMaxDuration,
		SuppressVolumeSlot:  volumeSlot,
		Strict:              opts.Strict,
		Verbose:             opts.Verbose,
	}
	for subsong := range writes {
		seqs, err := foldChannels(writes[subsong], subsong, cfg)
		if err != nil {
			return nil, err
		}
		for ch, seq := range seqs {
			if seq.Len() > basicMaxLen {
				return nil, fmt.Errorf("%v: subsong %d channel %d has %d entries, limit is %d",
					opts.Type, subsong, ch, seq.Len(), basicMaxLen)
			}
		}
		if opts.Type == BASIC && seqs[0].Len() != seqs[1].Len() {
			return nil, fmt.Errorf("BASIC: subsong %d channel lengths differ (%d vs %d); use BASICX for independent channels",
				subsong, seqs[0].Len(), seqs[1].Len())
		}

		for ch, seq := range seqs {
			fmt.Fprintf(&w, "\nSONG_%d_CHANNEL_%d_FREQ\n", subsong, ch)
			for _, n := range seq.Intervals {
				d := n.Duration
				if d < 1 {
					d = 1
				}
				fmt.Fprintf(&w, "    byte %d\n", byte(d-1)<<5|n.State.Registers[1])
			}
			fmt.Fprintf(&w, "SONG_%d_CHANNEL_%d_CTRL_VOL\n", subsong, ch)
			for _, n := range seq.Intervals {
				vol := n.State.Registers[2]
				var cv byte
				if vol == 0 {
					cv = 0xf0
				} else {
					cv = n.State.Registers[0]<<4 | vol
				}
				fmt.Fprintf(&w, "    byte %d\n", cv)
			}
			fmt.Fprintf(&w, "SONG_%d_CHANNEL_%d_LENGTH = %d\n", subsong, ch, seq.Len())
		}
	}
	return []Output{{Name: "Track_data.asm", Data: w.Bytes()}}, nil
}
