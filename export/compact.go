package export

import (
	"bytes"
	"fmt"

	"tiaforge/capture"
	"tiaforge/compress"
	"tiaforge/emit"
	"tiaforge/encode"
	"tiaforge/sequence"
	"tiaforge/verify"
)

// patternIndex labels one (subsong, channel, pattern) body.
type patternIndex struct {
	Key     string
	SubSong int
	Order   int
	Channel int
	Pattern int
}

// writeTrackDataCompact deduplicates row-aligned waveforms behind song,
// pattern and waveform lookup tables. Waveform bodies share one literal
// dictionary.
func writeTrackDataCompact(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	cfg := capture.FoldConfig{
		SuppressVolumeSlot: volumeSlot,
		Strict:             opts.Strict,
		Verbose:            opts.Verbose,
	}

	dumps := make(map[string]*capture.Sequence)
	for subsong := range writes {
		for ch := 0; ch < NumChannels; ch++ {
			_, chDumps, err := capture.FoldByRow(writes[subsong], subsong, ch, 0, ChannelAddressMap(ch), cfg)
			if err != nil {
				return nil, err
			}
			for key, seq := range chDumps {
				dumps[key] = seq
			}
		}
	}

	index, err := sequence.FindCommon(dumps, opts.Strict)
	if err != nil {
		return nil, err
	}
	waveforms := index.Waveforms()

	// Fold every waveform body up front so the dictionary sees them all.
	bodies := make(map[string][]sequence.AlphaCode, len(waveforms))
	streams := make([][]sequence.AlphaCode, 0, len(waveforms))
	for _, wf := range waveforms {
		codes := encode.Codes(dumps[wf.Key])
		folded := emit.EncodeDeltaSequence(codes, compress.Span{Start: 0, Length: len(codes)}, nil)
		if err := verify.CodeStream(dumps[wf.Key], folded); err != nil {
			return nil, fmt.Errorf("COMPACT: waveform %s: %w", wf.Key, err)
		}
		bodies[wf.Key] = folded
		streams = append(streams, folded)
	}
	dict := emit.BuildDictionary(streams, opts.LiteralDictSize)

	var w bytes.Buffer
	fmt.Fprintf(&w, "; Song: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)

	// song lookup table
	songTableSize := 0
	w.WriteString("\n; Song Lookup Table\n")
	fmt.Fprintf(&w, "NUM_SONGS = %d\n", len(info.SubSongs))
	w.WriteString("SONG_TABLE_START_LO\n")
	for i := range info.SubSongs {
		fmt.Fprintf(&w, "SONG_%d = . - SONG_TABLE_START_LO\n", i)
		fmt.Fprintf(&w, "    byte <SONG_%d_ADDR\n", i)
		songTableSize++
	}
	w.WriteString("SONG_TABLE_START_HI\n")
	for i := range info.SubSongs {
		fmt.Fprintf(&w, "    byte >SONG_%d_ADDR\n", i)
		songTableSize++
	}

	// song bodies
	songDataSize := 0
	w.WriteString("; songs\n")
	var patterns []patternIndex
	for i, sub := range info.SubSongs {
		fmt.Fprintf(&w, "SONG_%d_ADDR\n", i)
		added := make(map[[2]int]bool)
		for ord, row := range sub.Orders {
			w.WriteString("    byte ")
			for ch, pat := range row {
				if ch > 0 {
					w.WriteString(", ")
				}
				key := capture.PatternKey(i, ch, pat)
				w.WriteString(key)
				songDataSize++
				if added[[2]int{ch, pat}] {
					continue
				}
				added[[2]int{ch, pat}] = true
				patterns = append(patterns, patternIndex{Key: key, SubSong: i, Order: ord, Channel: ch, Pattern: pat})
			}
			w.WriteByte('\n')
		}
		w.WriteString("    byte 255\n")
		songDataSize++
	}

	// pattern lookup
	patternTableSize := 0
	w.WriteString("\n; Pattern Lookup Table\n")
	fmt.Fprintf(&w, "NUM_PATTERNS = %d\n", len(patterns))
	w.WriteString("PAT_TABLE_START_LO\n")
	for _, p := range patterns {
		fmt.Fprintf(&w, "%s = . - PAT_TABLE_START_LO\n", p.Key)
		fmt.Fprintf(&w, "   byte <%s_ADDR\n", p.Key)
		patternTableSize++
	}
	w.WriteString("PAT_TABLE_START_HI\n")
	for _, p := range patterns {
		fmt.Fprintf(&w, "   byte >%s_ADDR\n", p.Key)
		patternTableSize++
	}

	// pattern bodies: rows map to their waveform representatives; rows
	// that never produced writes are skipped.
	patternDataSize := 0
	for _, p := range patterns {
		fmt.Fprintf(&w, "; Subsong: %d Channel: %d Pattern: %d\n", p.SubSong, p.Channel, p.Pattern)
		fmt.Fprintf(&w, "%s_ADDR", p.Key)
		emitted := 0
		for j := 0; j < info.SubSongs[p.SubSong].PatternLen; j++ {
			key := capture.SequenceKey(p.SubSong, p.Order, j, p.Channel)
			rep, ok := index.Representative[key]
			if !ok {
				continue
			}
			if emitted%8 == 0 {
				w.WriteString("\n    byte ")
			} else {
				w.WriteByte(',')
			}
			w.WriteString(rep)
			emitted++
			patternDataSize++
		}
		w.WriteString("\n    byte 255\n")
		patternDataSize++
	}

	// waveform lookup
	waveformTableSize := 0
	w.WriteString("\n; Waveform Lookup Table\n")
	fmt.Fprintf(&w, "NUM_WAVEFORMS = %d\n", len(waveforms))
	w.WriteString("WF_TABLE_START_LO\n")
	for _, wf := range waveforms {
		fmt.Fprintf(&w, "%s = . - WF_TABLE_START_LO\n", wf.Key)
		fmt.Fprintf(&w, "   byte <%s_ADDR\n", wf.Key)
		waveformTableSize++
	}
	w.WriteString("WF_TABLE_START_HI\n")
	for _, wf := range waveforms {
		fmt.Fprintf(&w, "   byte >%s_ADDR\n", wf.Key)
		waveformTableSize++
	}

	// waveform dictionary
	dictionarySize := writeDictionaryTable(&w, dict)

	// waveform bodies
	waveformDataSize := 0
	w.WriteString("\n; Waveforms\n")
	for _, wf := range waveforms {
		e := emit.NewEmitter(dict)
		e.StackDepth = opts.StackDepth
		fmt.Fprintf(&w, "%s_ADDR\n", wf.Key)
		fmt.Fprintf(&w, "; Hash %d, Freq %d\n", wf.Hash, wf.Frequency)
		n, err := e.WriteStream(bodies[wf.Key])
		if err != nil {
			return nil, fmt.Errorf("COMPACT: waveform %s: %w", wf.Key, err)
		}
		w.Write(e.Asm.Bytes())
		waveformDataSize += n
	}

	w.WriteByte('\n')
	fmt.Fprintf(&w, "; Song Table Size %d\n", songTableSize)
	fmt.Fprintf(&w, "; Song Data Size %d\n", songDataSize)
	fmt.Fprintf(&w, "; Pattern Lookup Table Size %d\n", patternTableSize)
	fmt.Fprintf(&w, "; Pattern Data Size %d\n", patternDataSize)
	fmt.Fprintf(&w, "; Waveform Lookup Table Size %d\n", waveformTableSize)
	fmt.Fprintf(&w, "; Waveform Dictionary Size %d\n", dictionarySize)
	fmt.Fprintf(&w, "; Waveform Data Size %d\n", waveformDataSize)
	totalDataSize := songTableSize + songDataSize + patternTableSize +
		patternDataSize + waveformTableSize + dictionarySize + waveformDataSize
	fmt.Fprintf(&w, "; Total Data Size %d\n", totalDataSize)

	return []Output{{Name: "Track_data.asm", Data: w.Bytes()}}, nil
}

// writeDictionaryTable emits the short-form dictionary in rank order, two
// bytes per entry, and returns the table size.
func writeDictionaryTable(w *bytes.Buffer, dict map[sequence.AlphaCode]int) int {
	if len(dict) == 0 {
		return 0
	}
	ranked := make([]sequence.AlphaCode, len(dict))
	for code, rank := range dict {
		ranked[rank] = code
	}
	w.WriteString("\n; Literal Dictionary\nDICT_TABLE_START\n")
	size := 0
	for rank, code := range ranked {
		if encode.IsRef(code) {
			subsong, channel, start := encode.SpanParts(code)
			fmt.Fprintf(w, "    word SPAN_START_%d_%d_%d ; %d\n", subsong, channel, start, rank+1)
		} else {
			c, f, v, _ := encode.CodeParts(code)
			fmt.Fprintf(w, "    byte %d, %d ; %d\n", 0xa0+f, c<<4|v, rank+1)
		}
		size += 2
	}
	return size
}
