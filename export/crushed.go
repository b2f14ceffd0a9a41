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

// writeTrackDataCrushed runs the full compression stack: per-channel code
// streams, a shared alphabet, suffix-tree repeat selection and the macro
// byte program. The expanded program is checked against the original
// code stream before anything is emitted.
func writeTrackDataCrushed(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	cfg := capture.FoldConfig{
		SuppressVolumeSlot: capture.NoVolumeSlot,
		Strict:             opts.Strict,
		Verbose:            opts.Verbose,
	}

	type channelStream struct {
		subsong int
		channel int
		codes   []sequence.AlphaCode
		macro   []sequence.AlphaCode
	}
	var streams []*channelStream
	for subsong := range writes {
		seqs, err := foldChannels(writes[subsong], subsong, cfg)
		if err != nil {
			return nil, err
		}
		for ch, seq := range seqs {
			streams = append(streams, &channelStream{
				subsong: subsong,
				channel: ch,
				codes:   encode.Codes(seq),
			})
		}
	}

	var all [][]sequence.AlphaCode
	totalCodes := 0
	for _, s := range streams {
		all = append(all, s.codes)
		totalCodes += len(s.codes)
	}
	freq := encode.CountFrequencies(all...)
	alphabet := sequence.CreateAlphabet(freq)
	entropy := sequence.Entropy(freq, totalCodes)
	follow := sequence.Follow(all...)

	for _, s := range streams {
		alphaSeq := alphabet.Translate(s.codes)
		tree := compress.NewSuffixTree(alphabet.Size(), alphaSeq)
		plan := compress.SelectRepeats(tree, s.subsong, s.channel, opts.MinRepeatDepth)
		bounds := compress.Span{SubSong: s.subsong, Channel: s.channel, Start: 0, Length: len(s.codes)}
		s.macro = emit.EncodeCopySequence(s.codes, bounds, plan)
		if err := verify.MacroStream(s.codes, s.macro); err != nil {
			return nil, fmt.Errorf("CRUSHED: subsong %d channel %d: %w", s.subsong, s.channel, err)
		}
	}

	var macroStreams [][]sequence.AlphaCode
	for _, s := range streams {
		macroStreams = append(macroStreams, s.macro)
	}
	dict := emit.BuildDictionary(macroStreams, opts.LiteralDictSize)

	var seqAsm bytes.Buffer
	var bin bytes.Buffer
	totalBinarySize := 0
	for _, s := range streams {
		e := emit.NewEmitter(dict)
		e.StackDepth = opts.StackDepth
		fmt.Fprintf(&seqAsm, "SONG_%d_CHANNEL_%d\n", s.subsong, s.channel)
		n, err := e.WriteStream(s.macro)
		if err != nil {
			return nil, fmt.Errorf("CRUSHED: subsong %d channel %d: %w", s.subsong, s.channel, err)
		}
		seqAsm.Write(e.Asm.Bytes())
		bin.Write(e.Bin.Bytes())
		totalBinarySize += n
	}

	var w bytes.Buffer
	fmt.Fprintf(&w, "; Song: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)

	songTableSize := 0
	w.WriteString("\n; Song Lookup Table\n")
	fmt.Fprintf(&w, "NUM_SONGS = %d\n", len(info.SubSongs))
	w.WriteString("SONG_TABLE_START_LO\n")
	for i := range info.SubSongs {
		fmt.Fprintf(&w, "    byte <SONG_%d_ADDR\n", i)
		songTableSize++
	}
	w.WriteString("SONG_TABLE_START_HI\n")
	for i := range info.SubSongs {
		fmt.Fprintf(&w, "    byte >SONG_%d_ADDR\n", i)
		songTableSize++
	}

	dictionarySize := writeDictionaryTable(&w, dict)

	w.WriteByte('\n')
	fmt.Fprintf(&w, "; Song Table Size %d\n", songTableSize)
	fmt.Fprintf(&w, "; Dictionary Size %d\n", dictionarySize)
	fmt.Fprintf(&w, "; Sequence Data Size %d\n", totalBinarySize)
	fmt.Fprintf(&w, "; Distinct Codes %d\n", alphabet.Size())
	fmt.Fprintf(&w, "; Singleton Transitions %d\n", follow.Singletons)
	fmt.Fprintf(&w, "; Max Branch %d (after %#x)\n", follow.MaxBranch, uint64(follow.MaxCode))
	fmt.Fprintf(&w, "; Entropy %.3f bits/code (%.0f bytes estimated)\n",
		entropy, entropy*float64(totalCodes)/8)
	fmt.Fprintf(&w, "; Total Data Size %d\n", songTableSize+dictionarySize+totalBinarySize)

	outputs := []Output{
		{Name: "Track_data.asm", Data: w.Bytes()},
		{Name: "Track_sequences.asm", Data: seqAsm.Bytes()},
		{Name: "Track_binary.bin", Data: bin.Bytes()},
	}

	if opts.DebugOutput {
		var rawAsm bytes.Buffer
		var rawBin bytes.Buffer
		for _, s := range streams {
			e := emit.NewEmitter(nil)
			e.StackDepth = opts.StackDepth
			fmt.Fprintf(&rawAsm, "SONG_%d_CHANNEL_%d\n", s.subsong, s.channel)
			if _, err := e.WriteStream(s.codes); err != nil {
				return nil, fmt.Errorf("CRUSHED: uncompressed subsong %d channel %d: %w", s.subsong, s.channel, err)
			}
			rawAsm.Write(e.Asm.Bytes())
			rawBin.Write(e.Bin.Bytes())
		}
		outputs = append(outputs,
			Output{Name: "Track_uncompressed.asm", Data: rawAsm.Bytes()},
			Output{Name: "Track_uncompressed.bin", Data: rawBin.Bytes()},
		)
	}
	return outputs, nil
}
