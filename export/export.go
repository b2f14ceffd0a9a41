package export

import (
	"bytes"
	"fmt"

	"tiaforge/capture"
	"tiaforge/render"
)

// Output is one named export artifact.
type Output struct {
	Name string
	Data []byte
}

// Export runs the selected pipeline over the captured writes of every
// subsong and returns the output set. writes is indexed by subsong and
// must line up with info.SubSongs. A fatal error yields no outputs at
// all.
func Export(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]Output, error) {
	if len(writes) != len(info.SubSongs) {
		return nil, fmt.Errorf("capture/subsong mismatch: %d captures for %d subsongs", len(writes), len(info.SubSongs))
	}

	var outputs []Output
	var err error
	switch opts.Type {
	case RAW:
		outputs, err = writeTrackDataRaw(info, writes, opts)
	case BASIC, BASICX:
		outputs, err = writeTrackDataBasic(info, writes, opts)
	case DELTA:
		outputs, err = writeTrackDataDelta(info, writes, opts)
	case COMPACT:
		outputs, err = writeTrackDataCompact(info, writes, opts)
	case CRUSHED:
		outputs, err = writeTrackDataCrushed(info, writes, opts)
	default:
		err = fmt.Errorf("unknown export type %v", opts.Type)
	}
	if err != nil {
		return nil, err
	}

	if opts.DebugOutput {
		var dump bytes.Buffer
		for _, subWrites := range writes {
			if err := capture.WriteDumpLog(&dump, subWrites); err != nil {
				return nil, err
			}
		}
		outputs = append(outputs, Output{Name: "RegisterDump.txt", Data: dump.Bytes()})
	}

	if opts.DebugWav {
		preview, err := renderPreview(info, writes, opts)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Name: "Track_preview.wav", Data: preview})
	}

	outputs = append(outputs, Output{Name: "Track_meta.asm", Data: writeTrackMeta(info)})
	return outputs, nil
}

// foldChannels folds every channel of one subsong with a shared config.
func foldChannels(writes []capture.RegisterWrite, subsong int, cfg capture.FoldConfig) ([]*capture.Sequence, error) {
	seqs := make([]*capture.Sequence, NumChannels)
	for ch := 0; ch < NumChannels; ch++ {
		seq, err := capture.Fold(writes, subsong, ch, 0, ChannelAddressMap(ch), cfg)
		if err != nil {
			return nil, err
		}
		seqs[ch] = seq
	}
	return seqs, nil
}

func renderPreview(info SongInfo, writes [][]capture.RegisterWrite, opts Options) ([]byte, error) {
	cfg := capture.FoldConfig{Strict: opts.Strict, Verbose: opts.Verbose, SuppressVolumeSlot: volumeSlot}
	var channels [][]capture.Interval
	for subsong := range writes {
		seqs, err := foldChannels(writes[subsong], subsong, cfg)
		if err != nil {
			return nil, err
		}
		for len(channels) < NumChannels {
			channels = append(channels, nil)
		}
		for ch, seq := range seqs {
			channels[ch] = append(channels[ch], seq.Intervals...)
		}
	}
	return render.WAV(channels, render.DefaultConfig())
}
