// Package verify decodes encoded streams and compares them against their
// sources. Every export mode that compresses runs these checks before
// its output leaves the pipeline; a mismatch is fatal.
package verify

import (
	"fmt"

	"tiaforge/capture"
	"tiaforge/emit"
	"tiaforge/encode"
	"tiaforge/sequence"
)

// DeltaStream decodes a delta byte stream and compares the recovered
// (state, duration) pairs against the folded input.
func DeltaStream(seq *capture.Sequence, stream []byte) error {
	decoded, err := encode.DecodeDeltaBytes(stream, seq.InitialState)
	if err != nil {
		return fmt.Errorf("delta decode: %w", err)
	}
	return compareSequences(seq, decoded)
}

// CodeStream decodes an abstract code stream (folded or not) and
// compares it against the folded input.
func CodeStream(seq *capture.Sequence, codes []sequence.AlphaCode) error {
	decoded, err := encode.DecodeCodes(codes, seq.InitialState)
	if err != nil {
		return fmt.Errorf("code decode: %w", err)
	}
	return compareSequences(seq, decoded)
}

// MacroStream expands a macro program and compares the recovered
// intervals against the pre-compression code stream's intervals.
func MacroStream(codes, macro []sequence.AlphaCode) error {
	expanded, err := emit.ExpandCopySequence(macro)
	if err != nil {
		return fmt.Errorf("macro expand: %w", err)
	}
	initial := capture.FilledState(255)
	want, err := encode.DecodeCodes(codes, initial)
	if err != nil {
		return fmt.Errorf("source decode: %w", err)
	}
	got, err := encode.DecodeCodes(expanded, initial)
	if err != nil {
		return fmt.Errorf("expanded decode: %w", err)
	}
	return compareSequences(want, got)
}

func compareSequences(want, got *capture.Sequence) error {
	if len(want.Intervals) != len(got.Intervals) {
		return fmt.Errorf("interval count mismatch: want %d, got %d", len(want.Intervals), len(got.Intervals))
	}
	for i := range want.Intervals {
		w, g := want.Intervals[i], got.Intervals[i]
		if w.State != g.State {
			return fmt.Errorf("interval %d state mismatch: want %v, got %v", i, w.State.Registers, g.State.Registers)
		}
		d := w.Duration
		if d < 1 {
			d = 1
		}
		if d != g.Duration {
			return fmt.Errorf("interval %d duration mismatch: want %d, got %d", i, d, g.Duration)
		}
	}
	return nil
}
