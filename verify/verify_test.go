package verify

import (
	"testing"

	"tiaforge/capture"
	"tiaforge/compress"
	"tiaforge/emit"
	"tiaforge/encode"
	"tiaforge/sequence"
)

func tiaState(c, f, v byte) capture.ChannelState {
	var s capture.ChannelState
	s.Registers[0] = c
	s.Registers[1] = f
	s.Registers[2] = v
	return s
}

func testSequence() *capture.Sequence {
	q := capture.NewSequence()
	q.Intervals = []capture.Interval{
		{State: tiaState(4, 7, 15), Duration: 6},
		{State: tiaState(4, 9, 15), Duration: 2},
		{State: tiaState(0, 0, 0), Duration: 40},
	}
	return q
}

func TestDeltaStream(t *testing.T) {
	seq := testSequence()
	stream := encode.DeltaBytes(seq)
	if err := DeltaStream(seq, stream); err != nil {
		t.Errorf("clean stream rejected: %v", err)
	}

	corrupted := append([]byte(nil), stream...)
	corrupted[0] ^= 0x08
	if err := DeltaStream(seq, corrupted); err == nil {
		t.Error("corrupted stream accepted")
	}
}

func TestCodeStream(t *testing.T) {
	seq := testSequence()
	codes := encode.Codes(seq)
	if err := CodeStream(seq, codes); err != nil {
		t.Errorf("clean code stream rejected: %v", err)
	}

	folded := emit.EncodeDeltaSequence(codes, compress.Span{Start: 0, Length: len(codes)}, nil)
	if err := CodeStream(seq, folded); err != nil {
		t.Errorf("folded stream rejected: %v", err)
	}

	if err := CodeStream(seq, codes[:len(codes)-1]); err == nil {
		t.Error("truncated code stream accepted")
	}
}

func TestMacroStream(t *testing.T) {
	codes := []sequence.AlphaCode{
		encode.RegisterCode(7, 4, 7, 15, 1),
		encode.RegisterCode(2, 0, 9, 0, 1),
		encode.RegisterCode(1, 0, 0, 0, 1),
		encode.RegisterCode(7, 4, 7, 15, 1),
		encode.RegisterCode(2, 0, 9, 0, 1),
		encode.RegisterCode(1, 0, 0, 0, 1),
	}
	plan := make([]compress.Span, len(codes))
	for i := range plan {
		plan[i] = compress.Span{Start: i, Length: 1}
	}
	plan[0] = compress.Span{Start: 0, Length: 3}
	plan[3] = compress.Span{Start: 0, Length: 3}
	macro := emit.EncodeCopySequence(codes, compress.Span{Start: 0, Length: len(codes)}, plan)

	if err := MacroStream(codes, macro); err != nil {
		t.Errorf("clean macro stream rejected: %v", err)
	}

	broken := append([]sequence.AlphaCode(nil), macro...)
	for i, code := range broken {
		if encode.Kind(code) == 2 {
			broken[i] = encode.RegisterCode(2, 0, 11, 0, 1)
			break
		}
	}
	if err := MacroStream(codes, broken); err == nil {
		t.Error("tampered macro stream accepted")
	}
}
