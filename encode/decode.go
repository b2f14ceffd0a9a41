package encode

import (
	"fmt"

	"tiaforge/capture"
	"tiaforge/sequence"
)

// DecodeCodes replays an abstract code stream back into intervals. Skip
// codes and embedded sustains extend the interval they follow, so folded
// and unfolded streams decode identically. REF and LABEL codes are not
// accepted here; expand the macro structure first.
func DecodeCodes(codes []sequence.AlphaCode, initial capture.ChannelState) (*capture.Sequence, error) {
	seq := &capture.Sequence{InitialState: initial}
	state := initial
	for i, code := range codes {
		kind := Kind(code)
		switch kind {
		case 0:
			if code == 0 {
				continue
			}
			if len(seq.Intervals) == 0 {
				return nil, fmt.Errorf("skip code before any register update at %d", i)
			}
			seq.Intervals[len(seq.Intervals)-1].Duration += int(code)
		case maskVolume, maskFreq, maskControl, maskFull:
			c, f, v, sx := CodeParts(code)
			next := state
			if kind == maskFull {
				// a full set rebuilds the state from the three modelled
				// registers, like the delta decoder's full update
				next = capture.ChannelState{}
			}
			if kind&maskControl != 0 {
				next.Registers[SlotControl] = c
			}
			if kind&maskFreq != 0 {
				next.Registers[SlotFreq] = f
			}
			if kind&maskVolume != 0 {
				next.Registers[SlotVolume] = v
			}
			n := len(seq.Intervals)
			if n > 0 && seq.Intervals[n-1].State == next {
				seq.Intervals[n-1].Duration += sx
			} else {
				seq.Intervals = append(seq.Intervals, capture.Interval{State: next, Duration: sx})
			}
			state = next
		default:
			return nil, fmt.Errorf("unexpected code kind %d at %d", kind, i)
		}
	}
	return seq, nil
}
