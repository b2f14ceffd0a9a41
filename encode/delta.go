package encode

import (
	"fmt"

	"tiaforge/capture"
)

// Delta byte stream format:
//
//	00000000            stop
//	ddddd000            pause d frames, 31 >= d >= 1 (silent channel)
//	ddddd100            sustain d+1 frames, 31 >= d >= 0
//	xxxxx011            frequency = x, duration 1
//	xxxxx111            frequency = x, duration 2
//	xxxx0101            control = x, duration 1
//	xxxx1101            control = x, duration 2
//	xxxx0001            volume = x, duration 1
//	xxxx1001            volume = x, duration 2
//	fffff010 ccccvvvv   all registers, duration 1
//	fffff110 ccccvvvv   all registers, duration 2

const (
	opStop           = 0x00
	pauseMaxFrames   = 31
	sustainMaxFrames = 32
)

// DeltaBytes serializes a folded sequence into the delta opcode stream,
// terminated with a stop byte. A silent interval uses the pause shortcut
// only when the whole state is zero, which quiet-channel collapse
// guarantees; otherwise it is encoded like any other change so the stream
// stays lossless.
func DeltaBytes(seq *capture.Sequence) []byte {
	var out []byte
	last := seq.InitialState
	zero := capture.FilledState(0)
	for _, n := range seq.Intervals {
		frames := n.Duration
		if frames < 1 {
			frames = 1
		}
		if n.State == zero {
			for frames > 0 {
				d := frames
				if d > pauseMaxFrames {
					d = pauseMaxFrames
				}
				out = append(out, byte(d)<<3)
				frames -= d
			}
			last = n.State
			continue
		}

		cc := n.State.Registers[SlotControl] != last.Registers[SlotControl]
		fc := n.State.Registers[SlotFreq] != last.Registers[SlotFreq]
		vc := n.State.Registers[SlotVolume] != last.Registers[SlotVolume]
		changed := 0
		for _, ch := range []bool{cc, fc, vc} {
			if ch {
				changed++
			}
		}

		if changed > 0 {
			dur := 1
			if frames >= 2 {
				dur = 2
			}
			dbit := byte(dur - 1)
			switch {
			case changed == 1 && fc:
				out = append(out, n.State.Registers[SlotFreq]<<3|dbit<<2|0x03)
			case changed == 1 && cc:
				out = append(out, n.State.Registers[SlotControl]<<4|dbit<<3|0x05)
			case changed == 1 && vc:
				out = append(out, n.State.Registers[SlotVolume]<<4|dbit<<3|0x01)
			default:
				out = append(out,
					n.State.Registers[SlotFreq]<<3|dbit<<2|0x02,
					n.State.Registers[SlotControl]<<4|n.State.Registers[SlotVolume])
			}
			frames -= dur
		}

		for frames > 0 {
			d := frames
			if d > sustainMaxFrames {
				d = sustainMaxFrames
			}
			out = append(out, byte(d-1)<<3|0x04)
			frames -= d
		}
		last = n.State
	}
	return append(out, opStop)
}

// DecodeDeltaBytes reverses DeltaBytes. Sustains merge back into the
// interval they extend, so a decoded sequence compares equal to the
// uncapped folded input.
func DecodeDeltaBytes(data []byte, initial capture.ChannelState) (*capture.Sequence, error) {
	seq := &capture.Sequence{InitialState: initial}
	state := initial
	zero := capture.FilledState(0)

	appendInterval := func(next capture.ChannelState, frames int) {
		n := len(seq.Intervals)
		if n > 0 && seq.Intervals[n-1].State == next {
			seq.Intervals[n-1].Duration += frames
			return
		}
		seq.Intervals = append(seq.Intervals, capture.Interval{State: next, Duration: frames})
		state = next
	}

	extend := func(frames int) error {
		n := len(seq.Intervals)
		if n == 0 {
			return fmt.Errorf("sustain before any register update")
		}
		seq.Intervals[n-1].Duration += frames
		return nil
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == opStop:
			return seq, nil
		case b&0x07 == 0x00:
			appendInterval(zero, int(b>>3))
		case b&0x07 == 0x04:
			if err := extend(int(b>>3) + 1); err != nil {
				return nil, err
			}
		case b&0x03 == 0x03:
			next := state
			next.Registers[SlotFreq] = b >> 3
			appendInterval(next, int(b>>2&0x01)+1)
		case b&0x03 == 0x02:
			if i+1 >= len(data) {
				return nil, fmt.Errorf("truncated full update at byte %d", i)
			}
			i++
			cv := data[i]
			var next capture.ChannelState
			next.Registers[SlotControl] = cv >> 4
			next.Registers[SlotFreq] = b >> 3
			next.Registers[SlotVolume] = cv & 0x0f
			appendInterval(next, int(b>>2&0x01)+1)
		case b&0x0f == 0x05 || b&0x0f == 0x0d:
			next := state
			next.Registers[SlotControl] = b >> 4
			appendInterval(next, int(b>>3&0x01)+1)
		case b&0x0f == 0x01 || b&0x0f == 0x09:
			next := state
			next.Registers[SlotVolume] = b >> 4
			appendInterval(next, int(b>>3&0x01)+1)
		default:
			return nil, fmt.Errorf("unknown delta opcode %#02x at byte %d", b, i)
		}
	}
	return nil, fmt.Errorf("delta stream missing stop byte")
}
