package capture

import (
	"fmt"
	"os"
)

// FoldConfig controls channel-state folding.
type FoldConfig struct {
	// MaxIntervalDuration caps interval length in frames; 0 means no cap.
	MaxIntervalDuration int
	// SuppressVolumeSlot, when >= 0, zeroes a snapshot whose register at
	// that slot is 0 before it is appended (quiet-channel collapse).
	SuppressVolumeSlot int
	// Strict turns zero-duration clamps into errors.
	Strict bool
	// Verbose logs recovered conditions to stderr.
	Verbose bool
}

// NoVolumeSlot disables quiet-channel collapse.
const NoVolumeSlot = -1

func ticksBetween(lastSeconds, lastTicks, seconds, ticks int) int {
	return (ticks - lastTicks) + TicksPerSecond*(seconds-lastSeconds)
}

type folder struct {
	channel int
	system  int
	addrMap AddressMap
	cfg     FoldConfig

	current       ChannelState
	lastIndex     int
	lastSeconds   int
	lastTicks     int
	remainder     int
	ticksPerFrame int
}

func newFolder(channel, system int, addrMap AddressMap, cfg FoldConfig) *folder {
	return &folder{
		channel:       channel,
		system:        system,
		addrMap:       addrMap,
		cfg:           cfg,
		lastIndex:     -1,
		ticksPerFrame: TicksPerFrame(0),
	}
}

// snapshot applies quiet-channel collapse to a copy of the current state.
func (f *folder) snapshot() ChannelState {
	state := f.current
	if s := f.cfg.SuppressVolumeSlot; s >= 0 && state.Registers[s] == 0 {
		state = FilledState(0)
	}
	return state
}

// flush appends the pre-write state and the elapsed whole frames.
func (f *folder) flush(seq *Sequence, w RegisterWrite) {
	delta := ticksBetween(f.lastSeconds, f.lastTicks, w.Seconds, w.Ticks)
	f.ticksPerFrame = TicksPerFrame(w.Hz)
	seq.UpdateState(f.snapshot())
	f.remainder = seq.AddDuration(delta, f.remainder, f.ticksPerFrame, f.cfg.MaxIntervalDuration)
	f.lastSeconds = w.Seconds
	f.lastTicks = w.Ticks
}

// apply routes one write through the address map into the current state.
// Writes for other systems and unmapped addresses are ignored.
func (f *folder) apply(w RegisterWrite) {
	if w.SystemIndex != f.system {
		return
	}
	slot, ok := f.addrMap[w.Addr]
	if !ok {
		return
	}
	f.current.Write(slot, w.Val)
}

// closeSequence clamps a zero-duration tail to one frame; strict mode
// refuses instead.
func (f *folder) closeSequence(key string, seq *Sequence) error {
	n := seq.Len()
	if n == 0 || seq.Intervals[n-1].Duration > 0 {
		return nil
	}
	if f.cfg.Strict {
		return fmt.Errorf("zero-duration interval in %s", key)
	}
	if f.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "clamping zero-duration interval in %s\n", key)
	}
	seq.Intervals[n-1].Duration = 1
	return nil
}

// Fold replays the captured writes of one channel through its address map
// and produces the deduplicated (state, duration) sequence.
func Fold(writes []RegisterWrite, subsong, channel, system int, addrMap AddressMap, cfg FoldConfig) (*Sequence, error) {
	f := newFolder(channel, system, addrMap, cfg)
	seq := NewSequence()
	for _, w := range writes {
		if w.Sentinel() {
			if f.lastIndex >= 0 {
				f.flush(seq, w)
			}
			break
		}
		if w.Row.SubSong != subsong {
			continue
		}
		if w.WriteIndex > f.lastIndex {
			f.flush(seq, w)
			f.lastIndex = w.WriteIndex
		}
		f.apply(w)
	}
	key := SequenceKey(subsong, 0, 0, channel)
	if err := f.closeSequence(key, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// FoldByRow folds one channel into row-aligned sequences keyed by
// SequenceKey. It returns the keys in playback order together with the
// key-to-sequence map. Sequences after the first are seeded with the
// carried state, so every row stands alone when replayed.
func FoldByRow(writes []RegisterWrite, subsong, channel, system int, addrMap AddressMap, cfg FoldConfig) ([]string, map[string]*Sequence, error) {
	f := newFolder(channel, system, addrMap, cfg)
	var order []string
	dumps := make(map[string]*Sequence)

	if len(writes) == 0 {
		return order, dumps, nil
	}

	row := writes[0].Row
	key := SequenceKey(subsong, row.Order, row.Row, channel)
	seq := NewSequence()
	order = append(order, key)
	dumps[key] = seq

	open := func(w RegisterWrite) {
		key = SequenceKey(subsong, w.Row.Order, w.Row.Row, channel)
		if existing, ok := dumps[key]; ok {
			seq = existing
		} else {
			seq = NewSequence()
			order = append(order, key)
			dumps[key] = seq
		}
		seq.UpdateState(f.snapshot())
	}

	for _, w := range writes {
		if w.Sentinel() {
			if f.lastIndex >= 0 {
				f.flush(seq, w)
			}
			break
		}
		if w.Row.SubSong != subsong {
			continue
		}
		if row.Advance(w.Row.SubSong, w.Row.Order, w.Row.Row) {
			f.flush(seq, w)
			f.lastIndex = w.WriteIndex
			if err := f.closeSequence(key, seq); err != nil {
				return nil, nil, err
			}
			open(w)
		} else if w.WriteIndex > f.lastIndex {
			f.flush(seq, w)
			f.lastIndex = w.WriteIndex
		}
		f.apply(w)
	}
	if err := f.closeSequence(key, seq); err != nil {
		return nil, nil, err
	}
	return order, dumps, nil
}
