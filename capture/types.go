package capture

import "fmt"

// TicksPerSecond is the resolution of the emulator clock. Frame durations
// are derived from it and the replay Hz reported by the engine.
const TicksPerSecond = 1000000

// MaxChannelRegisters is the widest per-channel register file of any
// supported chip. Narrower chips use a live prefix of the array.
const MaxChannelRegisters = 4

// RowIndex locates a row within a song: subsong, order, row.
type RowIndex struct {
	SubSong int
	Order   int
	Row     int
}

// Advance updates the index and reports whether any component changed.
func (r *RowIndex) Advance(subsong, order, row int) bool {
	changed := false
	if r.SubSong != subsong {
		r.SubSong = subsong
		changed = true
	}
	if r.Order != order {
		r.Order = order
		changed = true
	}
	if r.Row != row {
		r.Row = row
		changed = true
	}
	return changed
}

// SequenceKey names the row-aligned slice of one channel.
func SequenceKey(subsong, order, row, channel int) string {
	return fmt.Sprintf("SEQ_S%02x_O%02x_R%02x_C%02x", subsong, order, row, channel)
}

// PatternKey names a (subsong, channel, pattern) triple.
func PatternKey(subsong, channel, pattern int) string {
	return fmt.Sprintf("PAT_S%02x_C%02x_P%02x", subsong, channel, pattern)
}

// RegisterWrite is one timestamped hardware register mutation captured
// during playback. A SystemIndex of -1 marks the end-of-song sentinel; the
// sentinel reuses the last real write's WriteIndex.
type RegisterWrite struct {
	WriteIndex  int
	Row         RowIndex
	SystemIndex int
	Seconds     int
	Ticks       int
	Hz          float64
	Addr        uint32
	Val         uint32
}

// Sentinel reports whether this write is the end-of-song marker.
func (w RegisterWrite) Sentinel() bool {
	return w.SystemIndex < 0
}

// AddressMap translates hardware register addresses to logical slot
// indices in [0, MaxChannelRegisters). Injected per channel.
type AddressMap map[uint32]int

// ChannelState is the value of every register mapped to one channel.
type ChannelState struct {
	Registers [MaxChannelRegisters]byte
}

// FilledState returns a state with every register set to c.
func FilledState(c byte) ChannelState {
	var s ChannelState
	for i := range s.Registers {
		s.Registers[i] = c
	}
	return s
}

// Write stores val into the slot and reports whether the value changed.
func (s *ChannelState) Write(slot int, val uint32) bool {
	v := byte(val)
	if s.Registers[slot] == v {
		return false
	}
	s.Registers[slot] = v
	return true
}

// Hash packs the register bytes into one word, high slot first.
func (s ChannelState) Hash() uint64 {
	var h uint64
	for i := 0; i < MaxChannelRegisters; i++ {
		h = uint64(s.Registers[i]) + (h << 8)
	}
	return h
}

// Interval is a channel state held for a whole number of frames.
type Interval struct {
	State    ChannelState
	Duration int
}

// Hash mixes the duration above the register bytes.
func (n Interval) Hash() uint64 {
	return n.State.Hash() + (uint64(n.Duration) << ((MaxChannelRegisters + 1) * 8))
}

// Sequence is an ordered run of intervals with the state that precedes
// them. Adjacent intervals never hold equal states; only interval splits
// forced by a duration cap repeat a state.
type Sequence struct {
	InitialState ChannelState
	Intervals    []Interval
}

// NewSequence returns a sequence whose initial state is the all-255
// sentinel, meaning "no known prior state".
func NewSequence() *Sequence {
	return &Sequence{InitialState: FilledState(255)}
}

// UpdateState appends a state change. Updates equal to the tail are
// dropped. An update arriving while the tail still has zero duration
// replaces the tail: the overwritten state was never audible.
func (q *Sequence) UpdateState(state ChannelState) {
	n := len(q.Intervals)
	if n > 0 && q.Intervals[n-1].State == state {
		return
	}
	if n > 0 && q.Intervals[n-1].Duration == 0 {
		if n > 1 && q.Intervals[n-2].State == state {
			q.Intervals = q.Intervals[:n-1]
			return
		}
		q.Intervals[n-1].State = state
		return
	}
	q.Intervals = append(q.Intervals, Interval{State: state})
}

// AddDuration folds elapsed ticks into the tail interval, carrying the
// sub-frame residue. Whole frames only; the remainder is returned for the
// next call. maxDuration > 0 splits overlong runs into same-state
// intervals.
func (q *Sequence) AddDuration(ticks, remainder, ticksPerFrame, maxDuration int) int {
	if len(q.Intervals) == 0 {
		q.Intervals = append(q.Intervals, Interval{State: FilledState(0)})
	}
	total := ticks + remainder
	frames := total / ticksPerFrame
	for frames > 0 {
		tail := &q.Intervals[len(q.Intervals)-1]
		if maxDuration <= 0 {
			tail.Duration += frames
			break
		}
		room := maxDuration - tail.Duration
		if room >= frames {
			tail.Duration += frames
			break
		}
		if room > 0 {
			tail.Duration += room
			frames -= room
		}
		q.Intervals = append(q.Intervals, Interval{State: tail.State})
	}
	return total - (total/ticksPerFrame)*ticksPerFrame
}

// Len returns the interval count.
func (q *Sequence) Len() int {
	return len(q.Intervals)
}

// TotalFrames sums the interval durations.
func (q *Sequence) TotalFrames() int {
	total := 0
	for _, n := range q.Intervals {
		total += n.Duration
	}
	return total
}

// Hash is a rolling polynomial over the initial state and every interval.
func (q *Sequence) Hash() uint64 {
	const p = 31
	const m = 1000000009
	pp := uint64(1)
	value := (q.InitialState.Hash() * pp) % m
	pp = (pp * p) % m
	for _, x := range q.Intervals {
		value += (x.Hash() * pp) % m
		pp = (pp * p) % m
	}
	return value
}

// TicksPerFrame converts a replay rate to whole emulator ticks per frame.
func TicksPerFrame(hz float64) int {
	if hz <= 0 {
		hz = 60
	}
	return int(TicksPerSecond/hz + 0.5)
}
