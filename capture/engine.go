package capture

import "fmt"

// ChipWrite is a raw register write drained from one emulated system.
type ChipWrite struct {
	Addr uint32
	Val  uint32
}

// Engine is the playback surface the collector drives. Implementations
// wrap an emulated sound chip (or a CPU-hosted player around one); the
// collector takes the engine exclusively for the duration of a capture.
type Engine interface {
	// SystemCount reports how many chip systems the engine hosts.
	SystemCount() int
	// SetRegisterDump toggles write capture on every system.
	SetRegisterDump(enabled bool)
	// PrepareSubSong stops playback and rewinds the subsong to order 0
	// with pattern repeat off.
	PrepareSubSong(subsong int) error
	// Play starts playback of the prepared subsong.
	Play() error
	// IsPlaying reports whether playback is still running; it turns false
	// when playback terminates on its own.
	IsPlaying() bool
	// NextTick advances the emulator by one native tick. done means the
	// song ended during this tick.
	NextTick() (done bool, err error)
	// DrainWrites returns and clears the pending writes of one system.
	DrainWrites(system int) []ChipWrite
	// Position reports the current subsong, order and row.
	Position() RowIndex
	// TotalSeconds and TotalTicks report the playback clock.
	TotalSeconds() int
	TotalTicks() int
	// Hz is the replay rate of the current subsong.
	Hz() float64
}

// Collect plays one subsong from the top and records every register write
// in issue order. Writes drained after the same tick share a timestamp.
// The returned slice ends with a sentinel carrying the final clock and the
// last real write index.
func Collect(e Engine, subsong int) ([]RegisterWrite, error) {
	e.SetRegisterDump(true)
	defer e.SetRegisterDump(false)

	if err := e.PrepareSubSong(subsong); err != nil {
		return nil, fmt.Errorf("prepare subsong %d: %w", subsong, err)
	}
	if err := e.Play(); err != nil {
		return nil, fmt.Errorf("play subsong %d: %w", subsong, err)
	}

	var writes []RegisterWrite
	writeIndex := -1
	for e.IsPlaying() {
		done, err := e.NextTick()
		if err != nil {
			return nil, fmt.Errorf("subsong %d tick: %w", subsong, err)
		}
		if done {
			break
		}
		pos := e.Position()
		seconds := e.TotalSeconds()
		ticks := e.TotalTicks()
		hz := e.Hz()
		for sys := 0; sys < e.SystemCount(); sys++ {
			for _, w := range e.DrainWrites(sys) {
				writeIndex++
				writes = append(writes, RegisterWrite{
					WriteIndex:  writeIndex,
					Row:         pos,
					SystemIndex: sys,
					Seconds:     seconds,
					Ticks:       ticks,
					Hz:          hz,
					Addr:        w.Addr,
					Val:         w.Val,
				})
			}
		}
	}

	sentinelIndex := writeIndex
	if sentinelIndex < 0 {
		sentinelIndex = 0
	}
	writes = append(writes, RegisterWrite{
		WriteIndex:  sentinelIndex,
		Row:         e.Position(),
		SystemIndex: -1,
		Seconds:     e.TotalSeconds(),
		Ticks:       e.TotalTicks(),
		Hz:          e.Hz(),
	})
	return writes, nil
}
