// Package export drives the full pipeline for one song and renders the
// output artifacts for each export mode.
package export

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the export pipeline.
type Mode int

const (
	// RAW dumps folded states with no driver support.
	RAW Mode = iota
	// BASIC is the simple two-channel lockstep driver layout.
	BASIC
	// BASICX is BASIC with independent per-channel playback.
	BASICX
	// DELTA is the per-channel delta opcode stream.
	DELTA
	// COMPACT deduplicates row waveforms behind lookup tables.
	COMPACT
	// CRUSHED adds suffix-tree macro compression over the code stream.
	CRUSHED
)

var modeNames = map[Mode]string{
	RAW:     "RAW",
	BASIC:   "BASIC",
	BASICX:  "BASICX",
	DELTA:   "DELTA",
	COMPACT: "COMPACT",
	CRUSHED: "CRUSHED",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if strings.EqualFold(name, n) {
			return mode, nil
		}
	}
	return RAW, fmt.Errorf("unknown export type %q", name)
}

// Options carries the recognized configuration keys plus the CLI-only
// switches layered on top of them.
type Options struct {
	Type        Mode
	DebugOutput bool
	// StackDepth bounds macro call nesting during emission.
	StackDepth int
	// LiteralDictSize is the short-form dictionary budget.
	LiteralDictSize int
	// SequenceDictSize is parsed and carried but reserved.
	SequenceDictSize int

	// EncodeDuration switches RAW from byte-per-frame to per-interval
	// rows with an explicit duration column.
	EncodeDuration bool
	// MinRepeatDepth is the shortest repeat worth a macro.
	MinRepeatDepth int
	// Strict upgrades recoverable conditions to errors.
	Strict bool
	// Verbose logs recovered capture conditions (zero-duration clamps) to
	// stderr.
	Verbose bool
	// DebugWav renders the folded states to a WAV preview.
	DebugWav bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Type:             COMPACT,
		StackDepth:       2,
		LiteralDictSize:  64,
		SequenceDictSize: 64,
		MinRepeatDepth:   3,
	}
}

// Set applies one configuration key. Unknown keys are an error so typos
// in option files surface immediately.
func (o *Options) Set(key, value string) error {
	switch key {
	case "tiaExportType":
		mode, err := ParseMode(value)
		if err != nil {
			return err
		}
		o.Type = mode
	case "debugOutput":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debugOutput: %w", err)
		}
		o.DebugOutput = b
	case "stackDepth":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("stackDepth: want a small positive integer, got %q", value)
		}
		o.StackDepth = n
	case "literalDictSize":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("literalDictSize: want a non-negative integer, got %q", value)
		}
		o.LiteralDictSize = n
	case "sequenceDictSize":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("sequenceDictSize: want a non-negative integer, got %q", value)
		}
		o.SequenceDictSize = n
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}
