package emit

import (
	"bytes"
	"fmt"
	"sort"

	"tiaforge/encode"
	"tiaforge/sequence"
)

// Byte encoding of the macro codes:
//
//	0x00             pop / end of stream
//	0x01..0x7f       dictionary short form (rank + 1)
//	0x80+s           sustain s frames, 31 >= s >= 1
//	0x90+c           control change
//	0xa0+f ccccvvvv  full register set
//	0xc0+f           frequency change
//	0xe0+v           volume change
//	0xf0|hh ll       absolute reference, 12-bit code index
//
// A LABEL costs no bytes; it only names a position in the listing.

const maxSustainChunk = 31

// MaxDictionarySize keeps rank bytes clear of the 0x80 opcode space.
const MaxDictionarySize = 126

// BuildDictionary selects the short-form dictionary from the macro code
// stream: REF codes and two-byte FULL codes (no embedded sustain) seen at
// least three times (a short form has to pay for its own table entry), at
// most size entries, ranked by
// descending frequency with ascending code as the tie-break.
func BuildDictionary(streams [][]sequence.AlphaCode, size int) map[sequence.AlphaCode]int {
	if size > MaxDictionarySize {
		size = MaxDictionarySize
	}
	freq := make(map[sequence.AlphaCode]int)
	for _, stream := range streams {
		for _, code := range stream {
			if encode.IsRef(code) {
				freq[code]++
				continue
			}
			if encode.Kind(code) != 7 {
				continue
			}
			if _, _, _, sx := encode.CodeParts(code); sx == 1 {
				// only two-byte forms earn a short form
				freq[code]++
			}
		}
	}
	type entry struct {
		code sequence.AlphaCode
		freq int
	}
	var entries []entry
	for code, f := range freq {
		if f >= 3 {
			entries = append(entries, entry{code, f})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}
		return entries[i].code < entries[j].code
	})
	if len(entries) > size {
		entries = entries[:size]
	}
	dict := make(map[sequence.AlphaCode]int, len(entries))
	for rank, e := range entries {
		dict[e.code] = rank
	}
	return dict
}

// Emitter lowers macro codes to an assembly listing and the matching
// binary stream.
type Emitter struct {
	Asm  bytes.Buffer
	Bin  bytes.Buffer
	Dict map[sequence.AlphaCode]int
	// StackDepth bounds LABEL nesting during emission.
	StackDepth int

	depth int
}

// NewEmitter returns an emitter with the default nesting budget.
func NewEmitter(dict map[sequence.AlphaCode]int) *Emitter {
	return &Emitter{Dict: dict, StackDepth: 2}
}

func (e *Emitter) byteLine(bs ...byte) {
	e.Asm.WriteString("    byte ")
	for i, b := range bs {
		if i > 0 {
			e.Asm.WriteString(", ")
		}
		fmt.Fprintf(&e.Asm, "%d", b)
	}
	e.Asm.WriteByte('\n')
	e.Bin.Write(bs)
}

func (e *Emitter) sustain(frames int) int {
	written := 0
	for frames > 0 {
		chunk := frames
		if chunk > maxSustainChunk {
			chunk = maxSustainChunk
		}
		e.byteLine(byte(0x80 + chunk))
		frames -= chunk
		written++
	}
	return written
}

// WriteCode emits one macro code and returns the bytes written.
func (e *Emitter) WriteCode(code sequence.AlphaCode) (int, error) {
	switch {
	case encode.IsLabel(code):
		subsong, channel, start := encode.SpanParts(code)
		e.depth++
		if e.depth > e.StackDepth {
			return 0, fmt.Errorf("macro nesting exceeds stack depth %d at span %d", e.StackDepth, start)
		}
		fmt.Fprintf(&e.Asm, "SPAN_START_%d_%d_%d ; LABEL\n", subsong, channel, start)
		return 0, nil

	case encode.IsRef(code):
		subsong, channel, start := encode.SpanParts(code)
		fmt.Fprintf(&e.Asm, "    ; SPAN_REF(%d, %d, %d)\n", subsong, channel, start)
		if rank, ok := e.Dict[code]; ok {
			e.byteLine(byte(rank + 1))
			return 1, nil
		}
		if start > 0x0fff {
			return 0, fmt.Errorf("span start %d exceeds 12-bit reference range", start)
		}
		fmt.Fprintf(&e.Asm, "    word SPAN_START_%d_%d_%d\n", subsong, channel, start)
		e.Bin.Write([]byte{byte(0xf0 | (start >> 8)), byte(start & 0xff)})
		return 2, nil

	case code == 0:
		e.Asm.WriteString("    ; POP\n")
		e.byteLine(0)
		if e.depth > 0 {
			e.depth--
		}
		return 1, nil

	case encode.IsSkip(code) || encode.Kind(code) == 0:
		fmt.Fprintf(&e.Asm, "    ; SKIP %d\n", int(code))
		return e.sustain(int(code)), nil
	}

	c, f, v, sx := encode.CodeParts(code)
	switch encode.Kind(code) {
	case 7:
		fmt.Fprintf(&e.Asm, "    ; C%d F%d V%d S%d\n", c, f, v, sx)
		if rank, ok := e.Dict[code]; ok {
			e.byteLine(byte(rank + 1))
			return 1, nil
		}
		e.byteLine(0xa0+f, c<<4|v)
		return 2 + e.sustain(sx-1), nil
	case 4:
		fmt.Fprintf(&e.Asm, "    ; C%d S%d\n", c, sx)
		e.byteLine(0x90 + c)
		return 1 + e.sustain(sx-1), nil
	case 2:
		fmt.Fprintf(&e.Asm, "    ; F%d S%d\n", f, sx)
		e.byteLine(0xc0 + f)
		return 1 + e.sustain(sx-1), nil
	case 1:
		fmt.Fprintf(&e.Asm, "    ; V%d S%d\n", v, sx)
		e.byteLine(0xe0 + v)
		return 1 + e.sustain(sx-1), nil
	}
	return 0, fmt.Errorf("unencodable code %#x", uint64(code))
}

// WriteStream emits a whole macro stream followed by the terminator and
// returns the bytes written.
func (e *Emitter) WriteStream(codes []sequence.AlphaCode) (int, error) {
	total := 0
	for _, code := range codes {
		n, err := e.WriteCode(code)
		if err != nil {
			return total, err
		}
		total += n
	}
	e.Asm.WriteString("    ; STOP\n")
	e.byteLine(0)
	return total + 1, nil
}
