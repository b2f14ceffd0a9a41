package export

import (
	"bytes"
	"fmt"
)

// 4x6 font used to encode the title into playfield graphics. Glyph order:
// digits, space, underscore, dot, angle brackets, A-Z. Anything else maps
// to the underscore.
var fontData = [41][6]byte{
	{0x00, 0x04, 0x0a, 0x0a, 0x0a, 0x04}, // 0
	{0x00, 0x0e, 0x04, 0x04, 0x04, 0x0c}, // 1
	{0x00, 0x0e, 0x08, 0x06, 0x02, 0x0c}, // 2
	{0x00, 0x0c, 0x02, 0x06, 0x02, 0x0c}, // 3
	{0x00, 0x02, 0x02, 0x0e, 0x0a, 0x0a}, // 4
	{0x00, 0x0c, 0x02, 0x0c, 0x08, 0x06}, // 5
	{0x00, 0x06, 0x0a, 0x0c, 0x08, 0x06}, // 6
	{0x00, 0x08, 0x08, 0x04, 0x02, 0x0e}, // 7
	{0x00, 0x06, 0x0a, 0x0e, 0x0a, 0x0c}, // 8
	{0x00, 0x02, 0x02, 0x0e, 0x0a, 0x0c}, // 9
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // space
	{0x00, 0x0e, 0x00, 0x00, 0x00, 0x00}, // underscore
	{0x00, 0x04, 0x00, 0x00, 0x00, 0x00}, // dot
	{0x00, 0x02, 0x04, 0x08, 0x04, 0x02}, // <
	{0x00, 0x08, 0x04, 0x02, 0x04, 0x08}, // >
	{0x00, 0x0a, 0x0a, 0x0e, 0x0a, 0x0e}, // A
	{0x00, 0x0e, 0x0a, 0x0c, 0x0a, 0x0e}, // B
	{0x00, 0x0e, 0x08, 0x08, 0x08, 0x0e}, // C
	{0x00, 0x0c, 0x0a, 0x0a, 0x0a, 0x0c}, // D
	{0x00, 0x0e, 0x08, 0x0c, 0x08, 0x0e}, // E
	{0x00, 0x08, 0x08, 0x0c, 0x08, 0x0e}, // F
	{0x00, 0x0e, 0x0a, 0x08, 0x08, 0x0e}, // G
	{0x00, 0x0a, 0x0a, 0x0e, 0x0a, 0x0a}, // H
	{0x00, 0x04, 0x04, 0x04, 0x04, 0x04}, // I
	{0x00, 0x0e, 0x0a, 0x02, 0x02, 0x02}, // J
	{0x00, 0x0a, 0x0a, 0x0c, 0x0a, 0x0a}, // K
	{0x00, 0x0e, 0x08, 0x08, 0x08, 0x08}, // L
	{0x00, 0x0a, 0x0a, 0x0e, 0x0e, 0x0e}, // M
	{0x00, 0x0a, 0x0a, 0x0a, 0x0a, 0x0e}, // N
	{0x00, 0x0e, 0x0a, 0x0a, 0x0a, 0x0e}, // O
	{0x00, 0x08, 0x08, 0x0e, 0x0a, 0x0e}, // P
	{0x00, 0x06, 0x08, 0x0a, 0x0a, 0x0e}, // Q
	{0x00, 0x0a, 0x0a, 0x0c, 0x0a, 0x0e}, // R
	{0x00, 0x0e, 0x02, 0x0e, 0x08, 0x0e}, // S
	{0x00, 0x04, 0x04, 0x04, 0x04, 0x0e}, // T
	{0x00, 0x0e, 0x0a, 0x0a, 0x0a, 0x0a}, // U
	{0x00, 0x04, 0x04, 0x0e, 0x0a, 0x0a}, // V
	{0x00, 0x0e, 0x0e, 0x0e, 0x0a, 0x0a}, // W
	{0x00, 0x0a, 0x0e, 0x04, 0x0e, 0x0a}, // X
	{0x00, 0x04, 0x04, 0x0e, 0x0a, 0x0a}, // Y
	{0x00, 0x0e, 0x08, 0x04, 0x02, 0x0e}, // Z
}

func fontIndex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case c == ' ' || c == 0:
		return 10
	case c == '.':
		return 12
	case c == '<':
		return 13
	case c == '>':
		return 14
	case 'a' <= c && c <= 'z':
		return 15 + int(c-'a')
	case 'A' <= c && c <= 'Z':
		return 15 + int(c-'A')
	}
	return 11
}

// minTitlePairs keeps the graphics table at least three label strides
// long so the display kernel never underruns.
const minTitlePairs = 3

// writeTextGraphics encodes two glyphs per 6-byte column group, left
// glyph in the high nibble.
func writeTextGraphics(w *bytes.Buffer, value string) int {
	bytesWritten := 0
	pairs := 0
	pos := 0
	next := func() byte {
		if pos >= len(value) {
			return 0
		}
		c := value[pos]
		pos++
		return c
	}
	for pairs < minTitlePairs || pos < len(value) {
		fmt.Fprintf(w, "TITLE_GRAPHICS_%d\n    byte ", pairs)
		pairs++
		ai := fontIndex(next())
		bi := fontIndex(next())
		for i := 0; i < 6; i++ {
			if i > 0 {
				w.WriteByte(',')
			}
			c := fontData[ai][i]<<4 | fontData[bi][i]
			fmt.Fprintf(w, "%d", c)
			bytesWritten++
		}
		w.WriteByte('\n')
	}
	fmt.Fprintf(w, "TITLE_LENGTH = %d\n", pairs)
	return bytesWritten
}

// writeTrackMeta renders Track_meta.asm: the commented song header and
// the title glyph table.
func writeTrackMeta(info SongInfo) []byte {
	var w bytes.Buffer
	fmt.Fprintf(&w, "; Name: %s\n", info.Name)
	fmt.Fprintf(&w, "; Author: %s\n", info.Author)
	fmt.Fprintf(&w, "; Album: %s\n", info.Album)
	fmt.Fprintf(&w, "; System: %s\n", info.SystemName)
	fmt.Fprintf(&w, "; Tuning: %g\n", info.Tuning)
	fmt.Fprintf(&w, "; Instruments: %d\n", info.Instruments)
	fmt.Fprintf(&w, "; Wavetables: %d\n", info.Wavetables)
	fmt.Fprintf(&w, "; Samples: %d\n\n", info.Samples)
	writeTextGraphics(&w, info.Title())
	return w.Bytes()
}
