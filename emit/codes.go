// Package emit rewrites a coded channel stream as a macro program and
// lowers it to assembly text plus raw bytes.
package emit

import (
	"fmt"

	"tiaforge/compress"
	"tiaforge/encode"
	"tiaforge/sequence"
)

// EncodeCopySequence walks a copy plan over codes[bounds.Start :
// bounds.Start+bounds.Length] and produces the macro code stream: merged
// literal runs, LABEL + body + POP at each macro definition, REF at each
// call.
func EncodeCopySequence(codes []sequence.AlphaCode, bounds compress.Span, plan []compress.Span) []sequence.AlphaCode {
	var out []sequence.AlphaCode
	i := bounds.Start
	end := bounds.Start + bounds.Length
	for i < end {
		p := plan[i]
		if p.Start == i && p.Length == 1 {
			runEnd := i + 1
			for runEnd < end && plan[runEnd].Start == runEnd && plan[runEnd].Length == 1 {
				runEnd++
			}
			out = EncodeDeltaSequence(codes, compress.Span{
				SubSong: bounds.SubSong,
				Channel: bounds.Channel,
				Start:   i,
				Length:  runEnd - i,
			}, out)
			i = runEnd
			continue
		}

		if p.Start == i {
			out = append(out, encode.LabelCode(p.SubSong, p.Channel, p.Start))
			out = EncodeDeltaSequence(codes, p, out)
			out = append(out, 0)
		} else {
			out = append(out, encode.RefCode(p.SubSong, p.Channel, p.Start))
		}
		i += p.Length
	}
	return out
}

// EncodeDeltaSequence appends the literal codes of one span, folding any
// run of raw skip codes into the preceding opcode's sustain count. The
// sustain field is a byte; anything past 255 frames stays behind as a
// standalone skip code.
func EncodeDeltaSequence(codes []sequence.AlphaCode, bounds compress.Span, out []sequence.AlphaCode) []sequence.AlphaCode {
	i := bounds.Start
	end := bounds.Start + bounds.Length
	for i < end {
		cx := codes[i]
		i++
		var skip sequence.AlphaCode
		for i < end && encode.IsSkip(codes[i]) {
			skip += codes[i]
			i++
		}
		if encode.Kind(cx) == 0 {
			out = append(out, cx+skip)
			continue
		}
		room := 255 - (cx & 0xff)
		if skip > room {
			out = append(out, cx+room, skip-room)
		} else {
			out = append(out, cx+skip)
		}
	}
	return out
}

// ExpandCopySequence reverses the macro structure for verification: each
// macro body is recorded at its LABEL position and replayed at every REF.
// Folded sustains stay folded; compare expansions at the interval level
// (encode.DecodeCodes), not code by code.
func ExpandCopySequence(macro []sequence.AlphaCode) ([]sequence.AlphaCode, error) {
	bodies := make(map[int][]sequence.AlphaCode)
	var out []sequence.AlphaCode
	var body []sequence.AlphaCode
	inBody := false
	bodyStart := 0

	for _, code := range macro {
		switch {
		case encode.IsLabel(code):
			if inBody {
				return nil, fmt.Errorf("nested LABEL at %d", bodyStart)
			}
			_, _, bodyStart = encode.SpanParts(code)
			body = nil
			inBody = true
		case code == 0 && inBody:
			bodies[bodyStart] = body
			out = append(out, body...)
			inBody = false
		case encode.IsRef(code):
			_, _, start := encode.SpanParts(code)
			expanded, ok := bodies[start]
			if !ok {
				return nil, fmt.Errorf("REF to undefined span %d", start)
			}
			if inBody {
				return nil, fmt.Errorf("REF inside LABEL body %d", bodyStart)
			}
			out = append(out, expanded...)
		default:
			if inBody {
				body = append(body, code)
			} else {
				out = append(out, code)
			}
		}
	}
	if inBody {
		return nil, fmt.Errorf("unterminated LABEL body %d", bodyStart)
	}
	return out, nil
}
