package capture

// SplitSubSongs partitions a mixed capture into per-subsong write slices,
// each terminated by its own sentinel. Order within a subsong is
// preserved.
func SplitSubSongs(writes []RegisterWrite) [][]RegisterWrite {
	maxSubSong := -1
	for _, w := range writes {
		if w.Sentinel() {
			continue
		}
		if w.Row.SubSong > maxSubSong {
			maxSubSong = w.Row.SubSong
		}
	}
	if maxSubSong < 0 {
		if len(writes) == 0 {
			return nil
		}
		return [][]RegisterWrite{writes}
	}

	out := make([][]RegisterWrite, maxSubSong+1)
	for _, w := range writes {
		if w.Sentinel() {
			continue
		}
		out[w.Row.SubSong] = append(out[w.Row.SubSong], w)
	}
	for ss := range out {
		if len(out[ss]) == 0 {
			out[ss] = []RegisterWrite{{Row: RowIndex{SubSong: ss}, SystemIndex: -1, Hz: 60}}
			continue
		}
		last := out[ss][len(out[ss])-1]
		out[ss] = append(out[ss], RegisterWrite{
			WriteIndex:  last.WriteIndex,
			Row:         last.Row,
			SystemIndex: -1,
			Seconds:     last.Seconds,
			Ticks:       last.Ticks,
			Hz:          last.Hz,
		})
	}
	return out
}
