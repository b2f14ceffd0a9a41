package sequence

// FollowStats summarizes code-to-code transitions across the streams of
// one song: how many codes are always followed by the same successor, and
// the widest fan-out seen. Both feed the size trailer of the compressed
// export.
type FollowStats struct {
	Singletons int
	MaxBranch  int
	MaxCode    AlphaCode
}

// Follow walks each stream and counts distinct successors per code.
func Follow(streams ...[]AlphaCode) FollowStats {
	followers := make(map[AlphaCode]map[AlphaCode]int)
	for _, stream := range streams {
		last := AlphaCode(0)
		for _, code := range stream {
			m, ok := followers[last]
			if !ok {
				m = make(map[AlphaCode]int)
				followers[last] = m
			}
			m[code]++
			last = code
		}
	}
	var stats FollowStats
	for code, m := range followers {
		if len(m) > stats.MaxBranch {
			stats.MaxBranch = len(m)
			stats.MaxCode = code
		}
		if len(m) == 1 {
			stats.Singletons++
		}
	}
	return stats
}
