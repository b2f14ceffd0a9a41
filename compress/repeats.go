package compress

import (
	"container/heap"
	"sort"

	"tiaforge/sequence"
)

// Span addresses a run inside one channel's coded sequence. Length 0
// means unassigned, length 1 a literal; a longer span whose Start is not
// its own position references the copy beginning at Start.
type Span struct {
	SubSong int
	Channel int
	Start   int
	Length  int
}

// DuplicateSpans is one maximal left-diverse occurrence class with its
// non-overlapping spans, compression score and left/right context
// histograms.
type DuplicateSpans struct {
	Spans  []Span
	Length int
	Weight int
	In     map[sequence.AlphaChar]int
	Out    map[sequence.AlphaChar]int

	order int
}

// spanHeap is a max-heap over weight, with length and insertion order
// breaking ties so selection is deterministic.
type spanHeap []*DuplicateSpans

func (h spanHeap) Len() int { return len(h) }
func (h spanHeap) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight > h[j].Weight
	}
	if h[i].Length != h[j].Length {
		return h[i].Length > h[j].Length
	}
	return h[i].order < h[j].order
}
func (h spanHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *spanHeap) Push(x any)   { *h = append(*h, x.(*DuplicateSpans)) }
func (h *spanHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// gatherCandidates enumerates the left-diverse repeats worth anything:
// depth at least minDepth, occurrences filtered to non-overlapping, and a
// positive score of length*repeats - (length + repeats).
func gatherCandidates(t *SuffixTree, subsong, channel, minDepth int) []*DuplicateSpans {
	var repeats []int
	t.GatherLeft(t.Root(), &repeats)

	var candidates []*DuplicateSpans
	for _, u := range repeats {
		length := t.Depth(u)
		if length < minDepth {
			continue
		}
		leaves := t.GatherLeaves(u)
		sort.Slice(leaves, func(i, j int) bool { return t.Start(leaves[i]) < t.Start(leaves[j]) })

		kept := leaves[:0]
		lastEnd := 0
		for _, l := range leaves {
			if t.Start(l) < lastEnd {
				continue
			}
			lastEnd = t.Start(l) + length
			kept = append(kept, l)
		}
		repeatsCount := len(kept)
		uncompressed := length * repeatsCount
		overhead := length + repeatsCount
		if overhead >= uncompressed {
			continue
		}

		dup := &DuplicateSpans{
			Length: length,
			Weight: uncompressed - overhead,
			In:     make(map[sequence.AlphaChar]int),
			Out:    make(map[sequence.AlphaChar]int),
			order:  len(candidates),
		}
		for _, l := range kept {
			start := t.Start(l)
			dup.Spans = append(dup.Spans, Span{SubSong: subsong, Channel: channel, Start: start, Length: length})
			charIn := sequence.AlphaChar(0)
			if start > 0 {
				charIn = t.seq[start-1]
			}
			dup.In[charIn]++
			end := start + length
			charOut := sequence.AlphaChar(0)
			if end < len(t.seq) {
				charOut = t.seq[end]
			}
			dup.Out[charOut]++
		}
		candidates = append(candidates, dup)
	}
	return candidates
}

// SelectRepeats turns the tree's repeats into a position-indexed copy
// plan over the whole sequence: at each index either a literal
// (length 1, own start), a macro definition (length > 1, own start) or a
// macro call (length > 1, earlier start). Committed spans never overlap.
//
// Candidates come off a max-heap by weight. A popped candidate first
// drops spans that already lost positions to earlier commits; if that
// demoted it below the next candidate it goes back on the heap, otherwise
// its surviving spans commit.
func SelectRepeats(t *SuffixTree, subsong, channel, minDepth int) []Span {
	copySequence := make([]Span, len(t.seq))
	for i := range copySequence {
		copySequence[i] = Span{SubSong: subsong, Channel: channel, Start: i}
	}

	pq := spanHeap(gatherCandidates(t, subsong, channel, minDepth))
	heap.Init(&pq)

	for pq.Len() > 0 {
		top := heap.Pop(&pq).(*DuplicateSpans)

		invalidated := 0
		for i := range top.Spans {
			span := &top.Spans[i]
			if span.Length == 0 {
				continue
			}
			taken := false
			for j := span.Start; j < span.Start+span.Length; j++ {
				if copySequence[j].Length > 0 {
					taken = true
					break
				}
			}
			if !taken {
				continue
			}
			if top.Weight < span.Length {
				top.Weight = 0
				break
			}
			top.Weight -= span.Length
			span.Length = 0
			invalidated++
		}

		if top.Weight == 0 {
			continue
		}
		if invalidated > 0 && pq.Len() > 0 && pq[0].Weight > top.Weight {
			heap.Push(&pq, top)
			continue
		}

		first := true
		firstStart := 0
		for _, span := range top.Spans {
			if span.Length == 0 {
				continue
			}
			if first {
				first = false
				firstStart = span.Start
				copySequence[span.Start] = span
			} else {
				copySequence[span.Start] = Span{SubSong: subsong, Channel: channel, Start: firstStart, Length: span.Length}
			}
			for j := span.Start + 1; j < span.Start+span.Length; j++ {
				copySequence[j].Length = 1
			}
		}
	}

	for i := range copySequence {
		if copySequence[i].Length == 0 {
			copySequence[i].Length = 1
		}
	}
	return copySequence
}
