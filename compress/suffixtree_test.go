package compress

import (
	"sort"
	"testing"

	"tiaforge/sequence"
)

// rankString maps each distinct byte to a rank >= 1 and appends the
// sentinel, giving suffix tree tests a compact notation.
func rankString(s string) (seq []sequence.AlphaChar, alphabetSize int, rank map[byte]sequence.AlphaChar) {
	rank = make(map[byte]sequence.AlphaChar)
	next := sequence.AlphaChar(1)
	for i := 0; i < len(s); i++ {
		if _, ok := rank[s[i]]; !ok {
			rank[s[i]] = next
			next++
		}
	}
	for i := 0; i < len(s); i++ {
		seq = append(seq, rank[s[i]])
	}
	seq = append(seq, 0)
	return seq, int(next), rank
}

func ranksOf(s string, rank map[byte]sequence.AlphaChar) []sequence.AlphaChar {
	var out []sequence.AlphaChar
	for i := 0; i < len(s); i++ {
		out = append(out, rank[s[i]])
	}
	return out
}

func TestFind(t *testing.T) {
	seq, size, rank := rankString("banana")
	tree := NewSuffixTree(size, seq)

	for _, key := range []string{"banana", "anana", "ana", "na", "a", "n", "b"} {
		u := tree.Find(ranksOf(key, rank))
		if !Found(u) {
			t.Errorf("Find(%q) = nil, want a locus", key)
			continue
		}
		start := tree.Start(u)
		for i := 0; i < len(key); i++ {
			if seq[start+i] != rank[key[i]] {
				t.Errorf("Find(%q) locus start %d does not match an occurrence", key, start)
				break
			}
		}
	}

	for _, key := range []string{"nab", "bb", "aa", "annn"} {
		if Found(tree.Find(ranksOf(key, rank))) {
			t.Errorf("Find(%q) found a locus for an absent key", key)
		}
	}
}

func TestFindPrior(t *testing.T) {
	for _, input := range []string{"banana", "xabxacxab", "abcdeabcdefghijfghijabcdexyxyxyx"} {
		seq, size, _ := rankString(input)
		tree := NewSuffixTree(size, seq)

		// brute force reference: the longest match fully before i
		bruteLen := func(i int) int {
			best := 0
			for start := 0; start < i; start++ {
				l := 0
				for start+l < i && i+l < len(seq) && seq[start+l] == seq[i+l] {
					l++
				}
				if l > best {
					best = l
				}
			}
			return best
		}

		for i := 0; i < len(seq)-1; i++ {
			start, length := tree.FindPrior(i)
			if want := bruteLen(i); length != want {
				t.Errorf("%q FindPrior(%d) length = %d, want %d", input, i, length, want)
				continue
			}
			if length == 0 {
				continue
			}
			if start+length > i {
				t.Errorf("%q FindPrior(%d) = (%d, %d) overlaps the suffix", input, i, start, length)
			}
			for j := 0; j < length; j++ {
				if seq[start+j] != seq[i+j] {
					t.Errorf("%q FindPrior(%d) = (%d, %d) does not match", input, i, start, length)
					break
				}
			}
		}
	}
}

func TestGatherLeaves(t *testing.T) {
	seq, size, rank := rankString("banana")
	tree := NewSuffixTree(size, seq)

	u := tree.Find(ranksOf("ana", rank))
	if !Found(u) {
		t.Fatal("locus of ana missing")
	}
	leaves := tree.GatherLeaves(u)
	var starts []int
	for _, l := range leaves {
		starts = append(starts, tree.Start(l))
	}
	sort.Ints(starts)
	if len(starts) != 2 || starts[0] != 1 || starts[1] != 3 {
		t.Errorf("ana occurrences = %v, want [1 3]", starts)
	}
}

func TestFindMaximalSubstring(t *testing.T) {
	seq, size, _ := rankString("banana")
	tree := NewSuffixTree(size, seq)
	u := tree.FindMaximalSubstring()
	if !Found(u) || tree.Depth(u) != 3 {
		t.Errorf("maximal repeated substring depth = %d, want 3 (ana)", tree.Depth(u))
	}
}

func TestGatherLeft(t *testing.T) {
	t.Run("banana has two left-diverse nodes", func(t *testing.T) {
		seq, size, _ := rankString("banana")
		tree := NewSuffixTree(size, seq)
		var nodes []int
		tree.GatherLeft(tree.Root(), &nodes)
		var depths []int
		for _, u := range nodes {
			depths = append(depths, tree.Depth(u))
		}
		sort.Ints(depths)
		if len(depths) != 2 || depths[0] != 1 || depths[1] != 3 {
			t.Errorf("left-diverse depths = %v, want [1 3] (a, ana)", depths)
		}
	})

	t.Run("uniform run is left-uniform beyond the wraparound", func(t *testing.T) {
		seq, size, _ := rankString("aaaa")
		tree := NewSuffixTree(size, seq)
		var nodes []int
		tree.GatherLeft(tree.Root(), &nodes)
		// every leaf except position 0 is preceded by another a; only the
		// wraparound sentinel context makes the run diverse at all
		for _, u := range nodes {
			if tree.Depth(u) > 3 {
				t.Errorf("unexpected deep left-diverse node at depth %d", tree.Depth(u))
			}
		}
	})
}
